package model

type EntityKind string

const (
	KindCompany EntityKind = "company"
	KindPerson  EntityKind = "person"
)

// DefaultCountry is assumed for every registry entity unless a foreign
// registry marks it otherwise.
const DefaultCountry = "CZ"

// Entity is a node in the relationship graph. Fields are mutated only by the
// graph assembler during a build; a published snapshot never changes.
type Entity struct {
	ID        string     `json:"id"`
	Kind      EntityKind `json:"type"`
	Name      string     `json:"name"`
	City      string     `json:"city,omitempty"`
	Country   string     `json:"country"`
	Insolvent bool       `json:"insolvent"`
}

// Relationship is a directed, typed edge. Multiple edges between the same
// pair with different type or active flag are allowed; exact duplicates are
// merged by the assembler.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

const (
	// RelShareholder is the edge label for shareholder links, kept in the
	// registry's own wording.
	RelShareholder = "společník"

	// RelExecutiveDefault is used when a statutory-organ member carries no
	// explicit function label.
	RelExecutiveDefault = "jednatel"
)
