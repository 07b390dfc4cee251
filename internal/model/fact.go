package model

type FactKind int

const (
	FactExecutive FactKind = iota
	FactShareholderNatural
	FactShareholderLegal
	FactRegisteredAddress
)

// Person holds the identifying fields of a natural person as they appear in a
// record, name parts already title-cased by the interpreter.
type Person struct {
	Surname   string
	GivenName string
	BirthDate string
}

// Fact is one relationship-relevant statement extracted from a record. Facts
// are ephemeral: produced by the interpreter and consumed immediately by the
// assembler.
type Fact struct {
	Kind             FactKind
	SubjectCompanyID string
	Person           *Person // natural-person facts only
	LegalEntityRef   string  // legal-shareholder facts only
	Role             string  // executive facts only
	Active           bool
	City             string // registered-address facts only
}

// RawRecord is one company's row from the registry export: the flat columns
// plus the single structured field that encodes all sub-sections.
type RawRecord struct {
	RegistryID string
	Name       string
	City       string
	RawField   string
}
