// Package graph assembles the directed relationship multigraph and publishes
// it as immutable snapshots. All node/edge mutation happens here during a
// build; once a snapshot is taken it is never touched again.
package graph

import (
	"strings"

	"github.com/prepify/orgraph/internal/model"
	"github.com/prepify/orgraph/internal/resolve"
)

// ForeignDetails is the enrichment payload delivered by a foreign-registry
// lookup, keyed by entity id.
type ForeignDetails struct {
	Name    string
	City    string
	Country string
	Status  string
}

// Assembler accumulates one graph build. It is not safe for concurrent use;
// a reload runs a fresh assembler and atomically publishes the result.
type Assembler struct {
	nodes map[string]*model.Entity
	order []string
	edges []model.Relationship
	seen  map[model.Relationship]struct{}
}

func NewAssembler() *Assembler {
	return &Assembler{
		nodes: make(map[string]*model.Entity),
		seen:  make(map[model.Relationship]struct{}),
	}
}

// ensure creates a placeholder node on first mention; later facts and
// enrichment calls fill it in.
func (a *Assembler) ensure(id string, kind model.EntityKind) *model.Entity {
	if n, ok := a.nodes[id]; ok {
		return n
	}
	n := &model.Entity{ID: id, Kind: kind, Country: model.DefaultCountry}
	a.nodes[id] = n
	a.order = append(a.order, id)
	return n
}

// AddCompany registers a company node with its flat-column name and city.
// Both enrich an existing placeholder if the id was already mentioned.
func (a *Assembler) AddCompany(id, name, city string) {
	n := a.ensure(resolve.CompanyID(id), model.KindCompany)
	if name != "" {
		n.Name = name
	}
	if city != "" {
		n.City = city
	}
}

// AddFact folds one extracted fact into the graph, resolving references to
// canonical ids and creating endpoint nodes as needed.
func (a *Assembler) AddFact(f model.Fact) {
	subject := resolve.CompanyID(f.SubjectCompanyID)
	switch f.Kind {
	case model.FactExecutive:
		pid := a.addPerson(f.Person)
		a.ensure(subject, model.KindCompany)
		role := f.Role
		if role == "" {
			role = model.RelExecutiveDefault
		}
		a.addEdge(pid, subject, role, f.Active)
	case model.FactShareholderNatural:
		pid := a.addPerson(f.Person)
		a.ensure(subject, model.KindCompany)
		a.addEdge(pid, subject, model.RelShareholder, f.Active)
	case model.FactShareholderLegal:
		ref := resolve.CompanyID(f.LegalEntityRef)
		a.ensure(ref, model.KindCompany)
		a.ensure(subject, model.KindCompany)
		a.addEdge(ref, subject, model.RelShareholder, f.Active)
	case model.FactRegisteredAddress:
		n := a.ensure(subject, model.KindCompany)
		// Last write wins; loaders call this once per company per load.
		n.City = f.City
	}
}

func (a *Assembler) addPerson(p *model.Person) string {
	id := resolve.PersonID(*p)
	n := a.ensure(id, model.KindPerson)
	if n.Name == "" {
		n.Name = strings.TrimSpace(p.GivenName + " " + p.Surname)
	}
	return id
}

// addEdge appends a directed edge; exact duplicates (same source, target,
// type, active) merge idempotently, distinct tuples coexist (multigraph).
func (a *Assembler) addEdge(source, target, relType string, active bool) {
	rel := model.Relationship{Source: source, Target: target, Type: relType, Active: active}
	if _, dup := a.seen[rel]; dup {
		return
	}
	a.seen[rel] = struct{}{}
	a.edges = append(a.edges, rel)
}

// CompanyIDs returns the ids of all company nodes added so far, in insertion
// order. Used by the enrichment steps between assembly and snapshot.
func (a *Assembler) CompanyIDs() []string {
	var out []string
	for _, id := range a.order {
		if a.nodes[id].Kind == model.KindCompany {
			out = append(out, id)
		}
	}
	return out
}

// SetInsolvent applies an insolvency-registry verdict. Last write wins: the
// flag can move unknown→false→true, and a later false overwrites an earlier
// true rather than being rejected. Unknown ids are ignored.
func (a *Assembler) SetInsolvent(id string, insolvent bool) {
	if n, ok := a.nodes[id]; ok {
		n.Insolvent = insolvent
	}
}

// SetForeignDetails applies a foreign-registry lookup result. Empty fields
// leave the current value alone. Unknown ids are ignored.
func (a *Assembler) SetForeignDetails(id string, d ForeignDetails) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	if d.Name != "" {
		n.Name = d.Name
	}
	if d.City != "" {
		n.City = d.City
	}
	if d.Country != "" {
		n.Country = d.Country
	}
}
