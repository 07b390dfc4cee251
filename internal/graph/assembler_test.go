package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepify/orgraph/internal/model"
	"github.com/prepify/orgraph/internal/resolve"
)

func executiveFact(companyID, surname, given, birth, role string, active bool) model.Fact {
	return model.Fact{
		Kind:             model.FactExecutive,
		SubjectCompanyID: companyID,
		Person:           &model.Person{Surname: surname, GivenName: given, BirthDate: birth},
		Role:             role,
		Active:           active,
	}
}

func TestAssembler_AddCompany(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("45274649", "Avast Software s.r.o.", "Praha")

	snap := a.Snapshot()
	n, ok := snap.Node("45274649")
	require.True(t, ok)
	assert.Equal(t, model.KindCompany, n.Kind)
	assert.Equal(t, "Avast Software s.r.o.", n.Name)
	assert.Equal(t, "Praha", n.City)
	assert.Equal(t, model.DefaultCountry, n.Country)
	assert.False(t, n.Insolvent)
}

func TestAssembler_PlaceholderEnrichedLater(t *testing.T) {
	a := NewAssembler()
	// The legal-shareholder reference arrives before the company's own
	// record.
	a.AddFact(model.Fact{
		Kind:             model.FactShareholderLegal,
		SubjectCompanyID: "27116158",
		LegalEntityRef:   "45274649",
		Active:           true,
	})
	a.AddCompany("45274649", "Avast Software s.r.o.", "Praha")

	snap := a.Snapshot()
	n, ok := snap.Node("45274649")
	require.True(t, ok)
	assert.Equal(t, "Avast Software s.r.o.", n.Name)
	assert.Equal(t, 2, snap.NodeCount())
	assert.Equal(t, 1, snap.EdgeCount())
}

func TestAssembler_ExecutiveEdge(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("45274649", "Avast Software s.r.o.", "")
	a.AddFact(executiveFact("45274649", "Novak", "Jan", "1985-01-15", "Jednatel", true))

	snap := a.Snapshot()
	pid := resolve.PersonID(model.Person{Surname: "Novak", GivenName: "Jan", BirthDate: "1985-01-15"})

	person, ok := snap.Node(pid)
	require.True(t, ok)
	assert.Equal(t, model.KindPerson, person.Kind)
	assert.Equal(t, "Jan Novak", person.Name)

	edges := snap.EdgesBetween(pid, "45274649")
	require.Len(t, edges, 1)
	assert.Equal(t, pid, edges[0].Source)
	assert.Equal(t, "45274649", edges[0].Target)
	assert.Equal(t, "Jednatel", edges[0].Type)
	assert.True(t, edges[0].Active)
}

func TestAssembler_SamePersonAcrossCompanies(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")
	a.AddCompany("2", "Beta", "")
	a.AddFact(executiveFact("1", "NOVAK", "JAN", "1985-01-15", "Jednatel", true))
	a.AddFact(executiveFact("2", "Novak", "Jan", "1985-01-15", "Jednatel", true))

	snap := a.Snapshot()
	// One person node with edges to both companies.
	assert.Equal(t, 3, snap.NodeCount())
	assert.Equal(t, 2, snap.EdgeCount())
}

func TestAssembler_DuplicateEdgeMerged(t *testing.T) {
	a := NewAssembler()
	f := executiveFact("1", "Novak", "Jan", "1985-01-15", "Jednatel", true)
	a.AddFact(f)
	a.AddFact(f)

	assert.Equal(t, 1, a.Snapshot().EdgeCount())
}

func TestAssembler_DistinctTuplesCoexist(t *testing.T) {
	a := NewAssembler()
	// Same pair, different role and different active flag: three edges.
	a.AddFact(executiveFact("1", "Novak", "Jan", "1985-01-15", "Jednatel", true))
	a.AddFact(executiveFact("1", "Novak", "Jan", "1985-01-15", "Jednatel", false))
	a.AddFact(executiveFact("1", "Novak", "Jan", "1985-01-15", "Prokurista", true))

	assert.Equal(t, 3, a.Snapshot().EdgeCount())
}

func TestAssembler_ShareholderEdges(t *testing.T) {
	a := NewAssembler()
	a.AddFact(model.Fact{
		Kind:             model.FactShareholderNatural,
		SubjectCompanyID: "1",
		Person:           &model.Person{Surname: "Svoboda", GivenName: "Petr", BirthDate: "1971-11-30"},
		Active:           true,
	})
	a.AddFact(model.Fact{
		Kind:             model.FactShareholderLegal,
		SubjectCompanyID: "1",
		LegalEntityRef:   "2",
		Active:           true,
	})

	snap := a.Snapshot()
	for _, e := range snap.Edges() {
		assert.Equal(t, model.RelShareholder, e.Type)
		assert.Equal(t, "1", e.Target)
	}
}

func TestAssembler_RegisteredAddressOverridesCity(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "Brno")
	a.AddFact(model.Fact{
		Kind:             model.FactRegisteredAddress,
		SubjectCompanyID: "1",
		City:             "Praha",
		Active:           true,
	})

	n, _ := a.Snapshot().Node("1")
	assert.Equal(t, "Praha", n.City)
}

func TestAssembler_SetInsolvent(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")

	a.SetInsolvent("1", true)
	assert.True(t, a.nodes["1"].Insolvent)

	// Last write wins.
	a.SetInsolvent("1", false)
	assert.False(t, a.nodes["1"].Insolvent)

	// Unknown ids are ignored, no new node appears.
	a.SetInsolvent("missing", true)
	assert.Equal(t, 1, len(a.nodes))
}

func TestAssembler_SetForeignDetails(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("CY001", "Cyprus Holdings Ltd.", "Nicosia")

	a.SetForeignDetails("CY001", ForeignDetails{Country: "CY"})
	n, _ := a.Snapshot().Node("CY001")
	assert.Equal(t, "CY", n.Country)
	// Empty fields left the existing values alone.
	assert.Equal(t, "Cyprus Holdings Ltd.", n.Name)
	assert.Equal(t, "Nicosia", n.City)

	a.SetForeignDetails("missing", ForeignDetails{Country: "DE"})
	assert.Equal(t, 1, len(a.nodes))
}

func TestAssembler_CompanyIDs(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")
	a.AddFact(executiveFact("2", "Novak", "Jan", "1985-01-15", "Jednatel", true))

	// Person nodes are excluded, insertion order kept.
	assert.Equal(t, []string{"1", "2"}, a.CompanyIDs())
}

func TestSnapshot_Neighbors(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")
	a.AddCompany("2", "Beta", "")
	a.AddCompany("3", "Gamma", "")
	a.AddFact(model.Fact{Kind: model.FactShareholderLegal, SubjectCompanyID: "2", LegalEntityRef: "1", Active: true})
	a.AddFact(model.Fact{Kind: model.FactShareholderLegal, SubjectCompanyID: "1", LegalEntityRef: "3", Active: true})

	snap := a.Snapshot()
	// Both directions count: 1 owns 2, 3 owns 1.
	assert.Equal(t, []string{"2", "3"}, snap.Neighbors("1"))
	assert.Equal(t, []string{"1"}, snap.Neighbors("2"))
	assert.True(t, snap.HasEdgeBetween("3", "1"))
	assert.False(t, snap.HasEdgeBetween("3", "2"))
}

func TestSnapshot_Connected(t *testing.T) {
	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")
	a.AddCompany("2", "Beta", "")
	a.AddFact(model.Fact{Kind: model.FactShareholderLegal, SubjectCompanyID: "2", LegalEntityRef: "1", Active: true})
	assert.True(t, a.Snapshot().Connected())

	b := NewAssembler()
	b.AddCompany("1", "Alpha", "")
	b.AddCompany("2", "Beta", "")
	b.AddCompany("3", "Isolated", "")
	b.AddFact(model.Fact{Kind: model.FactShareholderLegal, SubjectCompanyID: "2", LegalEntityRef: "1", Active: true})
	assert.False(t, b.Snapshot().Connected())
}

func TestStore_PublishSwapsAtomically(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Current())

	a := NewAssembler()
	a.AddCompany("1", "Alpha", "")
	first := a.Snapshot()
	store.Publish(first)
	assert.Same(t, first, store.Current())

	b := NewAssembler()
	b.AddCompany("1", "Alpha", "")
	b.AddCompany("2", "Beta", "")
	second := b.Snapshot()
	store.Publish(second)

	// The old snapshot object is untouched by the swap.
	assert.Same(t, second, store.Current())
	assert.Equal(t, 1, first.NodeCount())
	assert.NotEqual(t, first.ID, second.ID)
}
