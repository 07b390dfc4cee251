package pathfind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/model"
)

func ownership(owner, owned string, active bool) model.Fact {
	return model.Fact{
		Kind:             model.FactShareholderLegal,
		SubjectCompanyID: owned,
		LegalEntityRef:   owner,
		Active:           active,
	}
}

// testSnapshot builds the shared fixture:
//
//	A→B→C active chain, plus a direct but inactive A→C edge,
//	two alternative routes A→F→C (F foreign) and A→I→C (I insolvent),
//	and a disconnected D→E component.
func testSnapshot() *graph.Snapshot {
	a := graph.NewAssembler()
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "I"} {
		a.AddCompany(id, "Firma "+id, "Praha")
	}
	a.AddFact(ownership("A", "B", true))
	a.AddFact(ownership("B", "C", true))
	a.AddFact(ownership("A", "C", false))
	a.AddFact(ownership("A", "F", true))
	a.AddFact(ownership("F", "C", true))
	a.AddFact(ownership("A", "I", true))
	a.AddFact(ownership("I", "C", true))
	a.AddFact(ownership("D", "E", true))

	a.SetForeignDetails("F", graph.ForeignDetails{Country: "CY"})
	a.SetInsolvent("I", true)
	return a.Snapshot()
}

func TestShortestPath(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.ShortestPath("A", "C")

	require.NoError(t, err)
	assert.True(t, res.Found)
	// The direct edge wins even though it is inactive: the plain
	// shortest-path query applies no filters.
	assert.Equal(t, []string{"A", "C"}, res.Path)
	assert.Equal(t, 1, res.Length)

	require.Len(t, res.Details, 2)
	assert.Equal(t, "A", res.Details[0].ID)
	assert.Equal(t, 0, res.Details[0].Position)
	assert.Equal(t, model.RelShareholder, res.Details[0].RelationshipToNext)
	assert.Equal(t, "", res.Details[1].RelationshipToNext)
}

func TestShortestPath_TraversalIgnoresDirection(t *testing.T) {
	e := New(testSnapshot())

	// B is owned by A; the stored edge points A→B but the path B→A exists.
	res, err := e.ShortestPath("B", "A")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"B", "A"}, res.Path)
}

func TestShortestPath_NoRoute(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.ShortestPath("A", "D")

	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
}

func TestShortestPath_UnknownEntity(t *testing.T) {
	e := New(testSnapshot())

	_, err := e.ShortestPath("A", "missing")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.ID)
}

func TestShortestPath_SubgraphMarkers(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.ShortestPath("A", "C")
	require.NoError(t, err)

	// Path nodes plus their one-hop halo; D and E stay out.
	assert.Len(t, res.Subgraph.Nodes, 5)
	inPath := map[string]bool{}
	for _, n := range res.Subgraph.Nodes {
		inPath[n.ID] = n.InPath
	}
	assert.True(t, inPath["A"])
	assert.True(t, inPath["C"])
	assert.False(t, inPath["B"])
	assert.False(t, inPath["F"])

	for _, edge := range res.Subgraph.Edges {
		onPath := edge.Source == "A" && edge.Target == "C"
		assert.Equal(t, onPath, edge.InPath)
	}
}

func TestTopKPaths(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "C", 5, Filters{})

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, []string{"A", "C"}, res.Paths[0].Path)
	assert.Equal(t, 1, res.Paths[0].Length)
	for _, p := range res.Paths[1:] {
		assert.Equal(t, 2, p.Length)
	}
}

func TestTopKPaths_DefaultK(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "C", 0, Filters{})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
}

func TestTopKPaths_ExcludeInactive(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "C", 5, Filters{ExcludeInactive: true})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	// The direct A-C hop only has an inactive edge, so the length-1 path
	// is gone.
	for _, p := range res.Paths {
		assert.NotEqual(t, []string{"A", "C"}, p.Path)
		assert.Equal(t, 2, p.Length)
	}
}

func TestTopKPaths_ExcludeForeignAndInsolvent(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "C", 5, Filters{ExcludeForeign: true, ExcludeInsolvent: true})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	for _, p := range res.Paths {
		for _, id := range p.Path {
			assert.NotContains(t, []string{"F", "I"}, id)
		}
	}
}

func TestTopKPaths_AllFilters(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "C", 3, Filters{
		ExcludeInactive:  true,
		ExcludeForeign:   true,
		ExcludeInsolvent: true,
	})

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []string{"A", "B", "C"}, res.Paths[0].Path)
}

func TestTopKPaths_NoCompliantPath(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.TopKPaths("A", "D", 3, Filters{})

	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Zero(t, res.Count)
}

func TestMultiWaypointPath(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.MultiWaypointPath([]string{"B", "A", "C"}, Filters{})

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"B", "A", "C"}, res.Path)
	assert.Equal(t, 2, res.Length)
	assert.Equal(t, []string{"B", "A", "C"}, res.Waypoints)
}

func TestMultiWaypointPath_FiltersApply(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.MultiWaypointPath([]string{"A", "C"}, Filters{
		ExcludeInactive:  true,
		ExcludeForeign:   true,
		ExcludeInsolvent: true,
	})

	require.NoError(t, err)
	// Direct hop is inactive and the F/I detours are filtered, so the
	// segment routes through B.
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
}

func TestMultiWaypointPath_UnreachablePairNamed(t *testing.T) {
	e := New(testSnapshot())

	_, err := e.MultiWaypointPath([]string{"A", "C", "D"}, Filters{})

	var unreach *UnreachableError
	require.True(t, errors.As(err, &unreach))
	assert.Equal(t, "C", unreach.From)
	assert.Equal(t, "D", unreach.To)
}

func TestMultiWaypointPath_TooFewWaypoints(t *testing.T) {
	e := New(testSnapshot())

	_, err := e.MultiWaypointPath([]string{"A"}, Filters{})

	require.Error(t, err)
	var unreach *UnreachableError
	assert.False(t, errors.As(err, &unreach))
}

func TestMultiWaypointPath_OnlyHopEdgesMarkedInPath(t *testing.T) {
	e := New(testSnapshot())

	res, err := e.MultiWaypointPath([]string{"A", "B", "C"}, Filters{})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, res.Path)

	// A and C are both path nodes, but the direct A-C edge is not a hop of
	// [A,B,C] and must stay unmarked.
	for _, edge := range res.Subgraph.Edges {
		hop := (edge.Source == "A" && edge.Target == "B") ||
			(edge.Source == "B" && edge.Target == "C")
		assert.Equal(t, hop, edge.InPath, "edge %s->%s", edge.Source, edge.Target)
	}
}

func TestMultiWaypointPath_RevisitingAllowed(t *testing.T) {
	e := New(testSnapshot())

	// B→C→B revisits B; segments are simple, the combined path need not be.
	res, err := e.MultiWaypointPath([]string{"B", "C", "B"}, Filters{})

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "B"}, res.Path)
}
