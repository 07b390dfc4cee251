// Package pathfind answers path queries over a fixed graph snapshot. Every
// query is read-only and stateless per call; edge direction is ignored for
// traversal (a shareholder link connects both ways for discovery purposes)
// while the stored edges stay directed for presentation.
package pathfind

import (
	"fmt"

	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/model"
)

// NotFoundError reports a query referencing an entity id absent from the
// snapshot. It is surfaced to the caller verbatim, never retried.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %s not found in graph", e.ID)
}

// UnreachableError names the first waypoint pair a multi-waypoint query could
// not connect. The whole query fails as a unit.
type UnreachableError struct {
	From, To string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("no path between waypoints %s and %s", e.From, e.To)
}

// Filters prune candidate paths. They are applied to enumerated paths or
// pushed into the search, never by mutating the underlying graph.
type Filters struct {
	ExcludeInsolvent bool `json:"exclude_insolvent"`
	ExcludeForeign   bool `json:"exclude_foreign"`
	ExcludeInactive  bool `json:"exclude_inactive"`
}

func (f Filters) any() bool {
	return f.ExcludeInsolvent || f.ExcludeForeign || f.ExcludeInactive
}

// PathStep is the per-node presentation detail of a path.
type PathStep struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Type               model.EntityKind `json:"type"`
	Position           int              `json:"position"`
	RelationshipToNext string           `json:"relationship_to_next,omitempty"`
}

// PathResult is the outcome of a single-path query. Found=false with no error
// means the query succeeded but no path exists.
type PathResult struct {
	Found     bool            `json:"found"`
	Path      []string        `json:"path,omitempty"`
	Length    int             `json:"path_length"`
	Details   []PathStep      `json:"details,omitempty"`
	Subgraph  *model.Subgraph `json:"subgraph,omitempty"`
	Waypoints []string        `json:"waypoints,omitempty"`
}

// RankedPath is one of the k shortest simple paths.
type RankedPath struct {
	Path    []string   `json:"path"`
	Length  int        `json:"length"`
	Details []PathStep `json:"details"`
}

type PathsResult struct {
	Found    bool            `json:"found"`
	Count    int             `json:"count"`
	Paths    []RankedPath    `json:"paths,omitempty"`
	Subgraph *model.Subgraph `json:"subgraph,omitempty"`
}

// Engine runs queries against one snapshot. It holds no state of its own and
// is safe for concurrent use.
type Engine struct {
	snap *graph.Snapshot
}

func New(snap *graph.Snapshot) *Engine {
	return &Engine{snap: snap}
}

func (e *Engine) require(ids ...string) error {
	for _, id := range ids {
		if _, ok := e.snap.Node(id); !ok {
			return &NotFoundError{ID: id}
		}
	}
	return nil
}

// ShortestPath returns the minimum edge-count path between two entities, with
// no filters applied.
func (e *Engine) ShortestPath(source, target string) (*PathResult, error) {
	if err := e.require(source, target); err != nil {
		return nil, err
	}
	path := e.bfs(source, target, Filters{})
	if path == nil {
		return &PathResult{Found: false}, nil
	}
	return &PathResult{
		Found:    true,
		Path:     path,
		Length:   len(path) - 1,
		Details:  e.pathDetails(path),
		Subgraph: e.subgraph(path, 1, pathHops(path)),
	}, nil
}

// TopKPaths returns the k shortest simple paths, ranked by edge count
// ascending with ties kept in enumeration order. Paths touching filtered
// nodes or edges are pruned during enumeration; if fewer than k compliant
// paths exist, all that exist are returned.
func (e *Engine) TopKPaths(source, target string, k int, filters Filters) (*PathsResult, error) {
	if err := e.require(source, target); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 3
	}
	paths := e.kShortestSimple(source, target, k, func(p []string) bool {
		return e.pathAllowed(p, filters)
	})
	if len(paths) == 0 {
		return &PathsResult{Found: false}, nil
	}
	res := &PathsResult{Found: true, Count: len(paths)}
	touched := make(map[string]bool)
	var order []string
	for _, p := range paths {
		res.Paths = append(res.Paths, RankedPath{
			Path:    p,
			Length:  len(p) - 1,
			Details: e.pathDetails(p),
		})
		for _, id := range p {
			if !touched[id] {
				touched[id] = true
				order = append(order, id)
			}
		}
	}
	res.Subgraph = e.subgraph(order, 0, pathHops(paths...))
	return res, nil
}

// MultiWaypointPath connects an ordered list of at least two waypoints,
// computing a shortest compliant path for each consecutive pair and
// concatenating the segments. The combined path need not be globally simple;
// each segment is. If any pair cannot be connected the whole query fails
// with an UnreachableError naming that pair.
func (e *Engine) MultiWaypointPath(waypoints []string, filters Filters) (*PathResult, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("at least 2 waypoints are required, got %d", len(waypoints))
	}
	if err := e.require(waypoints...); err != nil {
		return nil, err
	}
	var combined []string
	for i := 0; i < len(waypoints)-1; i++ {
		seg := e.bfs(waypoints[i], waypoints[i+1], filters)
		if seg == nil {
			return nil, &UnreachableError{From: waypoints[i], To: waypoints[i+1]}
		}
		if i == 0 {
			combined = append(combined, seg...)
		} else {
			combined = append(combined, seg[1:]...)
		}
	}
	return &PathResult{
		Found:     true,
		Path:      combined,
		Length:    len(combined) - 1,
		Details:   e.pathDetails(combined),
		Subgraph:  e.subgraph(combined, 1, pathHops(combined)),
		Waypoints: waypoints,
	}, nil
}

func (e *Engine) nodeAllowed(f Filters, id string) bool {
	n, ok := e.snap.Node(id)
	if !ok {
		return false
	}
	if f.ExcludeInsolvent && n.Insolvent {
		return false
	}
	if f.ExcludeForeign && n.Country != model.DefaultCountry {
		return false
	}
	return true
}

// stepAllowed reports whether the hop u-v may be used. Under the inactive
// filter a hop is usable as long as any edge between the pair is active.
func (e *Engine) stepAllowed(f Filters, u, v string) bool {
	if !f.ExcludeInactive {
		return true
	}
	for _, rel := range e.snap.EdgesBetween(u, v) {
		if rel.Active {
			return true
		}
	}
	return false
}

func (e *Engine) pathAllowed(path []string, f Filters) bool {
	if !f.any() {
		return true
	}
	for _, id := range path {
		if !e.nodeAllowed(f, id) {
			return false
		}
	}
	for i := 0; i < len(path)-1; i++ {
		if !e.stepAllowed(f, path[i], path[i+1]) {
			return false
		}
	}
	return true
}

// bfs finds a shortest path honoring the filters, or nil.
func (e *Engine) bfs(source, target string, f Filters) []string {
	return e.bfsConstrained(source, target, f, nil, nil)
}

// bfsConstrained is the shared breadth-first search: filters plus explicit
// banned nodes and banned undirected hops (used by the top-K spur searches).
func (e *Engine) bfsConstrained(source, target string, f Filters, bannedNodes map[string]bool, bannedHops map[[2]string]bool) []string {
	if f.any() && (!e.nodeAllowed(f, source) || !e.nodeAllowed(f, target)) {
		return nil
	}
	if bannedNodes[source] || bannedNodes[target] {
		return nil
	}
	if source == target {
		return []string{source}
	}
	parent := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range e.snap.Neighbors(u) {
			if _, visited := parent[v]; visited || bannedNodes[v] {
				continue
			}
			if bannedHops[hopKey(u, v)] {
				continue
			}
			if f.any() && (!e.nodeAllowed(f, v) || !e.stepAllowed(f, u, v)) {
				continue
			}
			parent[v] = u
			if v == target {
				return reconstruct(parent, source, target)
			}
			queue = append(queue, v)
		}
	}
	return nil
}

func reconstruct(parent map[string]string, source, target string) []string {
	var rev []string
	for at := target; at != ""; at = parent[at] {
		rev = append(rev, at)
		if at == source {
			break
		}
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

func hopKey(u, v string) [2]string {
	if u > v {
		u, v = v, u
	}
	return [2]string{u, v}
}

// pathDetails annotates each node of a path with its presentation fields and
// the relationship label toward the next node.
func (e *Engine) pathDetails(path []string) []PathStep {
	steps := make([]PathStep, 0, len(path))
	for i, id := range path {
		n, _ := e.snap.Node(id)
		step := PathStep{ID: id, Position: i}
		if n != nil {
			step.Name = n.Name
			step.Type = n.Kind
		}
		if i < len(path)-1 {
			if rels := e.snap.EdgesBetween(id, path[i+1]); len(rels) > 0 {
				step.RelationshipToNext = rels[0].Type
			}
		}
		steps = append(steps, step)
	}
	return steps
}
