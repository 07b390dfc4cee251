package graph

import (
	"time"

	"github.com/google/uuid"

	"github.com/prepify/orgraph/internal/model"
)

// Snapshot is a fully-built, immutable graph instance. Queries may run
// against it concurrently without synchronization; a reload builds a new
// snapshot instead of mutating this one.
type Snapshot struct {
	ID      string
	BuiltAt time.Time

	nodes map[string]*model.Entity
	order []string
	edges []model.Relationship
	adj   map[string][]int // node id -> incident edge indexes, both endpoints
}

// Snapshot freezes the assembler's current state. The assembler must not be
// used to add facts afterwards.
func (a *Assembler) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:      uuid.New().String(),
		BuiltAt: time.Now().UTC(),
		nodes:   a.nodes,
		order:   a.order,
		edges:   a.edges,
		adj:     make(map[string][]int),
	}
	for i, e := range a.edges {
		s.adj[e.Source] = append(s.adj[e.Source], i)
		if e.Target != e.Source {
			s.adj[e.Target] = append(s.adj[e.Target], i)
		}
	}
	return s
}

// Node returns the entity with the given id.
func (s *Snapshot) Node(id string) (*model.Entity, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all entities in insertion order.
func (s *Snapshot) Nodes() []*model.Entity {
	out := make([]*model.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Edges returns all relationships in insertion order.
func (s *Snapshot) Edges() []model.Relationship {
	return s.edges
}

func (s *Snapshot) NodeCount() int { return len(s.nodes) }
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Neighbors returns the distinct ids adjacent to the node, following edges in
// both directions, in edge-insertion order.
func (s *Snapshot) Neighbors(id string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, i := range s.adj[id] {
		other := s.edges[i].Target
		if other == id {
			other = s.edges[i].Source
		}
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// EdgesBetween returns every edge connecting u and v, either direction.
func (s *Snapshot) EdgesBetween(u, v string) []model.Relationship {
	var out []model.Relationship
	for _, i := range s.adj[u] {
		e := s.edges[i]
		if (e.Source == u && e.Target == v) || (e.Source == v && e.Target == u) {
			out = append(out, e)
		}
	}
	return out
}

// HasEdgeBetween reports whether any edge connects u and v.
func (s *Snapshot) HasEdgeBetween(u, v string) bool {
	for _, i := range s.adj[u] {
		e := s.edges[i]
		if (e.Source == u && e.Target == v) || (e.Source == v && e.Target == u) {
			return true
		}
	}
	return false
}

// Connected reports whether the graph is a single connected component,
// ignoring edge direction. Empty graphs are not connected.
func (s *Snapshot) Connected() bool {
	if len(s.order) == 0 {
		return false
	}
	visited := make(map[string]bool, len(s.order))
	queue := []string{s.order[0]}
	visited[s.order[0]] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range s.Neighbors(u) {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	return len(visited) == len(s.order)
}
