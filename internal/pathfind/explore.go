package pathfind

import "github.com/prepify/orgraph/internal/model"

// EntityInfo is the summary header of an explore result.
type EntityInfo struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Type model.EntityKind `json:"type"`
}

type ExploreResult struct {
	Entity        EntityInfo      `json:"entity"`
	Subgraph      *model.Subgraph `json:"subgraph"`
	NeighborCount int             `json:"neighbor_count"`
}

// Explore returns the entity and its one-hop neighborhood, both edge
// directions. existing lists node ids already visible from a prior
// exploration; it only adds cross-edges between the new neighbors and those
// nodes, it never filters which neighbors are returned.
func (e *Engine) Explore(entityID string, existing []string) (*ExploreResult, error) {
	center, ok := e.snap.Node(entityID)
	if !ok {
		return nil, &NotFoundError{ID: entityID}
	}

	neighbors := e.snap.Neighbors(entityID)
	sub := &model.Subgraph{}
	sub.Nodes = append(sub.Nodes, subgraphNode(center, false))
	for _, nb := range neighbors {
		if n, ok := e.snap.Node(nb); ok {
			sub.Nodes = append(sub.Nodes, subgraphNode(n, false))
		}
		for _, rel := range e.snap.EdgesBetween(entityID, nb) {
			sub.Edges = append(sub.Edges, exploreEdge(rel))
		}
	}

	if len(existing) > 0 {
		visible := make(map[string]bool, len(existing))
		for _, id := range existing {
			if _, ok := e.snap.Node(id); ok {
				visible[id] = true
			}
		}
		seen := make(map[model.Relationship]bool)
		for _, edge := range sub.Edges {
			seen[model.Relationship{Source: edge.Source, Target: edge.Target, Type: edge.Type, Active: edge.Active}] = true
		}
		for _, nb := range neighbors {
			for vis := range visible {
				if vis == nb || vis == entityID {
					continue
				}
				for _, rel := range e.snap.EdgesBetween(nb, vis) {
					if !seen[rel] {
						seen[rel] = true
						sub.Edges = append(sub.Edges, exploreEdge(rel))
					}
				}
			}
		}
	}

	name := center.Name
	if name == "" {
		name = center.ID
	}
	return &ExploreResult{
		Entity:        EntityInfo{ID: center.ID, Name: name, Type: center.Kind},
		Subgraph:      sub,
		NeighborCount: len(neighbors),
	}, nil
}

func exploreEdge(rel model.Relationship) model.SubgraphEdge {
	return model.SubgraphEdge{
		Source: rel.Source,
		Target: rel.Target,
		Type:   rel.Type,
		Active: rel.Active,
		InPath: false,
	}
}
