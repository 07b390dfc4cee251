package pathfind

import "github.com/prepify/orgraph/internal/model"

// subgraph projects the nodes reachable from the given path within depth hops
// into a presentation subgraph: a deduplicated node list, the edges among the
// included nodes, and an in-path marker. Nodes are marked by path membership;
// edges only when they connect a consecutive hop pair, so a stray edge
// between two non-adjacent path nodes stays unmarked. Depth 1 gives
// single-path results a one-hop halo; depth 0 restricts to the path nodes
// themselves.
func (e *Engine) subgraph(path []string, depth int, hops map[[2]string]bool) *model.Subgraph {
	inPath := make(map[string]bool, len(path))
	include := make(map[string]bool, len(path))
	var order []string
	add := func(id string) {
		if !include[id] {
			include[id] = true
			order = append(order, id)
		}
	}
	for _, id := range path {
		inPath[id] = true
		add(id)
	}
	frontier := path
	for d := 0; d < depth; d++ {
		var next []string
		for _, id := range frontier {
			for _, nb := range e.snap.Neighbors(id) {
				if !include[nb] {
					add(nb)
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}

	sub := &model.Subgraph{}
	for _, id := range order {
		n, ok := e.snap.Node(id)
		if !ok {
			continue
		}
		sub.Nodes = append(sub.Nodes, subgraphNode(n, inPath[id]))
	}
	for _, rel := range e.snap.Edges() {
		if include[rel.Source] && include[rel.Target] {
			sub.Edges = append(sub.Edges, model.SubgraphEdge{
				Source: rel.Source,
				Target: rel.Target,
				Type:   rel.Type,
				Active: rel.Active,
				InPath: hops[hopKey(rel.Source, rel.Target)],
			})
		}
	}
	return sub
}

// pathHops collects the consecutive hop pairs of the given paths, keyed
// direction-insensitively.
func pathHops(paths ...[]string) map[[2]string]bool {
	hops := make(map[[2]string]bool)
	for _, p := range paths {
		for i := 0; i < len(p)-1; i++ {
			hops[hopKey(p[i], p[i+1])] = true
		}
	}
	return hops
}

func subgraphNode(n *model.Entity, inPath bool) model.SubgraphNode {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	return model.SubgraphNode{
		ID:        n.ID,
		Label:     label,
		Type:      n.Kind,
		City:      n.City,
		Country:   n.Country,
		Insolvent: n.Insolvent,
		InPath:    inPath,
	}
}
