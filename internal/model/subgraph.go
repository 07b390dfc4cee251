package model

// SubgraphNode and SubgraphEdge are the presentation projection of entities
// and relationships actually touched by a query result. Building a subgraph
// never mutates the canonical graph.
type SubgraphNode struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Type      EntityKind `json:"type"`
	City      string     `json:"city,omitempty"`
	Country   string     `json:"country"`
	Insolvent bool       `json:"insolvent"`
	InPath    bool       `json:"in_path"`
}

type SubgraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
	InPath bool   `json:"in_path"`
}

type Subgraph struct {
	Nodes []SubgraphNode `json:"nodes"`
	Edges []SubgraphEdge `json:"edges"`
}
