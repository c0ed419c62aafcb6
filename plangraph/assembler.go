package plangraph

import "fmt"

// Assembler accumulates a Graph during a single traversal.
// It is not safe for concurrent use.
type Assembler struct {
	counter int
	graph   *Graph
	open    []*Cluster
}

func NewAssembler() *Assembler {
	return &Assembler{graph: &Graph{}}
}

type NodeOption func(*Node)

func WithTooltip(tooltip string) NodeOption {
	return func(n *Node) {
		n.Tooltip = tooltip
	}
}

// NewNode registers a node and returns its ID. IDs start at 1.
// The node joins every open cluster.
func (a *Assembler) NewNode(label Label, style NodeStyle, opts ...NodeOption) int {
	a.counter++
	n := &Node{ID: a.counter, Label: label, Style: style}
	for _, opt := range opts {
		opt(n)
	}
	a.graph.Nodes = append(a.graph.Nodes, n)

	for _, c := range a.open {
		c.Members = append(c.Members, n.ID)
	}
	return n.ID
}

func (a *Assembler) AddEdge(from, to int, label string) {
	a.graph.Edges = append(a.graph.Edges, &Edge{From: from, To: to, Label: label})
}

// OpenCluster starts a cluster; nodes created until the matching CloseCluster become its members.
func (a *Assembler) OpenCluster(label string) {
	c := &Cluster{
		ID:    fmt.Sprintf("cluster_%d", len(a.graph.Clusters)+1),
		Label: label,
	}
	a.graph.Clusters = append(a.graph.Clusters, c)
	a.open = append(a.open, c)
}

func (a *Assembler) CloseCluster() {
	if len(a.open) == 0 {
		return
	}
	a.open = a.open[:len(a.open)-1]
}

func (a *Assembler) Graph() *Graph {
	return a.graph
}
