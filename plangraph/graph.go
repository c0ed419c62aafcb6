package plangraph

// NodeStyle tells the renderer how to draw a node.
type NodeStyle int

const (
	BoxStyle NodeStyle = iota
	// RootStyle is the sentinel every traversal is anchored to.
	RootStyle
	// ShardStyle marks a per-shard fan-out node.
	ShardStyle
)

func (s NodeStyle) String() string {
	switch s {
	case RootStyle:
		return "root"
	case ShardStyle:
		return "shard"
	default:
		return "box"
	}
}

type Node struct {
	ID      int
	Label   Label
	Style   NodeStyle
	Tooltip string
}

// Edge points from a child stage to its logical parent.
type Edge struct {
	From  int
	To    int
	Label string
}

// Cluster boxes the nodes of one aggregation pipeline stage.
type Cluster struct {
	ID      string
	Label   string
	Members []int
}

// Graph is the finished graph model. Node IDs are 1..len(Nodes) in creation order
// and node 1 is the root sentinel.
type Graph struct {
	Nodes    []*Node
	Edges    []*Edge
	Clusters []*Cluster
}

// RootID is the ID of the root sentinel.
const RootID = 1

func (g *Graph) Root() *Node {
	return g.Node(RootID)
}

// Node returns the node with the given ID or nil.
func (g *Graph) Node(id int) *Node {
	if id < 1 || id > len(g.Nodes) {
		return nil
	}
	return g.Nodes[id-1]
}

// Children returns the IDs of the nodes pointing to id, in creation order.
func (g *Graph) Children(id int) []int {
	var children []int
	for _, e := range g.Edges {
		if e.To == id {
			children = append(children, e.From)
		}
	}
	return children
}

// EdgeFrom returns the edge leaving id, or nil for the root.
func (g *Graph) EdgeFrom(id int) *Edge {
	for _, e := range g.Edges {
		if e.From == id {
			return e
		}
	}
	return nil
}

// ClusterOf maps each clustered node ID to its innermost cluster.
func (g *Graph) ClusterOf() map[int]*Cluster {
	result := make(map[int]*Cluster)
	for _, c := range g.Clusters {
		for _, id := range c.Members {
			result[id] = c
		}
	}
	return result
}
