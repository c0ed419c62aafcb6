package plantree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/edmallia/MongoDBExplainViz/internal/lox"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
)

func init() {
	// Use only ascii characters to mitigate ambiguous width problem
	treeprint.EdgeTypeLink = "|"
	treeprint.EdgeTypeMid = "+-"
	treeprint.EdgeTypeEnd = "+-"

	treeprint.IndentSize = 2
}

type Row struct {
	ID       int
	TreePart string
	NodeText string
	Node     *plangraph.Node
}

func (r Row) Text() string {
	return r.TreePart + r.NodeText
}

// Attribute returns the value of the named label attribute or an empty string.
func (r Row) Attribute(name string) string {
	v, _ := r.Node.Label.Attribute(name)
	return v
}

// ProcessGraph flattens g into rows in depth-first order, starting at the root.
func ProcessGraph(g *plangraph.Graph) ([]Row, error) {
	if g.Root() == nil {
		return nil, fmt.Errorf("graph has no root")
	}

	tree := treeprint.New()
	renderTree(g, tree, plangraph.RootID)

	var result []Row
	for _, line := range strings.Split(tree.String(), "\n") {
		if line == "" {
			continue
		}

		branchText, idText, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("unexpected tree line = %q", line)
		}

		id, err := strconv.Atoi(idText)
		if err != nil {
			return nil, fmt.Errorf("unexpected node id, tree line = %q: %w", line, err)
		}

		node := g.Node(id)
		if node == nil {
			return nil, fmt.Errorf("unknown node %d", id)
		}

		result = append(result, Row{
			ID:       id,
			TreePart: branchText,
			NodeText: nodeText(node),
			Node:     node,
		})
	}
	return result, nil
}

func nodeText(node *plangraph.Node) string {
	if node.Style == plangraph.RootStyle {
		return "(root)"
	}
	return lox.IfOrEmpty(node.Style == plangraph.ShardStyle, "[shard] ") + node.Label.Title
}

func renderTree(g *plangraph.Graph, tree treeprint.Tree, id int) {
	// Prefixed by tab to ease to split
	str := "\t" + strconv.Itoa(id)

	children := g.Children(id)

	var branch treeprint.Tree
	switch {
	case id == plangraph.RootID:
		tree.SetValue(str)
		branch = tree
	case len(children) > 0:
		branch = tree.AddBranch(str)
	default:
		branch = tree.AddNode(str)
	}

	for _, child := range children {
		renderTree(g, branch, child)
	}
}
