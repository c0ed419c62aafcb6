package visualize

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/edmallia/MongoDBExplainViz/option"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
)

func RenderImage(ctx context.Context, g *plangraph.Graph, format graphviz.Format, writer io.Writer, param option.Options) error {
	if g == nil || g.Root() == nil {
		return fmt.Errorf("cannot render image: graph has no root")
	}

	if param.TypeFlag == option.TypeMermaid {
		return renderMermaid(g, writer)
	}

	return renderGraphViz(ctx, g, format, writer)
}

func renderGraphViz(ctx context.Context, g *plangraph.Graph, format graphviz.Format, writer io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := gv.Close(); err != nil {
			log.Print(err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return err
	}
	defer func() {
		if err := graph.Close(); err != nil {
			log.Print(err)
		}
	}()

	// The default start type is random, which makes layouts differ between runs.
	graph.SetStart(graphviz.RegularStart)

	err = renderGraph(graph, g)
	if err != nil {
		return fmt.Errorf("failed to render graph content: %w", err)
	}

	return gv.Render(ctx, graph, format, writer)
}

func renderGraph(graph *cgraph.Graph, g *plangraph.Graph) error {
	// Edges point from child to parent, so the root ends up on top.
	graph.SetRankDir(cgraph.BTRank)

	subGraphs := make(map[string]*cgraph.Graph, len(g.Clusters))
	for _, c := range g.Clusters {
		sub, err := graph.CreateSubGraphByName(c.ID)
		if err != nil {
			return err
		}
		sub.SetLabel(c.Label)
		subGraphs[c.ID] = sub
	}

	clusterOf := g.ClusterOf()
	gvNodes := make(map[int]*cgraph.Node, len(g.Nodes))
	for _, node := range g.Nodes {
		owner := graph
		if c, ok := clusterOf[node.ID]; ok {
			owner = subGraphs[c.ID]
		}

		n, err := renderNode(graph, owner, node)
		if err != nil {
			return err
		}
		gvNodes[node.ID] = n
	}

	for _, edge := range g.Edges {
		if err := renderEdge(graph, gvNodes, edge); err != nil {
			return err
		}
	}
	return nil
}

// renderNode creates node inside owner, which is graph itself or one of its cluster subgraphs.
func renderNode(graph, owner *cgraph.Graph, node *plangraph.Node) (*cgraph.Node, error) {
	n, err := owner.CreateNodeByName(nodeName(node.ID))
	if err != nil {
		return nil, err
	}

	switch node.Style {
	case plangraph.RootStyle:
		n.SetShape(cgraph.DoubleCircleShape)
		n.SetLabel("")
	case plangraph.ShardStyle:
		n.SetShape(cgraph.EggShape)
		n.SetLabel(node.Label.Title)
	default:
		n.SetShape(cgraph.BoxShape)
		label, err := graph.StrdupHTML(nodeHTML(node.Label))
		if err != nil {
			return nil, err
		}
		n.SetLabel(label)
	}

	if node.Tooltip != "" {
		n.SetTooltip(node.Tooltip)
	}
	return n, nil
}

func renderEdge(graph *cgraph.Graph, gvNodes map[int]*cgraph.Node, edge *plangraph.Edge) error {
	from, to := gvNodes[edge.From], gvNodes[edge.To]
	if from == nil || to == nil {
		return fmt.Errorf("invalid condition, edge %d->%d references an unknown node", edge.From, edge.To)
	}

	ed, err := graph.CreateEdgeByName("", from, to)
	if err != nil {
		return err
	}

	if edge.Label != "" {
		ed.SetLabel(edge.Label)
	}
	return nil
}

func nodeName(id int) string {
	return fmt.Sprintf("node%d", id)
}
