package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/edmallia/MongoDBExplainViz/plangraph"
)

const mermaidHeader = `%%{ init: {"theme": "default",
           "themeVariables": { "wrap": "false" },
           "flowchart": { "curve": "linear",
                          "markdownAutoWrap":"false",
                          "wrappingWidth": "600" }
           }
}%%
`

func renderMermaid(g *plangraph.Graph, writer io.Writer) error {
	var sb strings.Builder
	sb.WriteString(mermaidHeader)
	sb.WriteString("graph BT\n") // Bottom-Up direction, edges point to the parent

	clusterOf := g.ClusterOf()
	for _, node := range g.Nodes {
		if _, ok := clusterOf[node.ID]; ok {
			continue
		}
		writeMermaidNode(&sb, node, "    ")
	}

	for _, c := range g.Clusters {
		fmt.Fprintf(&sb, "    subgraph %s [\"%s\"]\n", c.ID, strings.ReplaceAll(c.Label, `"`, "#quot;"))
		for _, id := range c.Members {
			if clusterOf[id] != c {
				continue
			}
			writeMermaidNode(&sb, g.Node(id), "        ")
		}
		sb.WriteString("    end\n")
	}

	// Append all edges after all nodes are defined
	for _, edge := range g.Edges {
		var edgeLabelPart string
		if edge.Label != "" {
			edgeLabelPart = fmt.Sprintf("|%s|", strings.ReplaceAll(edge.Label, `"`, "#quot;"))
		}
		fmt.Fprintf(&sb, "    %s -->%s %s\n", nodeName(edge.From), edgeLabelPart, nodeName(edge.To))
	}

	_, err := io.WriteString(writer, sb.String())
	return err
}

func writeMermaidNode(sb *strings.Builder, node *plangraph.Node, indent string) {
	var open, close string
	switch node.Style {
	case plangraph.RootStyle:
		open, close = "(((", ")))"
	case plangraph.ShardStyle:
		open, close = "([", "])"
	default:
		open, close = "[", "]"
	}
	fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", indent, nodeName(node.ID), open, mermaidLabel(node.Label), close)
}
