package plangraph

import (
	"embed"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samber/lo"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
)

//go:embed testdata
var testdataFS embed.FS

func buildFixture(t *testing.T, name string) *Graph {
	t.Helper()
	doc := lo.Must(explainplan.Extract(lo.Must(testdataFS.ReadFile("testdata/" + name))))
	g, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument(%s) error = %v", name, err)
	}
	return g
}

type graphSummary struct {
	Nodes    []string
	Edges    []string
	Clusters []string
}

func summarize(g *Graph) graphSummary {
	return graphSummary{
		Nodes: lo.Map(g.Nodes, func(n *Node, _ int) string {
			return fmt.Sprintf("%d %s %q", n.ID, n.Style, n.Label.String())
		}),
		Edges: lo.Map(g.Edges, func(e *Edge, _ int) string {
			return fmt.Sprintf("%d->%d %q", e.From, e.To, e.Label)
		}),
		Clusters: lo.Map(g.Clusters, func(c *Cluster, _ int) string {
			return fmt.Sprintf("%s %q %v", c.ID, c.Label, c.Members)
		}),
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		fixture string
		want    graphSummary
	}{
		{
			fixture: "find.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "FETCH\nnReturned: 10"`,
					`3 box "IXSCAN\nnReturned: 10\nkeysExamined: 10\nindexName: a_1"`,
				},
				Edges: []string{
					`2->1 "nReturned: 10"`,
					`3->2 "nReturned: 10"`,
				},
			},
		},
		{
			fixture: "sharded_find.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "SHARD_MERGE\nnReturned: 12"`,
					`3 shard "shard01"`,
					`4 box "FETCH\nnReturned: 5\ndocsExamined: 5"`,
					`5 box "IXSCAN\nnReturned: 5\nkeysExamined: 5\nindexName: status_1"`,
					`6 shard "shard02"`,
					`7 box "FETCH\nnReturned: 7\ndocsExamined: 7"`,
					`8 box "IXSCAN\nnReturned: 7\nkeysExamined: 7\nindexName: status_1"`,
				},
				Edges: []string{
					`2->1 "nReturned: 12"`,
					`3->2 "nReturned: 5"`,
					`4->3 "nReturned: 5"`,
					`5->4 "nReturned: 5"`,
					`6->2 "nReturned: 7"`,
					`7->6 "nReturned: 7"`,
					`8->7 "nReturned: 7"`,
				},
			},
		},
		{
			fixture: "or_find.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "FETCH\nnReturned: 4\ndocsExamined: 4"`,
					`3 box "OR\nnReturned: 4"`,
					`4 box "IXSCAN\nnReturned: 2\nkeysExamined: 2\nindexName: a_1"`,
					`5 box "IXSCAN\nnReturned: 3\nkeysExamined: 3\nindexName: b_1"`,
				},
				Edges: []string{
					`2->1 "nReturned: 4"`,
					`3->2 "nReturned: 4"`,
					`4->3 "nReturned: 2"`,
					`5->3 "nReturned: 3"`,
				},
			},
		},
		{
			fixture: "aggregate.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "$sort\nnReturned: 3"`,
					`3 box "$group\nnReturned: 3"`,
					`4 box "$cursor"`,
					`5 box "PROJECTION_SIMPLE\nnReturned: 6"`,
					`6 box "COLLSCAN\nnReturned: 6\ndocsExamined: 10"`,
				},
				Edges: []string{
					`2->1 ""`,
					`3->2 ""`,
					`4->3 ""`,
					`5->4 "nReturned: 6"`,
					`6->5 "nReturned: 6"`,
				},
				Clusters: []string{
					`cluster_1 "$sort" [2]`,
					`cluster_2 "$group" [3]`,
					`cluster_3 "$cursor" [4 5 6]`,
				},
			},
		},
		{
			fixture: "aggregate_sharded.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "mergeType: mongos"`,
					`3 shard "shard02"`,
					`4 box "$group\nnReturned: 2"`,
					`5 box "$cursor"`,
					`6 box "COLLSCAN\nnReturned: 4\ndocsExamined: 4"`,
					`7 shard "shard01"`,
					`8 box "COLLSCAN\nnReturned: 3\ndocsExamined: 9"`,
				},
				Edges: []string{
					`2->1 ""`,
					`3->2 ""`,
					`4->3 ""`,
					`5->4 ""`,
					`6->5 "nReturned: 4"`,
					`7->2 ""`,
					`8->7 "nReturned: 3"`,
				},
				Clusters: []string{
					`cluster_1 "$group" [4]`,
					`cluster_2 "$cursor" [5 6]`,
				},
			},
		},
		{
			fixture: "legacy_split_pipeline.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 shard "s0"`,
					`3 box "$match"`,
				},
				Edges: []string{
					`2->1 ""`,
					`3->2 ""`,
				},
				Clusters: []string{
					`cluster_1 "$match" [3]`,
				},
			},
		},
		{
			// The last declared stage is nearest to the root.
			fixture: "pipeline.json",
			want: graphSummary{
				Nodes: []string{
					`1 root ""`,
					`2 box "$stageC"`,
					`3 box "$stageB"`,
					`4 box "$stageA"`,
				},
				Edges: []string{
					`2->1 ""`,
					`3->2 ""`,
					`4->3 ""`,
				},
				Clusters: []string{
					`cluster_1 "$stageC" [2]`,
					`cluster_2 "$stageB" [3]`,
					`cluster_3 "$stageA" [4]`,
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			got := summarize(buildFixture(t, tt.fixture))
			if diff := cmp.Diff(got, tt.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Build() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestBuildWithoutExecution(t *testing.T) {
	for _, input := range []string{
		`{"command": {"aggregate": "c"}}`,
		`{"command": {"aggregate": "c"}, "shards": {}}`,
		`{"command": {"aggregate": "c"}, "stages": []}`,
	} {
		t.Run(input, func(t *testing.T) {
			g, err := FromDocument(lo.Must(explainplan.Extract([]byte(input))))
			if err != nil {
				t.Fatalf("FromDocument() error = %v", err)
			}
			if len(g.Nodes) != 1 || len(g.Edges) != 0 || g.Root().Style != RootStyle {
				t.Errorf("FromDocument() = %+v, want only the root", summarize(g))
			}
		})
	}
}

func TestFromDocumentError(t *testing.T) {
	doc := lo.Must(explainplan.Extract([]byte(`{"command": {"aggregate": "c"}, "stages": [{"$match": {}}, {"$a": {}, "$b": {}}]}`)))

	g, err := FromDocument(doc)
	if !errors.Is(err, explainplan.ErrAmbiguousStage) {
		t.Errorf("FromDocument() error = %v, want %v", err, explainplan.ErrAmbiguousStage)
	}
	if g != nil {
		t.Errorf("FromDocument() returned a partial graph: %+v", summarize(g))
	}
}

func TestGraphInvariants(t *testing.T) {
	entries := lo.Must(testdataFS.ReadDir("testdata"))
	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			g := buildFixture(t, entry.Name())

			for i, n := range g.Nodes {
				if n.ID != i+1 {
					t.Fatalf("node %d has ID %d", i, n.ID)
				}
			}

			outgoing := lo.CountValuesBy(g.Edges, func(e *Edge) int { return e.From })
			for _, e := range g.Edges {
				if g.Node(e.From) == nil || g.Node(e.To) == nil {
					t.Errorf("edge %d->%d references a missing node", e.From, e.To)
				}
				if e.To >= e.From {
					t.Errorf("edge %d->%d does not point to an earlier node", e.From, e.To)
				}
			}

			for _, n := range g.Nodes[1:] {
				if outgoing[n.ID] != 1 {
					t.Errorf("node %d has %d outgoing edges, want 1", n.ID, outgoing[n.ID])
				}

				// Edges point to earlier nodes, so this terminates.
				id := n.ID
				for id != RootID {
					edge := g.EdgeFrom(id)
					if edge == nil {
						t.Fatalf("node %d is not connected to the root", n.ID)
					}
					id = edge.To
				}
			}
			if outgoing[RootID] != 0 {
				t.Errorf("root has %d outgoing edges", outgoing[RootID])
			}

			for _, c := range g.Clusters {
				for _, id := range c.Members {
					if g.Node(id) == nil {
						t.Errorf("%s references missing node %d", c.ID, id)
					}
				}
			}
		})
	}
}
