package main

import (
	_ "embed"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
	"github.com/edmallia/MongoDBExplainViz/plantree"
)

func TestParseColumns(t *testing.T) {
	got, err := parseColumns(" indexName, nReturned,,indexName")
	if err != nil {
		t.Fatal(err)
	}
	want := []column{
		{Attribute: "indexName", Alignment: tw.AlignLeft},
		{Attribute: "nReturned", Alignment: tw.AlignRight},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("parseColumns() mismatch (-got +want):\n%s", diff)
	}
}

func TestParseColumnsUnknown(t *testing.T) {
	if _, err := parseColumns("nReturned,executionTimeMillis"); err == nil {
		t.Error("parseColumns() error = nil, want error")
	}
}

//go:embed testdata/or_find.json
var orFindJSON []byte

func TestRenderTable(t *testing.T) {
	tests := []struct {
		desc    string
		input   []byte
		columns string
		want    string
	}{
		{
			"all attributes",
			orFindJSON,
			"nReturned,docsExamined,keysExamined,indexName",
			`+----+-----------------+-----------+--------------+--------------+-----------+
| ID | Operator        | nReturned | docsExamined | keysExamined | indexName |
+----+-----------------+-----------+--------------+--------------+-----------+
|  1 | (root)          |           |              |              |           |
|  2 | +- FETCH        |         4 |            4 |              |           |
|  3 |    +- OR        |         4 |              |              |           |
|  4 |       +- IXSCAN |         2 |              |            2 | a_1       |
|  5 |       +- IXSCAN |         3 |              |            3 | b_1       |
+----+-----------------+-----------+--------------+--------------+-----------+
`,
		},
		{
			"selected attribute",
			orFindJSON,
			"nReturned",
			`+----+-----------------+-----------+
| ID | Operator        | nReturned |
+----+-----------------+-----------+
|  1 | (root)          |           |
|  2 | +- FETCH        |         4 |
|  3 |    +- OR        |         4 |
|  4 |       +- IXSCAN |         2 |
|  5 |       +- IXSCAN |         3 |
+----+-----------------+-----------+
`,
		},
	}

	for _, tcase := range tests {
		t.Run(tcase.desc, func(t *testing.T) {
			g, err := buildGraph(tcase.input, explainplan.DefaultMaxDepth)
			if err != nil {
				t.Fatal(err)
			}

			rows, err := plantree.ProcessGraph(g)
			if err != nil {
				t.Fatal(err)
			}

			got, err := renderTable(lo.Must(parseColumns(tcase.columns)), rows)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tcase.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildGraphInvalidInput(t *testing.T) {
	if _, err := buildGraph([]byte(`[1, 2]`), explainplan.DefaultMaxDepth); err == nil {
		t.Error("buildGraph() error = nil, want error")
	}
}
