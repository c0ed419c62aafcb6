package main

import (
	_ "embed"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
)

//go:embed testdata/collscan.json
var collscanJSON []byte

//go:embed testdata/index_scan.json
var indexScanJSON []byte

func TestLint(t *testing.T) {
	tests := []struct {
		desc  string
		input []byte
		ratio float64
		want  []finding
	}{
		{
			desc:  "collection scan",
			input: collscanJSON,
			ratio: 10,
			want: []finding{
				{
					ID:    3,
					Title: "COLLSCAN",
					Messages: []string{
						"Expensive operator COLLSCAN: Can't you create an index on the filtered fields?",
						"Examined 100 documents to return 2: Can't you use a more selective index?",
					},
				},
			},
		},
		{
			desc:  "selective enough",
			input: indexScanJSON,
			ratio: 20,
		},
		{
			desc:  "fetch filters most documents",
			input: indexScanJSON,
			ratio: 10,
			want: []finding{
				{
					ID:       2,
					Title:    "FETCH",
					Messages: []string{"Examined 40 documents to return 3: Can't you use a more selective index?"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			g := lo.Must(plangraph.FromDocument(lo.Must(explainplan.Extract(tt.input))))
			got, err := lint(g, tt.ratio)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("lint() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}
