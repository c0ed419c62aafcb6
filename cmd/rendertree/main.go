package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
	"github.com/edmallia/MongoDBExplainViz/plantree"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

const jsonSnippetLen = 140

// column is one table column after the fixed ID and Operator columns.
type column struct {
	Attribute string
	Alignment tw.Align
}

// parseColumns turns a comma separated list of label attribute names into columns.
func parseColumns(spec string) ([]column, error) {
	names := lo.Uniq(lo.Compact(lo.Map(strings.Split(spec, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))

	columns := make([]column, 0, len(names))
	for _, name := range names {
		hint, ok := plangraph.HintOf(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q, must be one of %v", name, plangraph.AttributeNames())
		}
		columns = append(columns, column{Attribute: name, Alignment: alignmentOf(hint)})
	}
	return columns, nil
}

// alignmentOf right-aligns counters and left-aligns descriptive values.
func alignmentOf(hint plangraph.Hint) tw.Align {
	switch hint {
	case plangraph.VolumeHint, plangraph.DocumentsCostHint, plangraph.KeysCostHint:
		return tw.AlignRight
	default:
		return tw.AlignLeft
	}
}

func run() error {
	columnsFlag := flag.String("columns", strings.Join(plangraph.AttributeNames(), ","), "comma separated stage attributes to show")
	maxDepth := flag.Int("max-depth", explainplan.DefaultMaxDepth, "maximum nesting of execution stages")
	flag.Parse()

	columns, err := parseColumns(*columnsFlag)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if flag.NArg() > 0 {
		file, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		input = file
	}

	b, err := io.ReadAll(input)
	if err != nil {
		return err
	}

	g, err := buildGraph(b, *maxDepth)
	if err != nil {
		return err
	}

	rows, err := plantree.ProcessGraph(g)
	if err != nil {
		return err
	}

	s, err := renderTable(columns, rows)
	if err != nil {
		return err
	}

	_, err = os.Stdout.WriteString(s)
	return err
}

func buildGraph(b []byte, maxDepth int) (*plangraph.Graph, error) {
	doc, err := explainplan.Extract(b)
	if err != nil {
		var collapsedStr string
		if len(b) > jsonSnippetLen {
			collapsedStr = "(collapsed)"
		}
		return nil, fmt.Errorf("invalid input:\nerror: %w\ninput: %.*s%s", err, jsonSnippetLen, strings.TrimSpace(string(b)), collapsedStr)
	}
	return plangraph.FromDocument(doc, explainplan.WithMaxDepth(maxDepth))
}

// tableRow returns the cells of row: its ID, the tree-indented operator, then
// one cell per column, empty when the stage lacks that attribute.
func tableRow(columns []column, row plantree.Row) []string {
	cells := []string{fmt.Sprint(row.ID), row.Text()}
	for _, c := range columns {
		cells = append(cells, row.Attribute(c.Attribute))
	}
	return cells
}

func renderTable(columns []column, rows []plantree.Row) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	var b strings.Builder
	table := tablewriter.NewTable(&b,
		tablewriter.WithRenderer(
			renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithTrimSpace(tw.Off),
	)

	aligns := append([]tw.Align{tw.AlignRight, tw.AlignLeft}, lo.Map(columns, func(c column, _ int) tw.Align {
		return c.Alignment
	})...)
	table.Configure(func(config *tablewriter.Config) {
		config.Row.ColumnAligns = aligns
		config.Row.Formatting.AutoWrap = tw.WrapNone
		// Keep attribute names such as nReturned as they are.
		config.Header.Formatting.AutoFormat = tw.Off
	})

	table.Header(append([]string{"ID", "Operator"}, lo.Map(columns, func(c column, _ int) string {
		return c.Attribute
	})...))

	for _, row := range rows {
		if err := table.Append(tableRow(columns, row)); err != nil {
			return "", err
		}
	}

	if err := table.Render(); err != nil {
		return "", err
	}
	return b.String(), nil
}
