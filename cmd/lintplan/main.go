package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
	"github.com/edmallia/MongoDBExplainViz/plantree"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

const jsonSnippetLen = 140

type finding struct {
	ID       int
	Title    string
	Messages []string
}

func run() error {
	ratio := flag.Float64("ratio", 10, "report stages examining more than ratio times the documents or keys they return")
	flag.Parse()

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

	doc, err := explainplan.Extract(b)
	if err != nil {
		var collapsedStr string
		if len(b) > jsonSnippetLen {
			collapsedStr = "(collapsed)"
		}
		return fmt.Errorf("invalid input:\nerror: %w\ninput: %.*s%s", err, jsonSnippetLen, strings.TrimSpace(string(b)), collapsedStr)
	}

	g, err := plangraph.FromDocument(doc)
	if err != nil {
		return err
	}

	findings, err := lint(g, *ratio)
	if err != nil {
		return err
	}

	for _, f := range findings {
		fmt.Printf("%v: %v\n", f.ID, f.Title)
		for _, msg := range f.Messages {
			fmt.Printf("    %v\n", msg)
		}
	}
	return nil
}

// lint reports suspicious stages of g in tree order.
func lint(g *plangraph.Graph, ratio float64) ([]finding, error) {
	rows, err := plantree.ProcessGraph(g)
	if err != nil {
		return nil, err
	}

	var findings []finding
	for _, row := range rows {
		if row.Node.Style != plangraph.BoxStyle {
			continue
		}

		var msgs []string
		if row.Node.Label.Title == "COLLSCAN" {
			msgs = append(msgs, "Expensive operator COLLSCAN: Can't you create an index on the filtered fields?")
		}

		for _, kind := range []struct{ attr, noun string }{
			{"docsExamined", "documents"},
			{"keysExamined", "keys"},
		} {
			msg, err := examinedMessage(row, kind.attr, kind.noun, ratio)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", row.ID, err)
			}
			if msg != "" {
				msgs = append(msgs, msg)
			}
		}

		if len(msgs) > 0 {
			findings = append(findings, finding{ID: row.ID, Title: row.Node.Label.Title, Messages: msgs})
		}
	}
	return findings, nil
}

func examinedMessage(row plantree.Row, attr, noun string, ratio float64) (string, error) {
	examinedStr, returnedStr := row.Attribute(attr), row.Attribute("nReturned")
	if examinedStr == "" || returnedStr == "" {
		return "", nil
	}

	examined, err := strconv.ParseFloat(examinedStr, 64)
	if err != nil {
		return "", err
	}
	returned, err := strconv.ParseFloat(returnedStr, 64)
	if err != nil {
		return "", err
	}
	if examined == 0 || examined <= ratio*returned {
		return "", nil
	}
	return fmt.Sprintf("Examined %s %s to return %s: Can't you use a more selective index?", examinedStr, noun, returnedStr), nil
}
