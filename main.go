package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
	"github.com/edmallia/MongoDBExplainViz/option"
	"github.com/edmallia/MongoDBExplainViz/plangraph"
	"github.com/edmallia/MongoDBExplainViz/visualize"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	var opts option.Options
	p := flags.NewParser(&opts, flags.Default)
	args, err := p.Parse()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		p.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	b, err := readInput(opts.InputPath())
	if err != nil {
		return err
	}

	doc, err := explainplan.Extract(b)
	if err != nil {
		return err
	}

	if opts.Verbose {
		command, sharded := explainplan.Classify(doc)
		if sharded {
			log.Printf("This is a sharded %v", command)
		} else {
			log.Printf("This is a %v", command)
		}
	}

	plan, err := explainplan.Decode(doc, explainplan.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return err
	}

	g := plangraph.Build(plan)
	if opts.Verbose {
		log.Printf("graph has %d nodes, %d edges and %d clusters", len(g.Nodes), len(g.Edges), len(g.Clusters))
	}

	outputPath := opts.OutputPath()
	var writer io.WriteCloser
	if outputPath == option.Stdio {
		writer = os.Stdout
	} else {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return err
		}
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		writer = file
	}
	defer func() { _ = writer.Close() }()

	err = visualize.RenderImage(ctx, g, opts.Format(), writer, opts)
	if err != nil && outputPath != option.Stdio {
		if innerErr := os.Remove(outputPath); innerErr != nil {
			return errors.Join(err, innerErr)
		}
	}
	if err == nil && opts.Verbose && outputPath != option.Stdio {
		log.Printf("wrote %s", outputPath)
	}
	return err
}

func readInput(path string) ([]byte, error) {
	if path != option.Stdio {
		return os.ReadFile(path)
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, errors.New("no input: pass a file or pipe an explain document to stdin")
	}
	return io.ReadAll(os.Stdin)
}
