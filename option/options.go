package option

import (
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
)

const (
	TypeSVG     = "svg"
	TypePNG     = "png"
	TypeDot     = "dot"
	TypeMermaid = "mermaid"
)

// DefaultInput is read when no input path is given.
const DefaultInput = "explain.json"

// DefaultOutputDir holds rendered files when --output is omitted.
const DefaultOutputDir = "output"

// Stdio selects stdin for input or stdout for output.
const Stdio = "-"

type Options struct {
	Positional struct {
		Input string `description:"explain document (JSON or YAML); - reads stdin"`
	} `positional-args:"yes"`
	TypeFlag string `long:"type" description:"output type" default:"svg" choice:"svg" choice:"png" choice:"dot" choice:"mermaid"`
	Filename string `long:"output" description:"output file; - writes stdout (default: output/<input>.<type>)"`
	MaxDepth int    `long:"max-depth" description:"maximum nesting of execution stages" default:"128"`
	Verbose  bool   `long:"verbose" short:"v" description:"log classification and graph size"`
}

func (o Options) InputPath() string {
	if o.Positional.Input == "" {
		return DefaultInput
	}
	return o.Positional.Input
}

// OutputPath returns where the rendered graph goes. Stdio means stdout.
func (o Options) OutputPath() string {
	switch {
	case o.Filename != "":
		return o.Filename
	case o.InputPath() == Stdio:
		return Stdio
	default:
		base := strings.TrimSuffix(filepath.Base(o.InputPath()), filepath.Ext(o.InputPath()))
		return filepath.Join(DefaultOutputDir, base+"."+o.extension())
	}
}

func (o Options) extension() string {
	if o.TypeFlag == TypeMermaid {
		return "mmd"
	}
	return o.TypeFlag
}

// Format is the Graphviz output format for TypeFlag. It is meaningless for mermaid.
func (o Options) Format() graphviz.Format {
	switch o.TypeFlag {
	case TypePNG:
		return graphviz.PNG
	case TypeDot:
		return graphviz.XDOT
	default:
		return graphviz.SVG
	}
}
