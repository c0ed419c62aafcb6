package plangraph

import (
	"fmt"
	"strings"
)

// Hint classifies an attribute so renderers can highlight it.
type Hint int

const (
	PlainHint Hint = iota
	// VolumeHint is for the number of documents a stage produced.
	VolumeHint
	DocumentsCostHint
	KeysCostHint
	// TagHint is for descriptive values such as index names.
	TagHint
)

type Attribute struct {
	Name  string
	Value string
	Hint  Hint
}

// Label is the renderer-independent content of a node.
type Label struct {
	Title      string
	Attributes []Attribute
}

// attributeHints lists the stage attributes in label order.
var attributeHints = []struct {
	name string
	hint Hint
}{
	{"nReturned", VolumeHint},
	{"docsExamined", DocumentsCostHint},
	{"keysExamined", KeysCostHint},
	{"indexName", TagHint},
}

// AttributeNames returns the names BuildLabel may emit, in label order.
func AttributeNames() []string {
	names := make([]string, 0, len(attributeHints))
	for _, a := range attributeHints {
		names = append(names, a.name)
	}
	return names
}

// HintOf returns the hint of a known attribute name.
func HintOf(name string) (Hint, bool) {
	for _, a := range attributeHints {
		if a.name == name {
			return a.hint, true
		}
	}
	return PlainHint, false
}

// BuildLabel builds a stage label. Nil values are omitted; the remaining
// attributes keep the order nReturned, docsExamined, keysExamined, indexName.
func BuildLabel(title string, nReturned, docsExamined, keysExamined, indexName *string) Label {
	label := Label{Title: title}
	for i, value := range []*string{nReturned, docsExamined, keysExamined, indexName} {
		if value == nil {
			continue
		}
		attr := attributeHints[i]
		label.Attributes = append(label.Attributes, Attribute{Name: attr.name, Value: *value, Hint: attr.hint})
	}
	return label
}

// Attribute returns the value of the named attribute.
func (l Label) Attribute(name string) (string, bool) {
	for _, attr := range l.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Lines returns the title followed by one "name: value" line per attribute.
func (l Label) Lines() []string {
	lines := []string{l.Title}
	for _, attr := range l.Attributes {
		lines = append(lines, attr.String())
	}
	return lines
}

func (l Label) String() string {
	return strings.Join(l.Lines(), "\n")
}

func (a Attribute) String() string {
	return fmt.Sprintf("%s: %s", a.Name, a.Value)
}
