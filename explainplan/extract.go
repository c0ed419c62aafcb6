package explainplan

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Extract parses an explain document. JSON is accepted as a subset of YAML.
// Mappings are decoded in document order, which fixes the order shards and
// pipeline stages are visited in.
func Extract(b []byte) (Document, error) {
	var v interface{}
	if err := yaml.UnmarshalWithOptions(b, &v, yaml.UseOrderedMap()); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc, ok := asDocument(v)
	if !ok {
		return Document{}, fmt.Errorf("%w: top level must be an object, but: %T", ErrInvalidDocument, v)
	}
	return doc, nil
}
