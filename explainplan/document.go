package explainplan

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// Document is a read-only, order-preserving view of one object of an explain document.
type Document struct {
	items yaml.MapSlice
}

func asDocument(v interface{}) (Document, bool) {
	items, ok := v.(yaml.MapSlice)
	if !ok {
		return Document{}, false
	}
	return Document{items: items}, true
}

func (d Document) Get(key string) (interface{}, bool) {
	for _, item := range d.items {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the keys in document order.
func (d Document) Keys() []string {
	return lo.Map(d.items, func(item yaml.MapItem, _ int) string {
		return fmt.Sprint(item.Key)
	})
}

// Document returns the object stored under key.
// ok is false when the key is absent or holds something else.
func (d Document) Document(key string) (Document, bool) {
	v, ok := d.Get(key)
	if !ok {
		return Document{}, false
	}
	return asDocument(v)
}

// Without returns a copy of d without the given keys.
func (d Document) Without(keys ...string) Document {
	return Document{items: lo.Filter(d.items, func(item yaml.MapItem, _ int) bool {
		return !lo.Contains(keys, fmt.Sprint(item.Key))
	})}
}

// With returns a copy of d with key set to v, replacing an existing entry in place.
func (d Document) With(key string, v interface{}) Document {
	items := make(yaml.MapSlice, 0, len(d.items)+1)
	var replaced bool
	for _, item := range d.items {
		if item.Key == key {
			item.Value = v
			replaced = true
		}
		items = append(items, item)
	}
	if !replaced {
		items = append(items, yaml.MapItem{Key: key, Value: v})
	}
	return Document{items: items}
}

// extendedJSONNumberKeys are the wrappers MongoDB Extended JSON uses for numbers.
var extendedJSONNumberKeys = []string{"$numberInt", "$numberLong", "$numberDouble", "$numberDecimal"}

func isExtendedJSONNumber(m yaml.MapSlice) bool {
	return len(m) == 1 && lo.Contains(extendedJSONNumberKeys, fmt.Sprint(m[0].Key))
}

// isScalar reports whether v is a plain value or an Extended JSON number.
func isScalar(v interface{}) bool {
	switch x := v.(type) {
	case []interface{}:
		return false
	case yaml.MapSlice:
		return isExtendedJSONNumber(x)
	default:
		return true
	}
}

// FormatValue renders a scalar the way it is shown in node labels.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	case yaml.MapSlice:
		if isExtendedJSONNumber(x) {
			return FormatValue(x[0].Value)
		}
	}
	return fmt.Sprint(v)
}
