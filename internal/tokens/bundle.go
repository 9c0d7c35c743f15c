// Package tokens holds the design-token model: the five default token trees,
// the cascading merge that layers theme and page overrides over them, and the
// density-aware spacing resolver.
package tokens

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Category names one of the five token trees.
type Category string

// Token categories.
const (
	CategoryColor      Category = "color"
	CategoryTypography Category = "typography"
	CategorySpacing    Category = "spacing"
	CategoryShape      Category = "shape"
	CategoryMotion     Category = "motion"
)

// Categories lists every category in emission order.
var Categories = []Category{
	CategoryColor,
	CategoryTypography,
	CategorySpacing,
	CategoryShape,
	CategoryMotion,
}

// Bundle is a nested token tree. Leaves are strings, numbers or booleans;
// inner nodes are Bundles. Paths address leaves with dots ("text.primary").
type Bundle map[string]any

// ParseBundle decodes a JSON object into a Bundle. Empty input and JSON null
// yield a nil Bundle and no error; anything that is not an object is an error.
func ParseBundle(raw string) (Bundle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode token json: %w", err)
	}
	switch t := v.(type) {
	case map[string]any:
		return normalize(t), nil
	case []any:
		if len(t) == 0 {
			// An empty JSON array is how an empty object often round-trips.
			return nil, nil
		}
	}
	return nil, fmt.Errorf("token json must be an object, got %T", v)
}

// normalize converts nested map[string]any values into Bundles.
func normalize(m map[string]any) Bundle {
	b := make(Bundle, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			b[k] = normalize(child)
			continue
		}
		if child, ok := v.(Bundle); ok {
			b[k] = normalize(child)
			continue
		}
		b[k] = v
	}
	return b
}

// Clone returns a deep copy of b.
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	return normalize(b)
}

// Get walks a dotted path and returns the value found there.
func (b Bundle) Get(path string) (any, bool) {
	var cur any = b
	for _, part := range strings.Split(path, ".") {
		node, ok := asBundle(cur)
		if !ok {
			return nil, false
		}
		cur, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the leaf at path formatted as a string, or "" when the
// path is missing or points at a subtree.
func (b Bundle) GetString(path string) string {
	v, ok := b.Get(path)
	if !ok {
		return ""
	}
	return leafString(v)
}

// GetFloat returns the numeric leaf at path.
func (b Bundle) GetFloat(path string) (float64, bool) {
	v, ok := b.Get(path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Set stores value at path, creating intermediate nodes as needed. A leaf that
// sits where a node is required is replaced.
func (b Bundle) Set(path string, value any) {
	parts := strings.Split(path, ".")
	node := b
	for _, part := range parts[:len(parts)-1] {
		next, ok := asBundle(node[part])
		if !ok {
			next = Bundle{}
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}

// Entry is one flattened leaf.
type Entry struct {
	Path  string
	Value string
}

// Flatten lists every leaf in lexical path order.
func (b Bundle) Flatten() []Entry {
	var out []Entry
	b.flatten("", &out)
	return out
}

func (b Bundle) flatten(prefix string, out *[]Entry) {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := asBundle(b[k]); ok {
			child.flatten(path, out)
			continue
		}
		*out = append(*out, Entry{Path: path, Value: leafString(b[k])})
	}
}

// MarshalJSON keeps nil bundles encoding as {} rather than null.
func (b Bundle) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(b))
}

func asBundle(v any) (Bundle, bool) {
	switch t := v.(type) {
	case Bundle:
		return t, true
	case map[string]any:
		return Bundle(t), true
	}
	return nil, false
}

func leafString(v any) string {
	switch t := v.(type) {
	case nil, Bundle, map[string]any, []any:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
