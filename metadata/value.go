package metadata

import (
	"bytes"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the shapes a metadata value can take.
type Kind int

const (
	// Absent marks a missing value or a failed parse.
	Absent Kind = iota
	// Scalar holds a single string value.
	Scalar
	// Sequence holds an ordered list of values.
	Sequence
	// Mapping holds key/value pairs with unique keys in insertion order.
	Mapping
)

// Value is a tagged union over the shapes the structured-data parser can
// produce. The zero value is Absent. Mappings keep their keys in insertion
// order so dumps round-trip deterministically.
type Value struct {
	kind   Kind
	scalar string
	seq    []Value
	keys   []string
	items  map[string]Value
}

// AbsentValue returns the sentinel for missing or unparseable data.
func AbsentValue() Value {
	return Value{}
}

// ScalarValue wraps a plain string.
func ScalarValue(s string) Value {
	return Value{kind: Scalar, scalar: s}
}

// SequenceValue builds an ordered sequence from the supplied values.
func SequenceValue(items ...Value) Value {
	return Value{kind: Sequence, seq: items}
}

// MappingValue returns an empty mapping ready for Set calls.
func MappingValue() Value {
	return Value{kind: Mapping, items: map[string]Value{}}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value carries no data.
func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// Scalar returns the string payload and whether the value is a scalar.
func (v Value) Scalar() (string, bool) {
	if v.kind != Scalar {
		return "", false
	}
	return v.scalar, true
}

// Items returns the entries of a sequence, or nil for any other shape.
func (v Value) Items() []Value {
	if v.kind != Sequence {
		return nil
	}
	return v.seq
}

// Len reports the number of entries in a sequence or mapping.
func (v Value) Len() int {
	switch v.kind {
	case Sequence:
		return len(v.seq)
	case Mapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Keys returns the mapping keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != Mapping {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Get looks up a mapping key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Mapping {
		return Value{}, false
	}
	item, ok := v.items[key]
	return item, ok
}

// Set stores a mapping entry. A new key is appended after existing ones; an
// existing key keeps its position and has its value replaced. Set is a no-op
// on non-mapping values.
func (v *Value) Set(key string, item Value) {
	if v.kind != Mapping {
		return
	}
	if v.items == nil {
		v.items = map[string]Value{}
	}
	if _, exists := v.items[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.items[key] = item
}

// Pop removes a mapping entry, returning the removed value and whether the
// key was present.
func (v *Value) Pop(key string) (Value, bool) {
	if v.kind != Mapping {
		return Value{}, false
	}
	item, ok := v.items[key]
	if !ok {
		return Value{}, false
	}
	delete(v.items, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return item, true
}

// cloneMapping deep-copies a mapping so destructive extraction never aliases
// the caller's value. Non-mapping shapes are returned as-is (they are
// value types already).
func (v Value) cloneMapping() Value {
	if v.kind != Mapping {
		return v
	}
	out := MappingValue()
	for _, key := range v.keys {
		out.Set(key, v.items[key].cloneMapping())
	}
	return out
}

// Interface converts the value into plain Go types (nil, string, []any,
// map[string]any) for JSON-oriented consumers such as schema validators.
func (v Value) Interface() any {
	switch v.kind {
	case Scalar:
		return v.scalar
	case Sequence:
		out := make([]any, 0, len(v.seq))
		for _, item := range v.seq {
			out = append(out, item.Interface())
		}
		return out
	case Mapping:
		out := make(map[string]any, len(v.keys))
		for _, key := range v.keys {
			out[key] = v.items[key].Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts plain Go data (as produced by generic YAML, TOML,
// or JSON decoders) into a Value. Map keys are sorted for determinism since
// Go maps carry no order. Unsupported types are stringified when possible
// and dropped otherwise.
func FromInterface(input any) Value {
	switch typed := input.(type) {
	case nil:
		return ScalarValue("")
	case string:
		return ScalarValue(typed)
	case bool:
		return ScalarValue(strconv.FormatBool(typed))
	case int:
		return ScalarValue(strconv.Itoa(typed))
	case int64:
		return ScalarValue(strconv.FormatInt(typed, 10))
	case float64:
		return ScalarValue(strconv.FormatFloat(typed, 'g', -1, 64))
	case []any:
		items := make([]Value, 0, len(typed))
		for _, entry := range typed {
			items = append(items, FromInterface(entry))
		}
		return SequenceValue(items...)
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := MappingValue()
		for _, key := range keys {
			out.Set(key, FromInterface(typed[key]))
		}
		return out
	case map[any]any:
		keys := make([]string, 0, len(typed))
		lookup := make(map[string]any, len(typed))
		for key, entry := range typed {
			name, ok := key.(string)
			if !ok {
				continue
			}
			keys = append(keys, name)
			lookup[name] = entry
		}
		sort.Strings(keys)
		out := MappingValue()
		for _, key := range keys {
			out.Set(key, FromInterface(lookup[key]))
		}
		return out
	default:
		return AbsentValue()
	}
}

// Decode parses raw front matter text into a Value. The top-level shape must
// be a mapping; any YAML error or other shape collapses to Absent. Decode
// never returns an error: one malformed document must not abort the
// surrounding render.
func Decode(raw []byte) Value {
	raw = stripTrailingFence(raw)

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return AbsentValue()
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return AbsentValue()
	}
	root := resolveAlias(doc.Content[0])
	if root == nil || root.Kind != yaml.MappingNode {
		return AbsentValue()
	}
	return fromNode(root)
}

// stripTrailingFence drops one closing-fence-shaped final line. Callers that
// captured the boundary line along with the body would otherwise feed the
// fence to the YAML parser.
func stripTrailingFence(raw []byte) []byte {
	trimmed := bytes.TrimRight(raw, "\r\n")
	idx := bytes.LastIndexByte(trimmed, '\n')
	last := trimmed[idx+1:]
	if !isFenceShaped(last) {
		return raw
	}
	if idx < 0 {
		return nil
	}
	return trimmed[:idx+1]
}

func isFenceShaped(line []byte) bool {
	indent := 0
	for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
		indent++
	}
	if indent >= 4 {
		return false
	}
	run := 0
	for indent+run < len(line) && line[indent+run] == '-' {
		run++
	}
	if run < 3 {
		return false
	}
	return len(bytes.TrimSpace(line[indent+run:])) == 0
}

func fromNode(node *yaml.Node) Value {
	node = resolveAlias(node)
	if node == nil {
		return AbsentValue()
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return ScalarValue("")
		}
		return ScalarValue(node.Value)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			items = append(items, fromNode(child))
		}
		return SequenceValue(items...)
	case yaml.MappingNode:
		out := MappingValue()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := resolveAlias(node.Content[i])
			if key == nil || key.Kind != yaml.ScalarNode {
				continue
			}
			out.Set(key.Value, fromNode(node.Content[i+1]))
		}
		return out
	default:
		return AbsentValue()
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// EncodeYAML serializes the value back to YAML, preserving mapping key
// order. Absent encodes as an empty document.
func (v Value) EncodeYAML() ([]byte, error) {
	if v.kind == Absent {
		return nil, nil
	}
	return yaml.Marshal(v.toNode())
}

func (v Value) toNode() *yaml.Node {
	switch v.kind {
	case Scalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.scalar}
	case Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.seq {
			node.Content = append(node.Content, item.toNode())
		}
		return node
	case Mapping:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range v.keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				v.items[key].toNode(),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
