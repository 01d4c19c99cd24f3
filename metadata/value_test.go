package metadata

import (
	"strings"
	"testing"
)

func TestDecodeMapping(t *testing.T) {
	value := Decode([]byte("title: Foo\nauthors:\n  - Ada\n  - Grace\n"))

	if value.Kind() != Mapping {
		t.Fatalf("expected a mapping, got kind %v", value.Kind())
	}
	title, ok := value.Get("title")
	if !ok {
		t.Fatalf("title key missing")
	}
	if text, _ := title.Scalar(); text != "Foo" {
		t.Fatalf("title mismatch, got %q", text)
	}
	authors, _ := value.Get("authors")
	if authors.Kind() != Sequence || authors.Len() != 2 {
		t.Fatalf("authors should be a two-element sequence: %#v", authors)
	}
}

func TestDecodeKeepsKeyOrder(t *testing.T) {
	value := Decode([]byte("zeta: 1\nalpha: 2\nmiddle: 3\n"))

	keys := value.Keys()
	if len(keys) != 3 || keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "middle" {
		t.Fatalf("insertion order not preserved: %v", keys)
	}
}

func TestDecodeInvalidYAML(t *testing.T) {
	value := Decode([]byte("title: [unclosed\n"))
	if !value.IsAbsent() {
		t.Fatalf("invalid YAML must decode to Absent, got kind %v", value.Kind())
	}
}

func TestDecodeNonMappingTopLevel(t *testing.T) {
	for _, input := range []string{"- a\n- b\n", "just a scalar\n", ""} {
		if value := Decode([]byte(input)); !value.IsAbsent() {
			t.Fatalf("non-mapping input %q must decode to Absent", input)
		}
	}
}

func TestDecodeStripsTrailingFence(t *testing.T) {
	value := Decode([]byte("title: Foo\n---\n"))

	if value.Kind() != Mapping {
		t.Fatalf("trailing fence line must be stripped before parsing, got kind %v", value.Kind())
	}
	title, _ := value.Get("title")
	if text, _ := title.Scalar(); text != "Foo" {
		t.Fatalf("title mismatch, got %q", text)
	}
}

func TestDecodeNullScalar(t *testing.T) {
	value := Decode([]byte("title:\n"))

	title, ok := value.Get("title")
	if !ok {
		t.Fatalf("title key missing")
	}
	if text, isScalar := title.Scalar(); !isScalar || text != "" {
		t.Fatalf("null value should decode to an empty scalar, got %#v", title)
	}
}

func TestPopRemovesKeyAndOrder(t *testing.T) {
	value := Decode([]byte("a: 1\nb: 2\nc: 3\n"))

	item, ok := value.Pop("b")
	if !ok {
		t.Fatalf("expected b to be present")
	}
	if text, _ := item.Scalar(); text != "2" {
		t.Fatalf("popped value mismatch, got %q", text)
	}
	if _, still := value.Get("b"); still {
		t.Fatalf("popped key must be gone")
	}
	keys := value.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("remaining keys out of order: %v", keys)
	}
	if _, ok := value.Pop("b"); ok {
		t.Fatalf("popping an absent key must report false")
	}
}

func TestEncodeYAMLPreservesOrder(t *testing.T) {
	value := Decode([]byte("zeta: 1\nalpha: 2\n"))

	out, err := value.EncodeYAML()
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	dump := string(out)
	if strings.Index(dump, "zeta") > strings.Index(dump, "alpha") {
		t.Fatalf("dump lost key order: %q", dump)
	}
}

func TestEncodeYAMLEmptyMapping(t *testing.T) {
	out, err := MappingValue().EncodeYAML()
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	if strings.TrimSpace(string(out)) != "{}" {
		t.Fatalf("empty mapping should serialize as {}, got %q", out)
	}
}

func TestInterfaceConversion(t *testing.T) {
	value := Decode([]byte("title: Foo\ntags:\n  - a\n  - b\n"))

	native, ok := value.Interface().(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", value.Interface())
	}
	if native["title"] != "Foo" {
		t.Fatalf("title mismatch: %#v", native)
	}
	tags, ok := native["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Fatalf("tags mismatch: %#v", native["tags"])
	}
}

func TestFromInterfaceSortsKeys(t *testing.T) {
	value := FromInterface(map[string]any{
		"zeta":  1,
		"alpha": "x",
		"flag":  true,
	})

	keys := value.Keys()
	if len(keys) != 3 || keys[0] != "alpha" || keys[1] != "flag" || keys[2] != "zeta" {
		t.Fatalf("keys should be sorted for map input: %v", keys)
	}
	flag, _ := value.Get("flag")
	if text, _ := flag.Scalar(); text != "true" {
		t.Fatalf("bool should stringify, got %q", text)
	}
	zeta, _ := value.Get("zeta")
	if text, _ := zeta.Scalar(); text != "1" {
		t.Fatalf("int should stringify, got %q", text)
	}
}

func TestDecodeAnchorsAndAliases(t *testing.T) {
	value := Decode([]byte("base: &name Ada\nauthor: *name\n"))

	author, ok := value.Get("author")
	if !ok {
		t.Fatalf("author key missing")
	}
	if text, _ := author.Scalar(); text != "Ada" {
		t.Fatalf("alias should resolve to the anchored value, got %q", text)
	}
}
