package metadata

import (
	"sort"
	"testing"
)

func TestExtractTitleBlockFields(t *testing.T) {
	mapping := Decode([]byte(`title: Study
subtitle: A closer look
abstract: Summary text
date: 2024-01-02
date-modified: 2024-02-03
doi: 10.1000/xyz
keywords:
  - one
  - two
`))

	block, residual := ExtractTitleBlock(mapping)

	if block.Title != "Study" || block.Subtitle != "A closer look" {
		t.Fatalf("title/subtitle mismatch: %#v", block)
	}
	if block.Abstract != "Summary text" {
		t.Fatalf("abstract mismatch: %q", block.Abstract)
	}
	if block.Date != "2024-01-02" || block.Modified != "2024-02-03" {
		t.Fatalf("date fields mismatch: %#v", block)
	}
	if block.DOI != "10.1000/xyz" {
		t.Fatalf("doi mismatch: %q", block.DOI)
	}
	keys := residual.Keys()
	if len(keys) != 1 || keys[0] != "keywords" {
		t.Fatalf("residual should hold only unclaimed keys: %v", keys)
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	mapping := Decode([]byte("title: Study\nkeywords: none\n"))

	_, _ = ExtractTitleBlock(mapping)

	if _, ok := mapping.Get("title"); !ok {
		t.Fatalf("extraction must not mutate the caller's mapping")
	}
}

func TestExtractKeyDisjointness(t *testing.T) {
	mapping := Decode([]byte(`title: Study
date: 2024-01-02
doi: 10.1000/xyz
custom: value
another: value
`))

	original := map[string]bool{}
	for _, key := range mapping.Keys() {
		original[key] = true
	}

	block, residual := ExtractTitleBlock(mapping)

	consumed := []string{}
	if block.Title != "" {
		consumed = append(consumed, "title")
	}
	if block.Date != "" {
		consumed = append(consumed, "date")
	}
	if block.DOI != "" {
		consumed = append(consumed, "doi")
	}

	seen := map[string]bool{}
	for _, key := range consumed {
		if seen[key] {
			t.Fatalf("key %q consumed twice", key)
		}
		seen[key] = true
	}
	for _, key := range residual.Keys() {
		if seen[key] {
			t.Fatalf("key %q appears in both the title block and the residual", key)
		}
		seen[key] = true
	}

	got := make([]string, 0, len(seen))
	for key := range seen {
		got = append(got, key)
	}
	want := make([]string, 0, len(original))
	for key := range original {
		want = append(want, key)
	}
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("key sets differ: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("key sets differ: got %v want %v", got, want)
		}
	}
}

func TestExtractMalformedScalarFieldDropped(t *testing.T) {
	mapping := Decode([]byte("title:\n  nested: oops\nkeywords: kept\n"))

	block, residual := ExtractTitleBlock(mapping)

	if block.Title != "" {
		t.Fatalf("a non-scalar title must not populate the field, got %q", block.Title)
	}
	// Recognized keys are consumed even when malformed; the value is
	// dropped from output entirely.
	if _, ok := residual.Get("title"); ok {
		t.Fatalf("malformed title must not survive into the residual")
	}
	if _, ok := residual.Get("keywords"); !ok {
		t.Fatalf("unrelated keys must survive")
	}
}

func TestExtractAuthorsPrecedence(t *testing.T) {
	mapping := Decode([]byte("author: Solo\nauthors:\n  - First\n  - Second\n"))

	block, residual := ExtractTitleBlock(mapping)

	if len(block.Authors) != 2 || block.Authors[0].Name != "First" {
		t.Fatalf("authors key must win over author: %#v", block.Authors)
	}
	if residual.Len() != 0 {
		t.Fatalf("both author keys must be consumed, residual %v", residual.Keys())
	}
}

func TestExtractSingleAuthorKey(t *testing.T) {
	mapping := Decode([]byte("author: Ada Lovelace\n"))

	block, residual := ExtractTitleBlock(mapping)

	if len(block.Authors) != 1 || block.Authors[0].Name != "Ada Lovelace" {
		t.Fatalf("author scalar should normalize: %#v", block.Authors)
	}
	if residual.Len() != 0 {
		t.Fatalf("author key must be consumed")
	}
}

func TestExtractNonMappingInput(t *testing.T) {
	block, residual := ExtractTitleBlock(ScalarValue("nope"))

	if block.Title != "" || len(block.Authors) != 0 {
		t.Fatalf("non-mapping input must produce an empty title block")
	}
	if residual.Kind() != Scalar {
		t.Fatalf("non-mapping input passes through unchanged")
	}
}

func TestParseDocument(t *testing.T) {
	doc := Parse([]byte("title: Study\nextra: kept\n"))
	if doc == nil {
		t.Fatalf("expected a document")
	}
	if doc.TitleBlock.Title != "Study" {
		t.Fatalf("title mismatch: %q", doc.TitleBlock.Title)
	}
	if _, ok := doc.Residual.Get("extra"); !ok {
		t.Fatalf("residual missing extra key")
	}

	if Parse([]byte("- not\n- a\n- mapping\n")) != nil {
		t.Fatalf("non-mapping front matter must parse to nil")
	}
	if Parse([]byte("title: [broken\n")) != nil {
		t.Fatalf("malformed front matter must parse to nil")
	}
}
