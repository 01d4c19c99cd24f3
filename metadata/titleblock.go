package metadata

// TitleBlock carries the typed scholarly fields extracted from a front
// matter mapping. Fields stay empty when their source key is missing or has
// the wrong shape.
type TitleBlock struct {
	Title    string
	Subtitle string
	Abstract string
	Date     string
	Modified string
	DOI      string
	Authors  []Author
}

// Author is one normalized entry from the author/authors metadata.
type Author struct {
	Name         string
	ORCID        string
	Affiliations []string
}

// Document pairs the extracted title block with the residual mapping and
// the raw front matter text it was decoded from.
type Document struct {
	TitleBlock TitleBlock
	Residual   Value
	Raw        []byte
}

// Parse decodes raw front matter text and extracts the title block. It
// returns nil when the text does not decode to a top-level mapping; it
// never returns an error.
func Parse(raw []byte) *Document {
	value := Decode(raw)
	if value.Kind() != Mapping {
		return nil
	}

	block, residual := ExtractTitleBlock(value)
	return &Document{
		TitleBlock: block,
		Residual:   residual,
		Raw:        raw,
	}
}

// ExtractTitleBlock pulls the recognized keys out of the mapping and returns
// the typed title block alongside the residual mapping of unclaimed keys.
// The input is not mutated; the residual is a disjoint copy. A recognized
// scalar key is always consumed once present, but populates its field only
// when the value really is a scalar: malformed shapes drop silently.
func ExtractTitleBlock(mapping Value) (TitleBlock, Value) {
	var block TitleBlock
	if mapping.Kind() != Mapping {
		return block, mapping
	}

	residual := mapping.cloneMapping()
	block.Title = popScalar(&residual, "title")
	block.Subtitle = popScalar(&residual, "subtitle")
	block.Abstract = popScalar(&residual, "abstract")
	block.Date = popScalar(&residual, "date")
	block.Modified = popScalar(&residual, "date-modified")
	block.DOI = popScalar(&residual, "doi")

	// Both spellings are consumed; authors wins when both are present.
	single, hasSingle := residual.Pop("author")
	many, hasMany := residual.Pop("authors")
	switch {
	case hasMany:
		block.Authors = NormalizeAuthors(many)
	case hasSingle:
		block.Authors = NormalizeAuthors(single)
	}

	return block, residual
}

func popScalar(mapping *Value, key string) string {
	value, ok := mapping.Pop(key)
	if !ok {
		return ""
	}
	text, _ := value.Scalar()
	return text
}
