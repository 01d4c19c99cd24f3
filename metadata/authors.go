package metadata

// NormalizeAuthors coerces heterogeneous author metadata into an ordered
// list of Author records. The input may be absent, a bare scalar, a single
// mapping, or a sequence of either; items with any other shape are dropped
// without error. Output order follows input order.
func NormalizeAuthors(value Value) []Author {
	var out []Author
	for _, item := range coerceSequence(value) {
		switch item.Kind() {
		case Scalar:
			name, _ := item.Scalar()
			out = append(out, Author{Name: name})
		case Mapping:
			out = append(out, authorFromMapping(item))
		}
	}
	return out
}

// coerceSequence lifts a bare scalar or mapping into a one-element sequence.
func coerceSequence(value Value) []Value {
	switch value.Kind() {
	case Sequence:
		return value.Items()
	case Scalar, Mapping:
		return []Value{value}
	default:
		return nil
	}
}

func authorFromMapping(item Value) Author {
	var author Author
	if name, ok := item.Get("name"); ok {
		author.Name, _ = name.Scalar()
	}
	if orcid, ok := item.Get("orcid"); ok {
		author.ORCID, _ = orcid.Scalar()
	}
	author.Affiliations = affiliationsFromMapping(item)
	return author
}

// affiliationsFromMapping applies the two-tier affiliation rule: a scalar
// "affiliation" key is the whole list; otherwise "affiliations" is coerced
// to a sequence whose entries contribute their scalar value, or the value
// of their "name" key when they are mappings. Other entry shapes drop.
func affiliationsFromMapping(item Value) []string {
	if single, ok := item.Get("affiliation"); ok {
		if text, isScalar := single.Scalar(); isScalar {
			return []string{text}
		}
	}

	many, ok := item.Get("affiliations")
	if !ok {
		return nil
	}

	var out []string
	for _, entry := range coerceSequence(many) {
		switch entry.Kind() {
		case Scalar:
			text, _ := entry.Scalar()
			out = append(out, text)
		case Mapping:
			if name, present := entry.Get("name"); present {
				if text, isScalar := name.Scalar(); isScalar {
					out = append(out, text)
				}
			}
		}
	}
	return out
}
