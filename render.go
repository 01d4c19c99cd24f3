package scholarly

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-scholarly/metadata"
)

// HTMLRenderer emits the title block HTML for front matter nodes.
type HTMLRenderer struct{}

// NewHTMLRenderer returns a NodeRenderer for KindBlock.
func NewHTMLRenderer() renderer.NodeRenderer {
	return &HTMLRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindBlock, r.renderBlock)
}

func (r *HTMLRenderer) renderBlock(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	block := node.(*Block)
	_, _ = w.WriteString(RenderTitleBlock(block.Document()))
	return gast.WalkContinue, nil
}

// RenderTitleBlock produces the HTML for a parsed front matter document:
// the level-1 title, subtitle, author/affiliation columns, date and DOI
// rows, abstract, and a preformatted dump of the residual metadata. A nil
// document renders as the empty string. The function never fails.
func RenderTitleBlock(doc *metadata.Document) string {
	if doc == nil {
		return ""
	}

	block := doc.TitleBlock
	var b strings.Builder
	b.WriteString("<div class=\"title-block\">\n")

	if block.Title != "" {
		if id := titleID(block.Title); id != "" {
			fmt.Fprintf(&b, "<h1 id=%q class=\"title\">%s</h1>\n", id, escape(block.Title))
		} else {
			fmt.Fprintf(&b, "<h1 class=\"title\">%s</h1>\n", escape(block.Title))
		}
	}
	if block.Subtitle != "" {
		fmt.Fprintf(&b, "<p class=\"subtitle\">%s</p>\n", escape(block.Subtitle))
	}

	names, affiliations := authorColumns(block.Authors)
	if len(names) > 0 || block.Date != "" || block.Modified != "" || block.DOI != "" {
		b.WriteString("<div class=\"title-block-meta\">\n")
		if len(names) > 0 {
			writeColumn(&b, "authors", pluralize("Author", len(names)), names)
			if len(affiliations) > 0 {
				writeColumn(&b, "affiliations", pluralize("Affiliation", len(affiliations)), affiliations)
			}
		}
		if block.Date != "" {
			writeRow(&b, "date", "Date", escape(block.Date))
		}
		if block.Modified != "" {
			// date-modified shares the "Date" label with date.
			writeRow(&b, "date", "Date", escape(block.Modified))
		}
		if block.DOI != "" {
			link := fmt.Sprintf("<a href=\"https://doi.org/%s\">%s</a>", escape(block.DOI), escape(block.DOI))
			writeRow(&b, "doi", "DOI", link)
		}
		b.WriteString("</div>\n")
	}

	if block.Abstract != "" {
		fmt.Fprintf(&b, "<p class=\"abstract\">%s</p>\n", escape(block.Abstract))
	}

	b.WriteString("<pre class=\"frontmatter\"><code>")
	if dump, err := doc.Residual.EncodeYAML(); err == nil {
		b.WriteString(escape(string(dump)))
	}
	b.WriteString("</code></pre>\n")
	b.WriteString("</div>\n")
	return b.String()
}

// authorColumns builds the aligned names and affiliations columns. Each
// author contributes its name followed by blank placeholders so the name
// column stays row-aligned with authors that list several affiliations.
func authorColumns(authors []metadata.Author) (names, affiliations []string) {
	for _, author := range authors {
		names = append(names, authorNameHTML(author))
		for i := max(len(author.Affiliations), 1) - 1; i > 0; i-- {
			names = append(names, "&nbsp;")
		}
		for _, affiliation := range author.Affiliations {
			affiliations = append(affiliations, escape(affiliation))
		}
	}
	return names, affiliations
}

func authorNameHTML(author metadata.Author) string {
	name := escape(author.Name)
	if author.ORCID == "" {
		return name
	}
	orcid := escape(author.ORCID)
	return fmt.Sprintf("%s <a class=\"orcid\" href=\"https://orcid.org/%s\">%s</a>", name, orcid, orcid)
}

func writeColumn(b *strings.Builder, class, label string, rows []string) {
	fmt.Fprintf(b, "<div class=%q>\n<p class=\"label\">%s</p>\n", class, label)
	for _, row := range rows {
		fmt.Fprintf(b, "<p>%s</p>\n", row)
	}
	b.WriteString("</div>\n")
}

func writeRow(b *strings.Builder, class, label, value string) {
	fmt.Fprintf(b, "<div class=%q>\n<p class=\"label\">%s</p>\n<p>%s</p>\n</div>\n", class, label, value)
}

// pluralize keeps the label singular only when the column has exactly one
// entry.
func pluralize(base string, entries int) string {
	if entries == 1 {
		return base
	}
	return base + "s"
}

func titleID(title string) string {
	id, err := slug.Normalize(title)
	if err != nil {
		return ""
	}
	return id
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
