// Package loader discovers Markdown documents on a filesystem and splits
// their front matter into parsed metadata and body content. It is the
// filesystem-facing companion to the scholarly extension: the extension
// handles documents flowing through goldmark, the loader handles documents
// sitting in a content directory.
package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	scholarly "github.com/goliatone/go-scholarly"
	"github.com/goliatone/go-scholarly/metadata"
)

// Config controls document discovery and metadata handling.
type Config struct {
	// BasePath is the root directory where documents live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob
	// (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// Schema optionally validates parsed front matter against a JSON
	// schema document.
	Schema map[string]any
	// Logger receives discovery diagnostics. A console logger at warn
	// level is used when nil.
	Logger glog.Logger
}

// Validate ensures the configuration is usable before a loader is built.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BasePath, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("scholarly.loader.base_path_required", "base path is required")
			}
			return nil
		})),
	)
}

// Document is one discovered file with its front matter split out.
type Document struct {
	// Path is the file path relative to the loader's base path.
	Path string
	// Source is the raw file content.
	Source []byte
	// Body is the content with the front matter block removed. When a file
	// carries no front matter, Body equals Source.
	Body []byte
	// Checksum is the sha256 of Source.
	Checksum []byte
	// Meta holds the extracted title block and residual mapping, or nil
	// when the file has no usable front matter.
	Meta *metadata.Document
}

// Loader turns filesystem paths into documents with parsed front matter.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
	schema    *compiledSchema
	log       glog.Logger
}

// New constructs a Loader over the provided filesystem.
func New(filesystem fs.FS, cfg Config) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid loader config")
	}

	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = glog.NewLogger(glog.WithLevel(glog.Warn), glog.WithLoggerTypeConsole())
	}

	schema, err := compileSchema(cfg.Schema)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid front matter schema")
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
		schema:    schema,
		log:       logger,
	}, nil
}

// LoadFile reads and splits a single document.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("loader read %s: %w", rel, err)
	}

	doc := &Document{Path: rel, Source: data, Body: data}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	fields := l.splitFrontMatter(doc)

	if l.schema != nil && fields.Kind() == metadata.Mapping {
		if err := l.schema.validate(fields); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation,
				fmt.Sprintf("front matter schema validation failed for %s", rel))
		}
	}

	if doc.Meta == nil {
		l.log.Debug("document has no front matter", "path", rel)
	} else {
		l.log.Debug("document loaded", "path", rel, "title", doc.Meta.TitleBlock.Title)
	}
	return doc, nil
}

// LoadDirectory discovers documents under dir and returns them sorted by
// path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	var results []*Document

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel) {
			return nil
		}

		doc, err := l.LoadFile(ctx, rel)
		if err != nil {
			return err
		}
		results = append(results, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	l.log.Info("directory loaded", "dir", root, "documents", len(results))
	return results, nil
}

// splitFrontMatter strips a leading metadata block from doc, populates
// Meta, and returns the pre-extraction mapping for schema validation. The
// fence scanner claims dash-fenced YAML; other delimiters (TOML "+++",
// JSON braces) fall through to the generic front matter splitter. Malformed
// metadata never fails a load: the block is still consumed and Meta stays
// nil.
func (l *Loader) splitFrontMatter(doc *Document) metadata.Value {
	if scholarly.HasFrontMatter(doc.Source) {
		span, ok := scholarly.ScanDocument(doc.Source)
		if !ok {
			return metadata.AbsentValue()
		}
		doc.Body = doc.Source[len(span.Raw):]
		value := metadata.Decode(span.Inner)
		if value.Kind() != metadata.Mapping {
			return metadata.AbsentValue()
		}
		block, residual := metadata.ExtractTitleBlock(value)
		doc.Meta = &metadata.Document{TitleBlock: block, Residual: residual, Raw: span.Inner}
		return value
	}

	var fields map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(doc.Source), &fields)
	if err != nil || len(fields) == 0 {
		return metadata.AbsentValue()
	}
	doc.Body = rest

	value := metadata.FromInterface(fields)
	if value.Kind() != metadata.Mapping {
		return metadata.AbsentValue()
	}
	block, residual := metadata.ExtractTitleBlock(value)
	raw := doc.Source[:len(doc.Source)-len(rest)]
	doc.Meta = &metadata.Document{TitleBlock: block, Residual: residual, Raw: raw}
	return value
}

func (l *Loader) shouldRecurse(root, current string) bool {
	if l.recursive {
		return true
	}
	return filepath.Clean(root) == filepath.Clean(current)
}

func (l *Loader) matchesPattern(path string) bool {
	pattern := filepath.ToSlash(l.pattern)
	var target string
	if strings.Contains(pattern, "/") {
		target = path
	} else {
		target = filepath.Base(path)
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("loader: make relative %s: %w", path, err)
	}
	return rel, nil
}
