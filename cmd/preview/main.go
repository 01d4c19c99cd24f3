// Command preview renders a Markdown document with the scholarly front
// matter extension, or dumps the extracted title block as JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	scholarly "github.com/goliatone/go-scholarly"
	"github.com/goliatone/go-scholarly/internal/loader"
)

func main() {
	var (
		contentDir = flag.String("content-dir", "content", "Path to the markdown content root")
		pattern    = flag.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
		filePath   = flag.String("file", "", "Markdown file to preview (relative to the content root)")
		dumpMeta   = flag.Bool("meta", false, "Print the extracted title block as JSON instead of HTML")
		logLevel   = flag.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	logger := glog.NewLogger(
		glog.WithLevel(normalizeLevel(*logLevel)),
		glog.WithLoggerTypeConsole(),
	)

	ld, err := loader.New(os.DirFS(*contentDir), loader.Config{
		BasePath: *contentDir,
		Pattern:  *pattern,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("configure loader: %v", err)
	}

	doc, err := ld.LoadFile(context.Background(), *filePath)
	if err != nil {
		log.Fatalf("load document: %v", err)
	}

	if *dumpMeta {
		if doc.Meta == nil {
			log.Fatalf("%s has no front matter", doc.Path)
		}
		payload, err := json.MarshalIndent(doc.Meta.TitleBlock, "", "  ")
		if err != nil {
			log.Fatalf("encode title block: %v", err)
		}
		fmt.Println(string(payload))
		return
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, scholarly.New()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert(doc.Source, &buf); err != nil {
		log.Fatalf("render markdown: %v", err)
	}
	fmt.Print(buf.String())
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "error":
		return glog.Error
	default:
		return glog.Warn
	}
}
