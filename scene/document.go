package scene

import (
	"bytes"
	"html"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RuntimeVersion is the three.js release pinned by the document importmap.
const RuntimeVersion = "0.160.0"

// DocumentOptions controls AssembleDocumentWithOptions.
type DocumentOptions struct {
	// Title is echoed in the <title> and the overlay heading.
	Title string
	// Notes is optional markdown shown in the overlay below the usage hints.
	// Raw HTML in the markdown is not rendered.
	Notes string
}

// AssembleDocument wraps Generate(s) in a standalone HTML document.
func AssembleDocument(s Scene, title string) string {
	return AssembleDocumentWithOptions(s, DocumentOptions{Title: title})
}

// AssembleDocumentWithOptions wraps Generate(s) in a standalone HTML document:
// fixed head and style, an overlay with the title and usage hints, an
// importmap pinning the runtime, and the program as the only module script.
func AssembleDocumentWithOptions(s Scene, opts DocumentOptions) string {
	var buf bytes.Buffer
	// The template is fixed and the data is plain strings, so Execute only
	// fails on writer errors, which bytes.Buffer never returns.
	_ = documentTemplate.Execute(&buf, documentData{
		Title:   html.EscapeString(opts.Title),
		Notes:   renderNotes(opts.Notes),
		Version: RuntimeVersion,
		Program: Generate(s),
	})
	return buf.String()
}

type documentData struct {
	Title   string
	Notes   string
	Version string
	Program string
}

var notesMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

func renderNotes(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := notesMarkdown.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return `<div class="notes">` + strings.TrimSpace(buf.String()) + "</div>\n"
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
    <style>
      body {
        margin: 0;
        overflow: hidden;
        background: #000;
        font-family: system-ui, -apple-system, sans-serif;
      }
      canvas {
        display: block;
      }
      #info {
        position: absolute;
        top: 10px;
        left: 10px;
        padding: 8px 12px;
        color: #fff;
        background: rgba(0, 0, 0, 0.5);
        border-radius: 4px;
        font-size: 13px;
        pointer-events: none;
      }
      #info h1 {
        margin: 0 0 4px;
        font-size: 15px;
      }
      #info p {
        margin: 2px 0;
      }
    </style>
  </head>
  <body>
    <div id="info">
      <h1>{{.Title}}</h1>
      <p>Left drag: rotate</p>
      <p>Right drag: pan</p>
      <p>Scroll: zoom</p>
      {{.Notes}}
    </div>
    <script type="importmap">
      {
        "imports": {
          "three": "https://unpkg.com/three@{{.Version}}/build/three.module.js",
          "three/addons/": "https://unpkg.com/three@{{.Version}}/examples/jsm/"
        }
      }
    </script>
    <script type="module">
{{.Program}}    </script>
  </body>
</html>
`))
