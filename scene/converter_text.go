package scene

import (
	"errors"
	"fmt"
	"strings"

	goorg "github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	mdtext "github.com/yuin/goldmark/text"
)

// TextFormat enumerates text-based converter targets.
type TextFormat string

const (
	FormatMarkdown TextFormat = "markdown"
	FormatOrg      TextFormat = "org"
)

// ErrNotImplemented signals that a conversion target is not yet supported.
var ErrNotImplemented = errors.New("conversion not implemented")

// payloadLanguages are the fence info strings accepted as scene payloads.
var payloadLanguages = map[string]bool{"": true, "json": true, "yaml": true, "yml": true}

// ExtractPayload returns the scene payload carried by a free-text reply.
// Markdown replies yield the first fenced code block tagged json, yaml or
// untagged; org replies the first matching #+begin_src block. Text with no
// such block is returned trimmed.
func ExtractPayload(body string, format TextFormat) string {
	var payload string
	var ok bool
	switch format {
	case FormatMarkdown:
		payload, ok = markdownPayload(body)
	case FormatOrg:
		payload, ok = orgPayload(body)
	}
	if !ok {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(payload)
}

func markdownPayload(body string) (string, bool) {
	src := []byte(body)
	root := goldmark.New().Parser().Parse(mdtext.NewReader(src))
	var out strings.Builder
	found := false
	_ = mdast.Walk(root, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		block, ok := n.(*mdast.FencedCodeBlock)
		if !ok {
			return mdast.WalkContinue, nil
		}
		if !payloadLanguages[strings.ToLower(string(block.Language(src)))] {
			return mdast.WalkSkipChildren, nil
		}
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out.Write(seg.Value(src))
		}
		found = true
		return mdast.WalkStop, nil
	})
	return out.String(), found
}

func orgPayload(body string) (string, bool) {
	doc := goorg.New().Parse(strings.NewReader(body), "")
	if doc.Error != nil {
		return "", false
	}
	return findSrcBlock(doc.Nodes)
}

func findSrcBlock(nodes []goorg.Node) (string, bool) {
	for _, n := range nodes {
		switch node := n.(type) {
		case goorg.Block:
			if !strings.EqualFold(node.Name, "SRC") {
				continue
			}
			lang := ""
			if len(node.Parameters) > 0 {
				lang = strings.ToLower(node.Parameters[0])
			}
			if payloadLanguages[lang] {
				return goorg.NewOrgWriter().WriteNodesAsString(node.Children...), true
			}
		case goorg.Headline:
			if payload, ok := findSrcBlock(node.Children); ok {
				return payload, true
			}
		}
	}
	return "", false
}

// ConvertSceneToText renders a readable summary of a scene in markdown or org.
func ConvertSceneToText(s Scene, format TextFormat) (string, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(s), nil
	case FormatOrg:
		return renderOrg(s)
	default:
		return "", ErrNotImplemented
	}
}

func renderMarkdown(s Scene) string {
	var b strings.Builder
	b.WriteString("# Scene\n\n")
	writeSummaryLines(&b, s, "- ", "## ")
	return strings.TrimSpace(b.String())
}

func renderOrg(s Scene) (string, error) {
	var b strings.Builder
	b.WriteString("* Scene\n\n")
	writeSummaryLines(&b, s, "- ", "** ")
	doc := goorg.New().Parse(strings.NewReader(b.String()), "")
	out, err := doc.Write(goorg.NewOrgWriter())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func writeSummaryLines(b *strings.Builder, s Scene, bullet, heading string) {
	background := s.Background
	if background == "" {
		background = defaultBackground
	}
	fov := defaultFOV
	if s.Camera.FOV != nil {
		fov = *s.Camera.FOV
	}
	fmt.Fprintf(b, "%sbackground: %s\n", bullet, background)
	fmt.Fprintf(b, "%scamera: position (%s) looking at (%s), fov %s, distance %s\n",
		bullet, vecArgs(s.Camera.Position), vecArgs(s.Camera.LookAt), num(fov),
		num(s.Camera.Position.Sub(s.Camera.LookAt).Len()))

	b.WriteString("\n" + heading + "Lights\n\n")
	if len(s.Lights) == 0 {
		b.WriteString(bullet + "none\n")
	}
	for i, l := range s.Lights {
		fmt.Fprintf(b, "%s%d: %s", bullet, i, l.Type)
		if l.Color != "" {
			fmt.Fprintf(b, " %s", l.Color)
		}
		if l.Intensity != nil {
			fmt.Fprintf(b, " x%s", num(*l.Intensity))
		}
		if l.Position != nil {
			fmt.Fprintf(b, " at (%s)", vecArgs(*l.Position))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + heading + "Objects\n\n")
	if len(s.Objects) == 0 {
		b.WriteString(bullet + "none\n")
	}
	for i, o := range s.Objects {
		mat := o.Material.Type
		if mat == "" {
			mat = MaterialStandard
		}
		fmt.Fprintf(b, "%s%d: %s at (%s), %s material", bullet, i, o.Type, vecArgs(o.Position), mat)
		if o.Material.Color != "" {
			fmt.Fprintf(b, " %s", o.Material.Color)
		}
		b.WriteString("\n")
	}
}
