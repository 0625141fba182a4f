// Package markdown renders Markdown documents to HTML for preview, with
// Mermaid diagram blocks handed to the client-side renderer untouched.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/zeusync/devkit/internal/core/observability/log"
)

const (
	DefaultWordsPerMinute = 200
	mermaidLanguage       = "mermaid"
)

var ErrNilDocument = errors.New("markdown: nil document")

// Config controls a Renderer. The zero value renders plain CommonMark.
// Raw HTML in the source is kept only when Sanitize is set, after passing
// it through an allowlist; otherwise it is omitted. Use DefaultConfig for
// the preview defaults.
type Config struct {
	GFM            bool
	HardWraps      bool
	HeadingIDs     bool
	Mermaid        bool
	Sanitize       bool
	WordsPerMinute int
	Logger         log.Log
}

func DefaultConfig() Config {
	return Config{
		GFM:            true,
		HardWraps:      true,
		HeadingIDs:     true,
		Mermaid:        true,
		Sanitize:       true,
		WordsPerMinute: DefaultWordsPerMinute,
	}
}

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`
}

type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	// ReadingTime is in whole minutes, at least 1 for any non-empty text.
	ReadingTime int `json:"readingTime"`
}

type Document struct {
	HTML     string    `json:"html"`
	Diagrams []string  `json:"diagrams,omitempty"`
	Headings []Heading `json:"headings,omitempty"`
	Stats    Stats     `json:"stats"`
}

type Renderer struct {
	cfg Config
	md  goldmark.Markdown
}

func New(cfg Config) *Renderer {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultWordsPerMinute
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	var (
		exts       []goldmark.Extender
		parserOpts []parser.Option
		htmlOpts   []renderer.Option
	)
	if cfg.GFM {
		exts = append(exts, extension.GFM)
	}
	if cfg.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if cfg.HardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}
	if cfg.Sanitize {
		htmlOpts = append(htmlOpts, gmhtml.WithUnsafe())
	}

	return &Renderer{
		cfg: cfg,
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parserOpts...),
			goldmark.WithRendererOptions(htmlOpts...),
		),
	}
}

// Render converts src.
func (r *Renderer) Render(src string) (*Document, error) {
	source := []byte(src)
	root := r.md.Parser().Parse(text.NewReader(source))
	if root == nil {
		return nil, ErrNilDocument
	}

	doc := &Document{}
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			h := Heading{Level: node.Level, Text: nodeText(node, source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			doc.Headings = append(doc.Headings, h)
		case *ast.FencedCodeBlock:
			if r.cfg.Mermaid && isMermaid(node, source) {
				doc.Diagrams = append(doc.Diagrams, blockText(node, source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	var buf bytes.Buffer
	if err = r.md.Renderer().Render(&buf, source, root); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	rendered := buf.String()
	if r.cfg.Sanitize {
		rendered = sanitize(rendered)
	}
	out, plain, err := postProcess(rendered, r.cfg.Mermaid)
	if err != nil {
		return nil, err
	}
	doc.HTML = out
	doc.Stats = count(plain, r.cfg.WordsPerMinute)

	r.cfg.Logger.Debug("markdown rendered",
		log.Int("bytes", len(source)),
		log.Int("headings", len(doc.Headings)),
		log.Int("diagrams", len(doc.Diagrams)),
		log.Int("words", doc.Stats.Words),
	)
	return doc, nil
}

func isMermaid(n *ast.FencedCodeBlock, source []byte) bool {
	return strings.EqualFold(string(n.Language(source)), mermaidLanguage)
}

func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
