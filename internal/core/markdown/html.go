package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// postProcess rewrites rendered HTML and returns it together with its
// visible text. Mermaid blocks are excluded from the text.
func postProcess(rendered string, mermaid bool) (string, string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(rendered), body)
	if err != nil {
		return "", "", fmt.Errorf("parse rendered html: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	if mermaid {
		rewriteMermaid(body)
	}

	var (
		out   strings.Builder
		plain strings.Builder
	)
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err = html.Render(&out, c); err != nil {
			return "", "", fmt.Errorf("render html: %w", err)
		}
	}
	collectText(body, &plain)
	return out.String(), plain.String(), nil
}

// rewriteMermaid turns <pre><code class="language-mermaid">…</code></pre>
// into <pre class="mermaid">…</pre>.
func rewriteMermaid(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Pre {
			code := c.FirstChild
			if code != nil && code.NextSibling == nil && code.DataAtom == atom.Code && hasClass(code, "language-"+mermaidLanguage) {
				c.RemoveChild(code)
				for t := code.FirstChild; t != nil; {
					next := t.NextSibling
					code.RemoveChild(t)
					c.AppendChild(t)
					t = next
				}
				setAttr(c, "class", mermaidLanguage)
				continue
			}
		}
		rewriteMermaid(c)
	}
}

func collectText(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			if c.DataAtom == atom.Pre && hasClass(c, mermaidLanguage) {
				continue
			}
			collectText(c, sb)
			if isBlock(c.DataAtom) {
				sb.WriteByte('\n')
			}
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Pre, atom.Blockquote, atom.Tr, atom.Td, atom.Th, atom.Br:
		return true
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
