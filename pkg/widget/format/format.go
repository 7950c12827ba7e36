// Package format turns message text into a small tree of html nodes.
//
// Rules are applied in a fixed order: fenced code blocks, then inline code,
// then line breaks. Text never becomes markup by itself, every piece of user
// or server content ends up in a text node and is escaped on render.
package format

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	reFence  = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	reInline = regexp.MustCompile("`([^`]+)`")
)

// Format returns the nodes for text, in order. The nodes are detached and
// may be appended to any parent.
func Format(text string) []*html.Node {
	var out []*html.Node
	last := 0
	for _, m := range reFence.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, inline(text[last:m[0]])...)
		// language tag at m[2]:m[3] is dropped
		out = append(out, Element(atom.Pre, Element(atom.Code, Text(text[m[4]:m[5]]))))
		last = m[1]
	}
	return append(out, inline(text[last:])...)
}

func inline(s string) []*html.Node {
	var out []*html.Node
	last := 0
	for _, m := range reInline.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, breaks(s[last:m[0]])...)
		out = append(out, Element(atom.Code, breaks(s[m[2]:m[3]])...))
		last = m[1]
	}
	return append(out, breaks(s[last:])...)
}

func breaks(s string) []*html.Node {
	if len(s) == 0 {
		return nil
	}
	var out []*html.Node
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out = append(out, Element(atom.Br))
		}
		if len(line) > 0 {
			out = append(out, Text(line))
		}
	}
	return out
}

// HTML formats text and renders the markup
func HTML(text string) string {
	return Render(Format(text)...)
}

// Render writes nodes as escaped markup
func Render(nodes ...*html.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

// PlainText collects the text of nodes, br counts as a newline
func PlainText(nodes ...*html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}

// Text returns a detached text node
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Element returns a detached element with children appended
func Element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
