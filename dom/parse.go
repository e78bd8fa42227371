// CLAUDE:SUMMARY HTML ingestion — builds a Document from markup via x/net/html, declarative shadow roots, quirks detection, OuterHTML rendering.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type parseConfig struct {
	quirksSet bool
	quirks    bool
}

// ParseOption customises Parse behaviour.
type ParseOption func(*parseConfig)

// WithQuirksMode forces compatibility mode instead of deriving it from the
// presence of a doctype.
func WithQuirksMode(q bool) ParseOption {
	return func(c *parseConfig) {
		c.quirksSet = true
		c.quirks = q
	}
}

// Parse builds a Document from HTML markup. Elements register into their
// scope's indexes as they land. A <template shadowrootmode="open|closed">
// child of an element becomes an attached shadow root holding the
// template's content; the template element itself is dropped.
//
// Without a forced mode, a document with no doctype is in quirks mode.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	var cfg parseConfig
	for _, o := range opts {
		o(&cfg)
	}

	parsed, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse HTML: %w", err)
	}

	doc := NewDocument()
	sawDoctype := false
	for c := parsed.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			sawDoctype = true
		}
		convertInto(doc, doc.root, c)
	}

	if cfg.quirksSet {
		doc.quirks = cfg.quirks
	} else {
		doc.quirks = !sawDoctype
	}
	return doc, nil
}

// convertInto converts hn and its subtree, appending under parent (which is
// already connected, so indexes fill in as nodes attach).
func convertInto(doc *Document, parent *Node, hn *html.Node) {
	switch hn.Type {
	case html.ElementNode:
		if mode, ok := declarativeShadowMode(hn); ok && parent.Kind == KindElement {
			root := parent.AttachShadow(mode)
			for c := hn.FirstChild; c != nil; c = c.NextSibling {
				convertInto(doc, root, c)
			}
			return
		}
		el := doc.NewElement(hn.Data)
		el.Attrs = append([]html.Attribute(nil), hn.Attr...)
		parent.AppendChild(el)
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			convertInto(doc, el, c)
		}
	case html.TextNode:
		parent.AppendChild(doc.NewText(hn.Data))
	case html.CommentNode:
		parent.AppendChild(doc.NewComment(hn.Data))
	case html.DoctypeNode:
		parent.AppendChild(doc.newDoctype(hn.Data))
	}
}

func declarativeShadowMode(hn *html.Node) (ShadowMode, bool) {
	if hn.Data != "template" {
		return "", false
	}
	for _, a := range hn.Attr {
		if a.Key == "shadowrootmode" {
			switch strings.ToLower(a.Val) {
			case "open":
				return ShadowOpen, true
			case "closed":
				return ShadowClosed, true
			}
		}
	}
	return "", false
}

// OuterHTML renders a node's plain subtree back to markup. Shadow trees
// and pseudo elements are encapsulated state and are not serialised.
func OuterHTML(n *Node) (string, error) {
	hn := toHTMLNode(n)
	if hn == nil {
		return "", fmt.Errorf("dom: node kind %d cannot be serialised", n.Kind)
	}
	var sb strings.Builder
	if err := html.Render(&sb, hn); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return sb.String(), nil
}

func toHTMLNode(n *Node) *html.Node {
	var hn *html.Node
	switch n.Kind {
	case KindDocument:
		hn = &html.Node{Type: html.DocumentNode}
	case KindElement:
		hn = &html.Node{Type: html.ElementNode, Data: n.Tag, Attr: append([]html.Attribute(nil), n.Attrs...)}
	case KindText:
		hn = &html.Node{Type: html.TextNode, Data: n.Data}
	case KindComment:
		hn = &html.Node{Type: html.CommentNode, Data: n.Data}
	case KindDoctype:
		hn = &html.Node{Type: html.DoctypeNode, Data: n.Data}
	default:
		return nil
	}
	for c := n.firstChild; c != nil; c = c.nextSib {
		if child := toHTMLNode(c); child != nil {
			hn.AppendChild(child)
		}
	}
	return hn
}
