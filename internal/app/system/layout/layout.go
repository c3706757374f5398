// Package layout builds render fragments: a small tree of text, tag,
// container and link nodes that is turned into HTML by Render.
//
// The wrap helpers are stateless and compose; a page is built by nesting
// them, e.g. WrapBottomPadding(WrapWide(header), WrapWide(body)).
package layout

import "html/template"

// Kind identifies what a Node renders as.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindHTML
	KindContainer
	KindLink
)

// CacheDirective is attached to nodes whose output must not outlive the
// request (MaxAge 0) or may be cached for MaxAge seconds.
type CacheDirective struct {
	MaxAge int
}

// NoCache is the directive for request-sensitive fragments.
func NoCache() *CacheDirective { return &CacheDirective{MaxAge: 0} }

// Node is one element of a render fragment.
type Node struct {
	Kind Kind

	// Tag is the element name for text, container and link nodes.
	// A text node with an empty Tag renders as bare text.
	Tag  string
	Text string
	HTML template.HTML

	Href    string
	ID      string
	Classes []string
	Attrs   map[string]string

	Children []Node
	Cache    *CacheDirective
}

// IsEmpty reports whether n renders nothing.
func (n Node) IsEmpty() bool {
	switch n.Kind {
	case KindEmpty:
		return true
	case KindContainer:
		for _, c := range n.Children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	}
	return false
}

// Empty returns a node that renders nothing.
func Empty() Node { return Node{Kind: KindEmpty} }

// Text returns a bare, escaped text node.
func Text(s string) Node { return Node{Kind: KindText, Text: s} }

// Tag returns an element with escaped text content.
func Tag(tag, text string, classes ...string) Node {
	return Node{Kind: KindText, Tag: tag, Text: text, Classes: classes}
}

// RawHTML returns a node holding already-trusted markup.
func RawHTML(h template.HTML) Node { return Node{Kind: KindHTML, HTML: h} }

// Container returns a div wrapping children.
func Container(classes []string, children ...Node) Node {
	return Node{Kind: KindContainer, Tag: "div", Classes: classes, Children: children}
}

// Link returns an anchor.
func Link(text, href string, classes []string, id string) Node {
	return Node{Kind: KindLink, Tag: "a", Text: text, Href: href, Classes: classes, ID: id}
}

// WithAttr returns a copy of n with attribute key set to val.
func (n Node) WithAttr(key, val string) Node {
	attrs := make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	attrs[key] = val
	n.Attrs = attrs
	return n
}

// WithCache returns a copy of n carrying the cache directive c.
func (n Node) WithCache(c *CacheDirective) Node {
	n.Cache = c
	return n
}

// MaxAge returns the smallest max-age set anywhere in the tree, or -1
// when no node carries a cache directive.
func MaxAge(n Node) int {
	lowest := -1
	if n.Cache != nil {
		lowest = n.Cache.MaxAge
	}
	for _, c := range n.Children {
		if m := MaxAge(c); m >= 0 && (lowest < 0 || m < lowest) {
			lowest = m
		}
	}
	return lowest
}

// Find returns the first node in the tree with the given DOM id.
func Find(n Node, id string) (Node, bool) {
	if n.ID == id {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := Find(c, id); ok {
			return found, true
		}
	}
	return Node{}, false
}
