package layout

import (
	"bytes"
	"html/template"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render turns a node tree into HTML. Text is escaped; KindHTML content is
// parsed as a fragment and re-serialized, so unbalanced markup cannot leak
// out of its container.
func Render(n Node) (template.HTML, error) {
	nodes, err := toHTML(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, hn := range nodes {
		if err := html.Render(&buf, hn); err != nil {
			return "", err
		}
	}
	return template.HTML(buf.String()), nil
}

func toHTML(n Node) ([]*html.Node, error) {
	switch n.Kind {
	case KindEmpty:
		return nil, nil

	case KindText:
		text := &html.Node{Type: html.TextNode, Data: n.Text}
		if n.Tag == "" {
			return []*html.Node{text}, nil
		}
		el := element(n)
		el.AppendChild(text)
		return []*html.Node{el}, nil

	case KindHTML:
		ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		return html.ParseFragment(strings.NewReader(string(n.HTML)), ctx)

	case KindLink:
		el := element(n)
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return []*html.Node{el}, nil

	case KindContainer:
		el := element(n)
		for _, c := range n.Children {
			kids, err := toHTML(c)
			if err != nil {
				return nil, err
			}
			for _, k := range kids {
				el.AppendChild(k)
			}
		}
		return []*html.Node{el}, nil
	}
	return nil, nil
}

func element(n Node) *html.Node {
	tag := n.Tag
	if tag == "" {
		tag = "div"
	}
	el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if n.Href != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: n.Href})
	}
	if n.ID != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "id", Val: n.ID})
	}
	if len(n.Classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.Attr = append(el.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	return el
}
