package artifact

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLSurface builds artifacts as golang.org/x/net/html nodes.
type HTMLSurface struct{}

// CreateElement implements Surface.
func (HTMLSurface) CreateElement(tag string) Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// SetInnerContent implements Surface.
func (HTMLSurface) SetInnerContent(n Node, markup string) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		c = next
	}
	children, err := html.ParseFragment(strings.NewReader(markup), el)
	if err != nil {
		return fmt.Errorf("parsing inner content: %w", err)
	}
	for _, c := range children {
		el.AppendChild(c)
	}
	return nil
}

// SetAttribute implements Surface.
func (HTMLSurface) SetAttribute(n Node, key, value string) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	for i := range el.Attr {
		if el.Attr[i].Key == key {
			el.Attr[i].Val = value
			return nil
		}
	}
	el.Attr = append(el.Attr, html.Attribute{Key: key, Val: value})
	return nil
}

// Render serializes a node built by HTMLSurface.
func Render(n Node) (string, error) {
	el, err := element(n)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := html.Render(&b, el); err != nil {
		return "", err
	}
	return b.String(), nil
}

func element(n Node) (*html.Node, error) {
	el, ok := n.(*html.Node)
	if !ok || el == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, n)
	}
	return el, nil
}
