// Package artifact provides the presentational payloads produced from
// matched markup: elements, style marks and typeset math.
//
// Every artifact has two output paths. Node builds a live node through a
// host-supplied Surface; String serializes without any surface, which is
// what static mode uses.
package artifact

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Node is an opaque display node created by a Surface.
type Node any

// Surface is the minimal element-creation capability a host provides.
// The markup core assumes nothing else about the node representation.
type Surface interface {
	// CreateElement returns a new, empty element with the given tag.
	CreateElement(tag string) Node

	// SetInnerContent replaces the node's children with the given markup.
	SetInnerContent(n Node, markup string) error

	// SetAttribute sets a single attribute on the node.
	SetAttribute(n Node, key, value string) error
}

// Artifact is the renderable payload attached to a decoration.
type Artifact interface {
	// Node builds the artifact on the given surface.
	// A nil surface yields a nil node and no error.
	Node(s Surface) (Node, error)

	// String returns the serialized output used by static mode.
	String() string

	// Replaces reports whether the artifact replaces the matched text.
	// Marks decorate the original text in place and return false.
	Replaces() bool

	// Content returns the inner content the artifact was built from.
	Content() string
}

// Attribute is a single element attribute.
type Attribute struct {
	Key   string
	Value string
}

// Attributes converts a map into an attribute list sorted by key.
func Attributes(m map[string]string) []Attribute {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]Attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attribute{Key: k, Value: m[k]})
	}
	return attrs
}

// Lookup returns the value of the named attribute.
func Lookup(attrs []Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// PlainTag is the tag used to build a node for an untagged element.
const PlainTag = "span"

// Element wraps content in an element with attributes.
// Content is trusted markup and is not escaped.
type Element struct {
	Inner      string
	Tag        string
	Attributes []Attribute
}

// NewElement creates an element artifact.
// An empty tag makes a plain element that serializes to bare content.
func NewElement(content, tag string, attrs []Attribute) *Element {
	return &Element{Inner: content, Tag: tag, Attributes: attrs}
}

// Node implements Artifact.
func (e *Element) Node(s Surface) (Node, error) {
	if s == nil {
		return nil, nil
	}
	tag := e.Tag
	if tag == "" {
		tag = PlainTag
	}
	return build(s, tag, e.Inner, e.Attributes)
}

// String implements Artifact.
func (e *Element) String() string {
	if e.Tag == "" && len(e.Attributes) == 0 {
		return e.Inner
	}
	tag := e.Tag
	if tag == "" {
		tag = PlainTag
	}
	return serialize(tag, e.Inner, e.Attributes)
}

// Replaces implements Artifact.
func (e *Element) Replaces() bool { return true }

// Content implements Artifact.
func (e *Element) Content() string { return e.Inner }

// Mark applies attributes to the original text without replacing it.
type Mark struct {
	Inner      string
	Attributes []Attribute
}

// NewMark creates a mark artifact.
func NewMark(content string, attrs []Attribute) *Mark {
	return &Mark{Inner: content, Attributes: attrs}
}

// Node implements Artifact. Hosts that support in-place marks read
// Attributes directly; the node form exists for hosts that do not.
func (m *Mark) Node(s Surface) (Node, error) {
	if s == nil {
		return nil, nil
	}
	return build(s, PlainTag, m.Inner, m.Attributes)
}

// String implements Artifact.
func (m *Mark) String() string {
	return serialize(PlainTag, m.Inner, m.Attributes)
}

// Replaces implements Artifact.
func (m *Mark) Replaces() bool { return false }

// Content implements Artifact.
func (m *Mark) Content() string { return m.Inner }

// Fallback shows raw matched source when rendering failed.
type Fallback struct {
	Raw string
	Err error
}

// Node implements Artifact. The raw source is set as escaped text.
func (f *Fallback) Node(s Surface) (Node, error) {
	if s == nil {
		return nil, nil
	}
	n := s.CreateElement(PlainTag)
	if err := s.SetInnerContent(n, html.EscapeString(f.Raw)); err != nil {
		return nil, err
	}
	return n, nil
}

// String implements Artifact. The raw source is substituted for itself.
func (f *Fallback) String() string { return f.Raw }

// Replaces implements Artifact.
func (f *Fallback) Replaces() bool { return true }

// Content implements Artifact.
func (f *Fallback) Content() string { return f.Raw }

// Unwrap returns the render failure.
func (f *Fallback) Unwrap() error { return f.Err }

func build(s Surface, tag, inner string, attrs []Attribute) (Node, error) {
	n := s.CreateElement(tag)
	if err := s.SetInnerContent(n, inner); err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if err := s.SetAttribute(n, a.Key, a.Value); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func serialize(tag, inner string, attrs []Attribute) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(inner)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}
