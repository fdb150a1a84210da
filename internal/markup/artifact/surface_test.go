package artifact

import (
	"errors"
	"testing"
)

func TestHTMLSurfaceElement(t *testing.T) {
	el := NewElement("hello <b>world</b>", "u", []Attribute{{Key: "class", Value: "ul"}})
	n, err := el.Node(HTMLSurface{})
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	got, err := Render(n)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := `<u class="ul">hello <b>world</b></u>`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestHTMLSurfacePlainElement(t *testing.T) {
	n, err := NewElement("&mdash;", "", nil).Node(HTMLSurface{})
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	got, _ := Render(n)
	if got != "<span>—</span>" {
		t.Errorf("Render() = %q, want span with em dash", got)
	}
}

func TestHTMLSurfaceReplacesContent(t *testing.T) {
	s := HTMLSurface{}
	n := s.CreateElement("span")
	if err := s.SetInnerContent(n, "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInnerContent(n, "second"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAttribute(n, "id", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAttribute(n, "id", "b"); err != nil {
		t.Fatal(err)
	}
	got, _ := Render(n)
	if got != `<span id="b">second</span>` {
		t.Errorf("Render() = %q", got)
	}
}

func TestHTMLSurfaceForeignNode(t *testing.T) {
	err := HTMLSurface{}.SetInnerContent("not a node", "x")
	if !errors.Is(err, ErrForeignNode) {
		t.Errorf("SetInnerContent(foreign) error = %v, want ErrForeignNode", err)
	}
	if _, err := Render(42); !errors.Is(err, ErrForeignNode) {
		t.Errorf("Render(foreign) error = %v, want ErrForeignNode", err)
	}
}
