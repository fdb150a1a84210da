package core

import (
	"errors"
	"testing"
)

func TestRangeNormalize(t *testing.T) {
	r := Range{From: 7, To: 2}.Normalize()
	if r.From != 2 || r.To != 7 {
		t.Errorf("Normalize() = %v, want [2:7)", r)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
}

func TestRangeClip(t *testing.T) {
	tests := []struct {
		name string
		in   Range
		want Range
	}{
		{"inside", Range{1, 3}, Range{1, 3}},
		{"negative start", Range{-4, 3}, Range{0, 3}},
		{"past end", Range{2, 40}, Range{2, 10}},
		{"backward", Range{9, 1}, Range{1, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clip(10); got != tt.want {
				t.Errorf("Clip(10) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchValid(t *testing.T) {
	tests := []struct {
		m    Match
		want bool
	}{
		{Match{Left: 0, Right: 0}, true},
		{Match{Left: 2, Right: 5}, true},
		{Match{Left: 5, Right: 2}, false},
		{Match{Left: -1, Right: 2}, false},
		{Match{Left: 2, Right: 11}, false},
	}
	for _, tt := range tests {
		if got := tt.m.Valid(10); got != tt.want {
			t.Errorf("%v.Valid(10) = %v, want %v", tt.m.Span(), got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	doc := "hello world"

	m, changed := Clamp(Match{Left: 6, Right: 11, Content: "world"}, doc)
	if changed {
		t.Error("Clamp should not change a valid match")
	}
	if m.Content != "world" {
		t.Errorf("Content = %q, want 'world'", m.Content)
	}

	m, changed = Clamp(Match{Left: 6, Right: 40}, doc)
	if !changed {
		t.Error("Clamp should report a repair")
	}
	if m.Right != len(doc) || m.Content != "world" {
		t.Errorf("Clamp() = %+v, want right=%d content 'world'", m, len(doc))
	}

	m, _ = Clamp(Match{Left: 8, Right: 3}, doc)
	if m.Left != 8 || m.Right != 8 || m.Content != "" {
		t.Errorf("Clamp(backward) = %+v, want empty span at 8", m)
	}
}

func TestOffsetError(t *testing.T) {
	var err error = &OffsetError{Rule: "broken", Match: Match{Left: 3, Right: 1}, DocLen: 4}
	var oe *OffsetError
	if !errors.As(err, &oe) {
		t.Fatal("errors.As should find *OffsetError")
	}
	want := `rule "broken" reported span [3:1) outside document of length 4`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCharOffsets(t *testing.T) {
	doc := "αβ x" // α and β are two bytes each

	if got := CharOffset(doc, 4); got != 2 {
		t.Errorf("CharOffset(4) = %d, want 2", got)
	}
	if got := ByteOffset(doc, 3); got != 5 {
		t.Errorf("ByteOffset(3) = %d, want 5", got)
	}
	if got := ByteOffset(doc, 99); got != len(doc) {
		t.Errorf("ByteOffset(99) = %d, want %d", got, len(doc))
	}
	if got := CharRange(doc, Range{From: 5, To: 6}); got != (Range{From: 3, To: 4}) {
		t.Errorf("CharRange() = %v, want [3:4)", got)
	}
}
