package scan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/core"
	"github.com/dshills/inlinemark/internal/markup/guard"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

type stubTypesetter struct{}

func (stubTypesetter) Typeset(source string, inline bool) (string, error) {
	if source == `\fail` {
		return "", errors.New("undefined control sequence")
	}
	return "<m>" + source + "</m>", nil
}

func (stubTypesetter) Finalize() error { return nil }

func mustRule(t *testing.T) func(*rule.Rule, error) *rule.Rule {
	return func(r *rule.Rule, err error) *rule.Rule {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return r
	}
}

func spans(decos []Decoration) []core.Range {
	out := make([]core.Range, 0, len(decos))
	for _, d := range decos {
		out = append(out, d.Span())
	}
	return out
}

func TestDecorateUnderline(t *testing.T) {
	doc := "a -hello- b"
	s := New(rule.NewRuleSet("u", rule.Underline()))

	decos := s.Decorate(doc, nil, nil)
	if len(decos) != 1 {
		t.Fatalf("decorations = %d, want 1", len(decos))
	}
	d := decos[0]
	if d.Left != 2 || d.Right != 9 {
		t.Errorf("span = %v, want [2:9)", d.Span())
	}
	if got := d.Artifact.String(); got != "<u>hello</u>" {
		t.Errorf("artifact = %q, want '<u>hello</u>'", got)
	}
	if d.Rule != "underline" || d.IsMark() {
		t.Errorf("decoration = %+v", d)
	}
}

func TestDecorateTodoMark(t *testing.T) {
	doc := "TODO fix this"
	todo := mustRule(t)(rule.NewAnchored("todo", "TODO", "",
		[]artifact.Attribute{{Key: "style", Value: "color:red"}}))

	decos := New(rule.NewRuleSet("t", todo)).Decorate(doc, nil, nil)
	if len(decos) != 1 {
		t.Fatalf("decorations = %d, want 1", len(decos))
	}
	if !decos[0].IsMark() {
		t.Error("decoration should be a mark")
	}
	if decos[0].Span() != (core.Range{From: 0, To: 4}) {
		t.Errorf("span = %v, want [0:4)", decos[0].Span())
	}
}

func TestDecorateSelectionSuppresses(t *testing.T) {
	doc := "x -abc- y"
	s := New(rule.NewRuleSet("u", rule.Underline()))

	if decos := s.Decorate(doc, nil, []core.Range{{From: 2, To: 7}}); len(decos) != 0 {
		t.Errorf("decorations = %v, want none under the selection", spans(decos))
	}
	if decos := s.Decorate(doc, nil, []core.Range{{From: 7, To: 7}}); len(decos) != 0 {
		t.Errorf("caret at the right edge should block, got %v", spans(decos))
	}
	if decos := s.Decorate(doc, nil, []core.Range{{From: 8, To: 8}}); len(decos) != 1 {
		t.Errorf("caret after the match should not block, got %v", spans(decos))
	}
}

func TestDecorateCoveringSelectionAlwaysWins(t *testing.T) {
	doc := `a -b- \gamma red(q) c--d TODO x`
	rs := rule.Default()
	s := New(rs, WithTypesetter(stubTypesetter{}))

	all := s.Decorate(doc, nil, nil)
	if len(all) == 0 {
		t.Fatal("expected decorations without selections")
	}
	for _, d := range all {
		cover := []core.Range{{From: d.Left - 1, To: d.Right + 1}}
		for _, got := range s.Decorate(doc, nil, cover) {
			if got.Left == d.Left && got.Right == d.Right && got.Rule == d.Rule {
				t.Errorf("%s %v decorated under a covering selection", d.Rule, d.Span())
			}
		}
	}
}

func TestDecorateEndpointPolicy(t *testing.T) {
	doc := "x -abc- y"
	s := New(rule.NewRuleSet("u", rule.Underline()), WithPolicy(guard.PolicyEndpoint))

	if decos := s.Decorate(doc, nil, []core.Range{{From: 0, To: 9}}); len(decos) != 1 {
		t.Errorf("endpoint policy should ignore an enclosing selection, got %v", spans(decos))
	}
	if decos := s.Decorate(doc, nil, []core.Range{{From: 2, To: 7}}); len(decos) != 0 {
		t.Errorf("endpoint policy should block an exact selection, got %v", spans(decos))
	}
}

func TestDecorateIdempotent(t *testing.T) {
	doc := "Let x be -big- and \\alpha -- TODO red(y) blue(z)\nI said a"
	s := New(rule.Default(), WithTypesetter(stubTypesetter{}))

	first := s.Decorate(doc, nil, nil)
	second := s.Decorate(doc, nil, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-scan differs:\n%v\n%v", spans(first), spans(second))
	}
}

func TestDecorateOrdering(t *testing.T) {
	doc := "--x- -y-"
	underline, mdash := rule.Underline(), rule.Mdash()

	tests := []struct {
		name  string
		rules []*rule.Rule
		want  []string
	}{
		{"underline first", []*rule.Rule{underline, mdash}, []string{"underline", "mdash", "underline"}},
		{"mdash first", []*rule.Rule{mdash, underline}, []string{"mdash", "underline", "underline"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decos := New(rule.NewRuleSet("o", tt.rules...)).Decorate(doc, nil, nil)
			var got []string
			for i, d := range decos {
				got = append(got, d.Rule)
				if i > 0 && decos[i-1].Left > d.Left {
					t.Errorf("decorations out of order at %d", i)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rules = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecorateFirstMatch(t *testing.T) {
	doc := "--x- -y-"

	tests := []struct {
		name  string
		rules []*rule.Rule
		sels  []core.Range
		want  []core.Range
	}{
		{
			name:  "underline wins",
			rules: []*rule.Rule{rule.Underline(), rule.Mdash()},
			want:  []core.Range{{From: 0, To: 4}, {From: 5, To: 8}},
		},
		{
			// After the dash pair the cursor sits on "x", and "- -" is
			// the next underline starting at or after it.
			name:  "mdash wins",
			rules: []*rule.Rule{rule.Mdash(), rule.Underline()},
			want:  []core.Range{{From: 0, To: 2}, {From: 3, To: 6}},
		},
		{
			name:  "rejected match yields to next rule",
			rules: []*rule.Rule{rule.Underline(), rule.Mdash()},
			sels:  []core.Range{{From: 3, To: 3}},
			want:  []core.Range{{From: 0, To: 2}, {From: 5, To: 8}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := rule.NewRuleSet("fm", tt.rules...).WithDiscipline(rule.DisciplineFirstMatch)
			got := spans(New(rs).Decorate(doc, nil, tt.sels))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("spans = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecorateFirstMatchKeepsWordContext(t *testing.T) {
	doc := "red(ared(x))"
	prefix := mustRule(t)(rule.NewPattern("prefix", rule.PatternConfig{Pattern: `red\(a`, KeepMatch: true}))
	red := mustRule(t)(rule.NewColorFunction("color-red", "red", ""))

	for _, d := range []rule.Discipline{rule.DisciplineIndependent, rule.DisciplineFirstMatch} {
		rs := rule.NewRuleSet("ctx", prefix, red).WithDiscipline(d)
		for _, deco := range New(rs).Decorate(doc, nil, nil) {
			if deco.Rule == "color-red" && deco.Left != 0 {
				t.Errorf("%v: color function matched inside a word at %v", d, deco.Span())
			}
		}
	}
}

func TestDecorateFirstMatchZeroWidth(t *testing.T) {
	zero := mustRule(t)(rule.NewPattern("zero", rule.PatternConfig{Pattern: `x*`, LeftInsert: "·"}))
	rs := rule.NewRuleSet("z", zero).WithDiscipline(rule.DisciplineFirstMatch)
	doc := strings.Repeat("ab", 20)

	decos := New(rs).Decorate(doc, nil, nil)
	if len(decos) == 0 || len(decos) > len(doc)+1 {
		t.Errorf("decorations = %d, want 1..%d", len(decos), len(doc)+1)
	}
}

func TestDecorateRanges(t *testing.T) {
	doc := "-a- middle -b- end -c-"
	s := New(rule.NewRuleSet("u", rule.Underline()))

	got := spans(s.Decorate(doc, []core.Range{{From: 11, To: 14}, {From: 0, To: 3}}, nil))
	want := []core.Range{{From: 0, To: 3}, {From: 11, To: 14}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("spans = %v, want %v", got, want)
	}

	overlapping := spans(s.Decorate(doc, []core.Range{{From: 0, To: 12}, {From: 10, To: 14}}, nil))
	if len(overlapping) != 2 {
		t.Errorf("overlapping ranges should be merged, got %v", overlapping)
	}
}

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []core.Range
		want []core.Range
	}{
		{"nil means whole document", nil, []core.Range{{From: 0, To: 10}}},
		{"clipped", []core.Range{{From: -3, To: 40}}, []core.Range{{From: 0, To: 10}}},
		{"merged", []core.Range{{From: 5, To: 8}, {From: 0, To: 6}}, []core.Range{{From: 0, To: 8}}},
		{"adjacent kept", []core.Range{{From: 0, To: 2}, {From: 2, To: 4}}, []core.Range{{From: 0, To: 2}, {From: 2, To: 4}}},
		{"contained", []core.Range{{From: 0, To: 9}, {From: 2, To: 3}}, []core.Range{{From: 0, To: 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeRanges(tt.in, 10); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeRanges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecorateRenderFailureIsLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(rule.NewRuleSet("e", rule.Escapes()), WithTypesetter(stubTypesetter{}), WithLogger(logger))

	decos := s.Decorate(`\fail then \alpha`, nil, nil)
	if len(decos) != 2 {
		t.Fatalf("decorations = %d, want 2", len(decos))
	}
	if _, ok := decos[0].Artifact.(*artifact.Fallback); !ok {
		t.Errorf("first artifact = %T, want *artifact.Fallback", decos[0].Artifact)
	}
	if got := decos[1].Artifact.String(); got != `<m>\alpha</m>` {
		t.Errorf("second artifact = %q", got)
	}
	if !strings.Contains(buf.String(), "math render failed") {
		t.Errorf("log output missing render failure:\n%s", buf.String())
	}
}

func TestDecorateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, d := range []rule.Discipline{rule.DisciplineIndependent, rule.DisciplineFirstMatch} {
		rs := rule.NewRuleSet("c", rule.Underline()).WithDiscipline(d)
		decos, err := New(rs).DecorateContext(ctx, "-a-", nil, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", d, err)
		}
		if len(decos) != 0 {
			t.Errorf("%s: decorations = %d, want 0", d, len(decos))
		}
	}
}

func TestCheckOffsets(t *testing.T) {
	doc := "abc"
	r := rule.Mdash()
	bad := core.Match{Left: 2, Right: 9}

	s := New(nil)
	if got := s.checkOffsets(r, doc, bad); got.Right != 3 || got.Content != "c" {
		t.Errorf("checkOffsets() = %+v, want clamped to [2:3)", got)
	}

	strict := New(nil, WithStrictOffsets(true))
	defer func() {
		rec := recover()
		oerr, ok := rec.(*core.OffsetError)
		if !ok {
			t.Fatalf("recover() = %v, want *core.OffsetError", rec)
		}
		if oerr.Rule != "mdash" {
			t.Errorf("OffsetError.Rule = %q, want 'mdash'", oerr.Rule)
		}
	}()
	strict.checkOffsets(r, doc, bad)
}

func TestNewNilRuleSet(t *testing.T) {
	s := New(nil)
	if s.RuleSet().Len() != 0 {
		t.Error("nil rule set should become empty")
	}
	if decos := s.Decorate("anything", nil, nil); len(decos) != 0 {
		t.Errorf("empty rule set produced %d decorations", len(decos))
	}
}
