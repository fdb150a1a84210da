package rule

import (
	"errors"
	"testing"
)

func TestDisciplineString(t *testing.T) {
	tests := []struct {
		d    Discipline
		want string
	}{
		{DisciplineIndependent, "independent"},
		{DisciplineFirstMatch, "first-match"},
		{Discipline(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Discipline.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDisciplineFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Discipline
		ok   bool
	}{
		{"", DisciplineIndependent, true},
		{"independent", DisciplineIndependent, true},
		{"first-match", DisciplineFirstMatch, true},
		{"first_match", DisciplineFirstMatch, true},
		{"greedy", DisciplineIndependent, false},
	}
	for _, tt := range tests {
		got, ok := DisciplineFromString(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DisciplineFromString(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRuleSet(t *testing.T) {
	rs := NewRuleSet("test", Mdash()).Add(Underline()).WithDiscipline(DisciplineFirstMatch)
	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}
	if rs.Discipline != DisciplineFirstMatch {
		t.Errorf("Discipline = %v, want first-match", rs.Discipline)
	}
	if r, ok := rs.Lookup("underline"); !ok || r.Kind() != KindPattern {
		t.Errorf("Lookup(underline) = %v, %v", r, ok)
	}
	if _, ok := rs.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
	if err := rs.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	var nilSet *RuleSet
	if nilSet.Len() != 0 {
		t.Error("nil RuleSet should have length 0")
	}
}

func TestRuleSetValidate(t *testing.T) {
	rs := NewRuleSet("bad", Mdash(), nil, Mdash())
	err := rs.Validate()
	if err == nil {
		t.Fatal("Validate() should report problems")
	}
	if !errors.Is(err, ErrNilRule) {
		t.Errorf("Validate() = %v, want ErrNilRule among errors", err)
	}
}

func TestDefault(t *testing.T) {
	rs := Default()
	if err := rs.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	for _, name := range []string{"escape", "mdash", "underline", "todo", "math-variable", "color-red", "color-green", "color-blue"} {
		if _, ok := rs.Lookup(name); !ok {
			t.Errorf("Default() missing rule %q", name)
		}
	}
}

func TestBuiltinKinds(t *testing.T) {
	tests := []struct {
		r    *Rule
		want Kind
	}{
		{Underline(), KindPattern},
		{Mdash(), KindLiteral},
		{Todo(), KindAnchored},
		{MathVariables(), KindMathVariable},
		{Escapes(), KindEscape},
		{Colors("pink")[0], KindColor},
	}
	for _, tt := range tests {
		if tt.r.Kind() != tt.want {
			t.Errorf("%s kind = %v, want %v", tt.r.Name(), tt.r.Kind(), tt.want)
		}
	}
}
