package feather

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestEvalExprArithmetic(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()
	i.SetVar("x", "7")

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"add", "1 + 2", "3"},
		{"precedence", "2 + 3 * 4", "14"},
		{"parens", "(2 + 3) * 4", "20"},
		{"var", "$x * 2", "14"},
		{"ternary true", "1 ? \"a\" : \"b\"", "a"},
		{"ternary false", "0 ? \"a\" : \"b\"", "b"},
		{"relational", "3 < 4", "1"},
		{"equality string", "\"ab\" eq \"ab\"", "1"},
		{"logical and", "1 && 0", "0"},
		{"bitwise or", "4 | 1", "5"},
		{"shift", "1 << 4", "16"},
		{"unary minus", "-(3 + 4)", "-7"},
		{"function abs", "abs(-5)", "5"},
		{"function max", "max(1, 9, 4)", "9"},
		{"float div", "7 / 2.0", "3.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := i.evalExprString(tc.expr)
			if err != nil {
				t.Fatalf("evalExprString(%q) error: %v", tc.expr, err)
			}
			if obj.String() != tc.want {
				t.Errorf("evalExprString(%q) = %q, want %q", tc.expr, obj.String(), tc.want)
			}
		})
	}
}

func TestEvalExprCommandSubst(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()

	obj, err := i.evalExprString("[expr {1 + 1}] + 1")
	if err != nil {
		t.Fatalf("evalExprString error: %v", err)
	}
	if obj.String() != "3" {
		t.Errorf("got %q, want 3", obj.String())
	}
}

// Array indexes inside expressions get the same $/[ substitution as array
// indexes in command words, because expr hands the whole $ reference to the
// command parser.
func TestEvalExprArrayIndexSubstitution(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()
	if err := i.setArrayElem("a", "k1", NewStringObj("41")); err != nil {
		t.Fatal(err)
	}
	i.SetVar("sel", "k1")

	obj, err := i.evalExprString(`$a($sel) + 1`)
	if err != nil {
		t.Fatalf("evalExprString error: %v", err)
	}
	if obj.String() != "42" {
		t.Errorf("got %q, want 42", obj.String())
	}

	if err := i.setArrayElem("a", "sub", NewStringObj("7")); err != nil {
		t.Fatal(err)
	}
	obj, err = i.evalExprString(`$a([set sel2 sub; set sel2])`)
	if err != nil {
		t.Fatalf("evalExprString error: %v", err)
	}
	if obj.String() != "7" {
		t.Errorf("got %q, want 7", obj.String())
	}
}

func TestEvalExprQuotedSubstitution(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()
	i.SetVar("n", "7")

	obj, err := i.evalExprString(`"x$n" eq "x7"`)
	if err != nil {
		t.Fatalf("evalExprString error: %v", err)
	}
	if obj.String() != "1" {
		t.Errorf("got %q, want 1", obj.String())
	}
}

// && and || must not evaluate the dead operand: a short-circuited [cmd]
// never runs, so its side effects are not observable afterwards.
func TestEvalExprShortCircuit(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()

	tests := []struct {
		name string
		expr string
		want string
		hit  string // variable the dead [set] would have created
	}{
		{"and-false-left", `0 && [set hitA 1]`, "0", "hitA"},
		{"or-true-left", `1 || [set hitB 1]`, "1", "hitB"},
		{"ternary-then", `1 ? 2 : [set hitC 1]`, "2", "hitC"},
		{"ternary-else", `0 ? [set hitD 1] : 3`, "3", "hitD"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := i.evalExprString(tc.expr)
			if err != nil {
				t.Fatalf("evalExprString(%q) error: %v", tc.expr, err)
			}
			if obj.String() != tc.want {
				t.Errorf("evalExprString(%q) = %q, want %q", tc.expr, obj.String(), tc.want)
			}
			if _, ok := i.resolveVar(tc.hit); ok {
				t.Errorf("evalExprString(%q) evaluated the dead operand: %s is set", tc.expr, tc.hit)
			}
		})
	}

	// The live operand still runs.
	obj, err := i.evalExprString(`1 && [set hitE 5]`)
	if err != nil {
		t.Fatalf("evalExprString error: %v", err)
	}
	if obj.String() != "1" {
		t.Errorf("got %q, want 1", obj.String())
	}
	if v, ok := i.resolveVar("hitE"); !ok || v.String() != "5" {
		t.Error("live operand did not run")
	}
}

func TestEvalExprDivisionByZero(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()

	if _, err := i.evalExprString("1 / 0"); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestEvalExprBoolTruthiness(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()

	ok, err := i.evalExprBool(NewStringObj("3 > 1 && 2 < 5"))
	if err != nil {
		t.Fatalf("evalExprBool error: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
}

// TestExprFunctionTableSnapshot pins the result of every math function expr
// supports, so a change to rounding/precision behavior shows up as a diff
// instead of silently shifting an individual assertion.
func TestExprFunctionTableSnapshot(t *testing.T) {
	i := NewInternalInterp()
	defer i.Close()

	exprs := []string{
		"round(2.5)",
		"floor(2.9)",
		"ceil(2.1)",
		"sqrt(16)",
		"pow(2, 10)",
		"int(3.9)",
		"double(3)",
		"min(4, 1, 9)",
	}
	results := make(map[string]string, len(exprs))
	for _, e := range exprs {
		obj, err := i.evalExprString(e)
		if err != nil {
			t.Fatalf("evalExprString(%q) error: %v", e, err)
		}
		results[e] = obj.String()
	}
	snaps.MatchSnapshot(t, results)
}
