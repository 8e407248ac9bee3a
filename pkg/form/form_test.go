package form

import "testing"

func TestListStringRoundsTripsSyntax(t *testing.T) {
	f := L(Sym("plus"), Int(1), Flt(2), Str("x\n"), Bool(true), V(Sym("a"), Int(-3)))
	want := `(plus 1 2.0 "x\n" true [a -3])`
	if got := f.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSymbolQualified(t *testing.T) {
	cases := []struct {
		name   string
		ns     string
		local  string
		isQual bool
	}{
		{"core/plus", "core", "plus", true},
		{"plus", "", "plus", false},
		{"/", "", "/", false},
		{"core/", "", "core/", false},
		{"/x", "", "/x", false},
	}
	for _, tc := range cases {
		ns, local, ok := Sym(tc.name).Qualified()
		if ns != tc.ns || local != tc.local || ok != tc.isQual {
			t.Fatalf("%s: expected (%q, %q, %v), got (%q, %q, %v)", tc.name, tc.ns, tc.local, tc.isQual, ns, local, ok)
		}
	}
}

func TestSpanString(t *testing.T) {
	span := Span{Start: Position{Offset: 0, Line: 1, Column: 1}, End: Position{Offset: 5, Line: 1, Column: 6}}
	if got := span.String(); got != "1:1-6" {
		t.Fatalf("expected 1:1-6, got %s", got)
	}
	if got := ZeroSpan().String(); got != "<unknown>" {
		t.Fatalf("expected <unknown>, got %s", got)
	}
	multi := Span{Start: Position{Line: 1, Column: 3}, End: Position{Line: 2, Column: 4}}
	if got := multi.String(); got != "1:3-2:4" {
		t.Fatalf("expected 1:3-2:4, got %s", got)
	}
}

func TestListHead(t *testing.T) {
	if L().Head() != nil {
		t.Fatalf("expected empty list to have no head")
	}
	head := Sym("if")
	if L(head, Bool(true)).Head() != head {
		t.Fatalf("expected head symbol to be returned")
	}
}
