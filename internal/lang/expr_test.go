package lang

import "testing"

func TestEvaluateLiteralsAndLookup(t *testing.T) {
	ctx := map[string]Value{"name": "world", "count": 3.0}

	tests := []struct {
		expr string
		want Value
	}{
		{`"hello"`, "hello"},
		{`42`, 42.0},
		{`true`, true},
		{`false`, false},
		{`name`, "world"},
		{`count`, 3.0},
		{`missing`, nil},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.expr, ctx)
		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %v", tt.expr, err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %#v, want %#v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluatePlusIsNumericOrConcatenating(t *testing.T) {
	got, err := Evaluate(`1 + 2`, nil)
	if err != nil || got != 3.0 {
		t.Fatalf("1 + 2 = %#v, %v", got, err)
	}
	got, err = Evaluate(`"a" + "b"`, nil)
	if err != nil || got != "ab" {
		t.Fatalf(`"a" + "b" = %#v, %v`, got, err)
	}
	got, err = Evaluate(`"x=" + 1`, nil)
	if err != nil || got != "x=1" {
		t.Fatalf(`"x=" + 1 = %#v, %v`, got, err)
	}
}

func TestEvaluateParenthesization(t *testing.T) {
	got, err := Evaluate(`(1 + 2)`, nil)
	if err != nil || got != 3.0 {
		t.Fatalf("(1 + 2) = %#v, %v", got, err)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{false, "false"},
		{3.0, "3"},
		{3.5, "3.5"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.v); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{0.0, false},
		{1.0, true},
		{false, false},
		{true, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestParseMacroCallRecognizesDeclaredMacros(t *testing.T) {
	macroNames := map[string]bool{"greet": true}
	call, ok, err := ParseMacroCall(`greet("world")`, nil, macroNames)
	if err != nil {
		t.Fatalf("ParseMacroCall failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for a declared macro call")
	}
	if call.Name != "greet" || len(call.Args) != 1 || call.Args[0] != "world" {
		t.Fatalf("got %#v", call)
	}
}

func TestParseMacroCallIgnoresUndeclaredNames(t *testing.T) {
	_, ok, err := ParseMacroCall(`notamacro("x")`, nil, map[string]bool{})
	if err != nil {
		t.Fatalf("ParseMacroCall should not error on an undeclared name: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for an undeclared name")
	}
}

func TestParseMacroCallIgnoresNonCallExpressions(t *testing.T) {
	_, ok, err := ParseMacroCall(`"just a string"`, nil, map[string]bool{"greet": true})
	if err != nil {
		t.Fatalf("ParseMacroCall should not error on non-call syntax: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for non-call syntax")
	}
}

func TestParseMacroDeclarationParsesParameters(t *testing.T) {
	decl, err := ParseMacroDeclaration("greet(name, greeting)")
	if err != nil {
		t.Fatalf("ParseMacroDeclaration failed: %v", err)
	}
	if decl.Name != "greet" {
		t.Fatalf("Name = %q", decl.Name)
	}
	if len(decl.Args) != 2 || decl.Args[0] != "name" || decl.Args[1] != "greeting" {
		t.Fatalf("Args = %#v", decl.Args)
	}
}

func TestParseMacroDeclarationNoParameters(t *testing.T) {
	decl, err := ParseMacroDeclaration("noop()")
	if err != nil {
		t.Fatalf("ParseMacroDeclaration failed: %v", err)
	}
	if len(decl.Args) != 0 {
		t.Fatalf("Args = %#v, want empty", decl.Args)
	}
}

func TestParseMacroDeclarationMalformedIsError(t *testing.T) {
	if _, err := ParseMacroDeclaration("not a declaration"); err == nil {
		t.Fatalf("expected an error for a malformed declaration")
	}
}
