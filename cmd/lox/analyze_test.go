package main

import (
	"testing"

	"github.com/mgomes/loxscript/lox"
)

func lintSource(t *testing.T, source string) []lintWarning {
	t.Helper()
	statements, err := parseSource(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return analyzeStatements(statements)
}

func TestAnalyzeStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"clean", "var a = 1; print a; a = 2;", nil},
		{"use before declaration", "print a; var a = 1;", []string{"variable 'a' used before declaration"}},
		{"assign before declaration", "b = 1; var b = 2;", []string{"variable 'b' assigned before declaration"}},
		{"self reference in initializer", "var c = c + 1;", []string{"variable 'c' used before declaration"}},
		{"unbound declaration", "var d;", []string{"variable 'd' declared without initializer stays unbound"}},
		{"redeclared", "var e = 1;\nvar e = 2;", []string{"variable 'e' redeclared"}},
		{
			"read of unbound variable",
			"var x;\nprint x;",
			[]string{
				"variable 'x' declared without initializer stays unbound",
				"variable 'x' used while unbound",
			},
		},
		{
			"assignment to unbound variable",
			"var x;\nx = 1;",
			[]string{
				"variable 'x' declared without initializer stays unbound",
				"variable 'x' assigned while unbound",
			},
		},
		{"redeclaration with a value binds", "var x;\nvar x = 1;\nprint x;", []string{
			"variable 'x' declared without initializer stays unbound",
			"variable 'x' redeclared",
		}},
		{
			"ordered by position",
			"var f;\nprint g;\nh = f;",
			[]string{
				"variable 'f' declared without initializer stays unbound",
				"variable 'g' used before declaration",
				"variable 'h' assigned before declaration",
				"variable 'f' used while unbound",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := lintSource(t, tt.source)
			if len(warnings) != len(tt.want) {
				t.Fatalf("expected %d warnings, got %+v", len(tt.want), warnings)
			}
			for i, want := range tt.want {
				if warnings[i].Message != want {
					t.Fatalf("warning %d: expected %q, got %q", i, want, warnings[i].Message)
				}
			}
		})
	}
}

func TestAnalyzeWarningPositions(t *testing.T) {
	warnings := lintSource(t, "var x = 1;\nvar x = 2;")
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %+v", warnings)
	}
	if warnings[0].Pos != (lox.Position{Line: 2, Column: 5}) {
		t.Fatalf("unexpected position %+v", warnings[0].Pos)
	}
}
