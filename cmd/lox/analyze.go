package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/mgomes/loxscript/lox"
)

type lintWarning struct {
	Pos     lox.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return usagef("lox analyze: %v", err)
	}

	scriptPath, source, err := readScript("analyze", fs.Args())
	if err != nil {
		return err
	}
	statements, err := parseSource(source)
	if err != nil {
		return fmt.Errorf("analysis parse failed: %w", err)
	}

	warnings := analyzeStatements(statements)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		fmt.Printf("%s:%d:%d: %s\n", scriptPath, line, column, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// varLinter follows declarations in program order. The environment is flat,
// so a name is visible from its declaration to the end of the program.
// unbound holds names declared without an initializer; assignment never
// creates a binding, so they stay unbound until redeclared with a value.
type varLinter struct {
	declared map[string]bool
	unbound  map[string]bool
	warnings []lintWarning
}

func analyzeStatements(statements []lox.Statement) []lintWarning {
	l := &varLinter{declared: make(map[string]bool), unbound: make(map[string]bool)}
	for _, stmt := range statements {
		l.statement(stmt)
	}

	sort.SliceStable(l.warnings, func(i, j int) bool {
		if l.warnings[i].Pos.Line != l.warnings[j].Pos.Line {
			return l.warnings[i].Pos.Line < l.warnings[j].Pos.Line
		}
		return l.warnings[i].Pos.Column < l.warnings[j].Pos.Column
	})
	return l.warnings
}

func (l *varLinter) warn(pos lox.Position, format string, args ...any) {
	l.warnings = append(l.warnings, lintWarning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (l *varLinter) statement(stmt lox.Statement) {
	switch s := stmt.(type) {
	case *lox.ExprStmt:
		l.expression(s.Expr)
	case *lox.PrintStmt:
		l.expression(s.Expr)
	case *lox.VarStmt:
		name := s.Name.Lexeme
		if s.Initializer != nil {
			l.expression(s.Initializer)
		} else {
			l.warn(s.Name.Pos, "variable '%s' declared without initializer stays unbound", name)
		}
		if l.declared[name] {
			l.warn(s.Name.Pos, "variable '%s' redeclared", name)
		}
		l.declared[name] = true
		l.unbound[name] = s.Initializer == nil
	}
}

func (l *varLinter) expression(expr lox.Expression) {
	switch e := expr.(type) {
	case *lox.BinaryExpr:
		l.expression(e.Left)
		l.expression(e.Right)
	case *lox.GroupingExpr:
		l.expression(e.Inner)
	case *lox.UnaryExpr:
		l.expression(e.Right)
	case *lox.VariableExpr:
		name := e.Name.Lexeme
		switch {
		case !l.declared[name]:
			l.warn(e.Name.Pos, "variable '%s' used before declaration", name)
		case l.unbound[name]:
			l.warn(e.Name.Pos, "variable '%s' used while unbound", name)
		}
	case *lox.AssignExpr:
		l.expression(e.Value)
		name := e.Name.Lexeme
		switch {
		case !l.declared[name]:
			l.warn(e.Name.Pos, "variable '%s' assigned before declaration", name)
		case l.unbound[name]:
			l.warn(e.Name.Pos, "variable '%s' assigned while unbound", name)
		}
	}
}
