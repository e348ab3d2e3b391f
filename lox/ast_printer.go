package lox

import (
	"fmt"
	"strings"
)

// PrintTree renders an expression in prefix form, e.g. `(+ 1 (group 2))`.
func PrintTree(expr Expression) string {
	switch e := expr.(type) {
	case *BinaryExpr:
		return parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *GroupingExpr:
		return parenthesize("group", e.Inner)
	case *LiteralExpr:
		return e.Value.String()
	case *UnaryExpr:
		return parenthesize(e.Operator.Lexeme, e.Right)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("= "+e.Name.Lexeme, e.Value)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

// PrintStatement renders a statement in the same prefix form as PrintTree.
func PrintStatement(stmt Statement) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return parenthesize("expr", s.Expr)
	case *PrintStmt:
		return parenthesize("print", s.Expr)
	case *VarStmt:
		if s.Initializer == nil {
			return "(var " + s.Name.Lexeme + ")"
		}
		return parenthesize("var "+s.Name.Lexeme, s.Initializer)
	default:
		return fmt.Sprintf("<%T>", stmt)
	}
}

// PrintSource renders an expression as fully parenthesized infix source.
// The output parses back into a tree that evaluates to the same value.
func PrintSource(expr Expression) string {
	switch e := expr.(type) {
	case *BinaryExpr:
		return "(" + PrintSource(e.Left) + " " + e.Operator.Lexeme + " " + PrintSource(e.Right) + ")"
	case *GroupingExpr:
		return "(" + PrintSource(e.Inner) + ")"
	case *LiteralExpr:
		return e.Value.Literal()
	case *UnaryExpr:
		return "(" + e.Operator.Lexeme + PrintSource(e.Right) + ")"
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return "(" + e.Name.Lexeme + " = " + PrintSource(e.Value) + ")"
	default:
		return PrintTree(expr)
	}
}

func parenthesize(name string, exprs ...Expression) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteString(" ")
		b.WriteString(PrintTree(expr))
	}
	b.WriteString(")")
	return b.String()
}
