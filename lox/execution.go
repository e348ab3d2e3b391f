package lox

import (
	"context"
	"fmt"
	"io"
)

type execution struct {
	ctx context.Context
	env *Env
	out io.Writer
}

func (exec *execution) execStatement(stmt Statement) error {
	if err := exec.step(); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := exec.evalExpression(s.Expr)
		return err
	case *PrintStmt:
		val, err := exec.evalExpression(s.Expr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(exec.out, val.String()); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil
	case *VarStmt:
		// Without an initializer the name stays unbound.
		if s.Initializer == nil {
			return nil
		}
		val, err := exec.evalExpression(s.Initializer)
		if err != nil {
			return err
		}
		exec.env.Define(s.Name.Lexeme, val)
		return nil
	default:
		return exec.errorAt(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *execution) evalExpression(expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return exec.evalExpression(e.Inner)
	case *VariableExpr:
		val, ok := exec.env.Get(e.Name.Lexeme)
		if !ok {
			return NewNil(), exec.errorAt(e.Pos(), "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return val, nil
	case *AssignExpr:
		val, err := exec.evalExpression(e.Value)
		if err != nil {
			return NewNil(), err
		}
		if !exec.env.Assign(e.Name.Lexeme, val) {
			return NewNil(), exec.errorAt(e.Pos(), "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return val, nil
	case *UnaryExpr:
		return exec.evalUnaryExpr(e)
	case *BinaryExpr:
		return exec.evalBinaryExpr(e)
	default:
		return NewNil(), exec.errorAt(Position{}, "unsupported expression %T", expr)
	}
}
