package lox

import (
	"errors"
	"fmt"
)

//nolint:staticcheck // messages are shown to script authors verbatim
var (
	errOperandNumber   = errors.New("Operand must be a number.")
	errOperandsNumbers = errors.New("Operands must be numbers.")
	errOperandsAdd     = errors.New("Operands must be two numbers or two strings.")
)

// step runs before every statement so a cancelled run stops promptly.
func (exec *execution) step() error {
	select {
	case <-exec.ctx.Done():
		return exec.ctx.Err()
	default:
		return nil
	}
}

func (exec *execution) errorAt(pos Position, format string, args ...any) error {
	return &Diagnostic{Kind: RuntimeError, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// wrapError turns an operand error into a runtime diagnostic at pos.
func (exec *execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var diag *Diagnostic
	if errors.As(err, &diag) {
		return err
	}
	return exec.errorAt(pos, "%s", err.Error())
}
