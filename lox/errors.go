package lox

import (
	"errors"
	"fmt"
	"strings"
)

// DiagnosticKind classifies which stage of the pipeline rejected the program.
type DiagnosticKind int

const (
	LexicalError DiagnosticKind = iota
	SyntaxError
	RuntimeError
)

func (k DiagnosticKind) String() string {
	switch k {
	case LexicalError:
		return "LexicalError"
	case SyntaxError:
		return "SyntaxError"
	case RuntimeError:
		return "RuntimeError"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is a line-tagged error raised by the lexer, parser or interpreter.
type Diagnostic struct {
	Kind    DiagnosticKind
	Pos     Position
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] %s: %s", d.Pos.Line, d.Kind, d.Message)
}

// Diagnostics collects every problem found in a single scan or parse.
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

// AsDiagnostics flattens an error returned by this package into its
// diagnostics. It returns nil for errors that did not originate here, such
// as a cancelled context.
func AsDiagnostics(err error) Diagnostics {
	if err == nil {
		return nil
	}
	var many Diagnostics
	if errors.As(err, &many) {
		return many
	}
	var one *Diagnostic
	if errors.As(err, &one) {
		return Diagnostics{one}
	}
	return nil
}

func newDiagnostic(kind DiagnosticKind, pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
