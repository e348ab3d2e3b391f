package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/loxscript/lox"
)

// Exit statuses follow the BSD sysexits convention.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

type usageErr struct {
	msg string
}

func (e *usageErr) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageErr{msg: fmt.Sprintf(format, args...)}
}

// reportedError wraps an error whose diagnostics were already written, so
// main does not print them a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var usage *usageErr
	if errors.As(err, &usage) {
		return exitUsage
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return exitIOErr
	}
	diags := lox.AsDiagnostics(err)
	if diags == nil {
		return exitFailure
	}
	for _, diag := range diags {
		if diag.Kind == lox.RuntimeError {
			return exitSoftware
		}
	}
	return exitDataErr
}

// reportError writes every diagnostic in err to w, one line each, with an
// optional code frame underneath.
func reportError(w io.Writer, source string, err error, cfg hostConfig) error {
	diags := lox.AsDiagnostics(err)
	if diags == nil {
		fmt.Fprintln(w, paint(cfg, errorStyle, err.Error()))
		return &reportedError{err: err}
	}
	for _, diag := range diags {
		fmt.Fprintln(w, paint(cfg, errorStyle, diag.Error()))
		if !cfg.CodeFrames {
			continue
		}
		frame := lox.FormatCodeFrame(source, diag.Pos)
		if frame == "" {
			continue
		}
		// Styled line by line; Render pads multi-line blocks to one width.
		for _, line := range strings.Split(frame, "\n") {
			fmt.Fprintln(w, paint(cfg, mutedStyle, line))
		}
	}
	return &reportedError{err: err}
}

func paint(cfg hostConfig, style lipgloss.Style, text string) string {
	if !cfg.Color {
		return text
	}
	return style.Render(text)
}
