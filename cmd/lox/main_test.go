package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"lox", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"lox", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
	if code := exitCode(err); code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"lox"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandPrintsProgramOutput(t *testing.T) {
	scriptPath := writeScript(t, "var a = 6 / 2;\nprint a;\nprint \"b\" + \"c\";\n")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "3\nbc\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
	if code := exitCode(err); code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRunCommandUnknownFlagIsUsageError(t *testing.T) {
	err := runCommand([]string{"-bogus", "x.lox"})
	if code := exitCode(err); code != exitUsage {
		t.Fatalf("expected exit %d, got %d (%v)", exitUsage, code, err)
	}
}

func TestRunCommandMissingScriptIsIOError(t *testing.T) {
	err := runCommand([]string{filepath.Join(t.TempDir(), "missing.lox")})
	if err == nil || !strings.Contains(err.Error(), "read script") {
		t.Fatalf("expected read error, got %v", err)
	}
	if code := exitCode(err); code != exitIOErr {
		t.Fatalf("expected exit %d, got %d", exitIOErr, code)
	}
}

func TestRunCommandRuntimeErrorKeepsEarlierOutput(t *testing.T) {
	scriptPath := writeScript(t, "print 1;\nprint -\"x\";\nprint 2;\n")

	var runErr error
	stderr, _ := captureStderr(t, func() error {
		out, err := captureStdout(t, func() error {
			return runCommand([]string{"-no-color", scriptPath})
		})
		if out != "1\n" {
			t.Fatalf("unexpected stdout: %q", out)
		}
		runErr = err
		return nil
	})

	if runErr == nil {
		t.Fatalf("expected runtime error")
	}
	var reported *reportedError
	if !errors.As(runErr, &reported) {
		t.Fatalf("runtime error should be marked as reported, got %T", runErr)
	}
	if code := exitCode(runErr); code != exitSoftware {
		t.Fatalf("expected exit %d, got %d", exitSoftware, code)
	}
	if strings.TrimSpace(stderr) != "[line 2] RuntimeError: Operand must be a number." {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestRunCommandSyntaxErrorsRunNothing(t *testing.T) {
	scriptPath := writeScript(t, "print 1;\nprint 2 +;\nvar = 3;\n")

	var runErr error
	stderr, _ := captureStderr(t, func() error {
		out, err := captureStdout(t, func() error {
			return runCommand([]string{"-no-color", scriptPath})
		})
		if out != "" {
			t.Fatalf("syntax errors should prevent output, got %q", out)
		}
		runErr = err
		return nil
	})

	if code := exitCode(runErr); code != exitDataErr {
		t.Fatalf("expected exit %d, got %d (%v)", exitDataErr, code, runErr)
	}
	want := "[line 2] SyntaxError: Expect expression.\n[line 3] SyntaxError: Expect variable name.\n"
	if stderr != want {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestRunCommandCodeFrames(t *testing.T) {
	scriptPath := writeScript(t, "var a = 1;\nprint a + \"x\";\n")

	stderr, err := captureStderr(t, func() error {
		_, err := captureStdout(t, func() error {
			return runCommand([]string{"-frames", "-no-color", scriptPath})
		})
		return err
	})
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if !strings.Contains(stderr, "[line 2] RuntimeError: Operands must be two numbers or two strings.") {
		t.Fatalf("missing diagnostic line: %q", stderr)
	}
	if !strings.Contains(stderr, " 2 | print a + \"x\";\n   |         ^") {
		t.Fatalf("missing code frame: %q", stderr)
	}
}

func TestTokensCommandPrintsTokenStream(t *testing.T) {
	scriptPath := writeScript(t, "var a = 1;")

	out, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("tokensCommand failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 tokens, got %d: %q", len(lines), out)
	}
	if lines[0] != `1:1 VAR "var"` || lines[3] != `1:9 NUMBER "1" 1` {
		t.Fatalf("unexpected token lines: %q", lines)
	}
	if !strings.Contains(lines[5], "EOF") {
		t.Fatalf("expected trailing EOF token, got %q", lines[5])
	}
}

func TestTokensCommandReportsLexicalErrors(t *testing.T) {
	scriptPath := writeScript(t, "print @;")

	var tokErr error
	stderr, _ := captureStderr(t, func() error {
		_, tokErr = captureStdout(t, func() error {
			return tokensCommand([]string{"-no-color", scriptPath})
		})
		return nil
	})
	if code := exitCode(tokErr); code != exitDataErr {
		t.Fatalf("expected exit %d, got %d (%v)", exitDataErr, code, tokErr)
	}
	if !strings.Contains(stderr, "[line 1] LexicalError: Unexpected character.") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestASTCommandPrintsStatements(t *testing.T) {
	scriptPath := writeScript(t, "var x = 1 + 2 * 3;\nprint -x;\nx = 4;\n")

	out, err := captureStdout(t, func() error {
		return astCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("astCommand failed: %v", err)
	}
	want := "(var x (+ 1 (* 2 3)))\n(print (- x))\n(expr (= x 4))\n"
	if out != want {
		t.Fatalf("unexpected ast output: %q", out)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, "var value = 1;\nvalue = value + 1;\nprint value;\n")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsUseBeforeDeclaration(t *testing.T) {
	scriptPath := writeScript(t, "print total;\nvar total = 1;\n")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, ":1:7: variable 'total' used before declaration") {
		t.Fatalf("expected use-before-declaration warning, got %q", out)
	}
}

func TestAnalyzeCommandRejectsSyntaxErrors(t *testing.T) {
	scriptPath := writeScript(t, "print ;")

	err := analyzeCommand([]string{scriptPath})
	if err == nil || !strings.Contains(err.Error(), "analysis parse failed") {
		t.Fatalf("expected parse failure, got %v", err)
	}
	if code := exitCode(err); code != exitDataErr {
		t.Fatalf("expected exit %d, got %d", exitDataErr, code)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureFile(t, &os.Stdout, fn)
}

func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureFile(t, &os.Stderr, fn)
}

func captureFile(t *testing.T, target **os.File, fn func() error) (string, error) {
	t.Helper()

	orig := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	*target = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	runErr := fn()
	_ = w.Close()
	*target = orig

	out := <-done
	_ = r.Close()
	return string(out), runErr
}
