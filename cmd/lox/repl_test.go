package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func submit(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func lastEntry(t *testing.T, m replModel) historyEntry {
	t.Helper()
	if len(m.history) == 0 {
		t.Fatalf("expected a history entry")
	}
	return m.history[len(m.history)-1]
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := submit(t, newREPLModel(defaultConfig()), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := submit(t, newREPLModel(defaultConfig()), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateUnknownCommandRecordsError(t *testing.T) {
	rm, _ := submit(t, newREPLModel(defaultConfig()), ":bogus")
	entry := lastEntry(t, rm)
	if !entry.isErr || entry.output != "Unknown command: :bogus" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestREPLSharesEnvironmentAcrossLines(t *testing.T) {
	m := newREPLModel(defaultConfig())
	m, _ = submit(t, m, "var score = 40;")
	m, _ = submit(t, m, "score = score + 2;")
	m, _ = submit(t, m, "print score;")

	entry := lastEntry(t, m)
	if entry.isErr || entry.output != "42" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	val, ok := m.interp.Env().Get("score")
	if !ok || val.Number() != 42 {
		t.Fatalf("expected score to be stored in the interpreter env, got %v", val)
	}
}

func TestREPLBareExpressionShowsValue(t *testing.T) {
	m := newREPLModel(defaultConfig())
	output, isErr := m.evaluate("1 + 2 * 3")
	if isErr || output != "7" {
		t.Fatalf("expected 7, got %q (err=%v)", output, isErr)
	}
	output, isErr = m.evaluate("\"a\" + \"b\"")
	if isErr || output != `"ab"` {
		t.Fatalf("expected quoted string, got %q (err=%v)", output, isErr)
	}
}

func TestREPLErrorsDoNotEndSession(t *testing.T) {
	m := newREPLModel(defaultConfig())
	m, cmd := submit(t, m, "print -\"x\";")
	if cmd != nil || m.quitting {
		t.Fatalf("runtime error should not end the session")
	}
	entry := lastEntry(t, m)
	if !entry.isErr || entry.output != "[line 1] RuntimeError: Operand must be a number." {
		t.Fatalf("unexpected entry %+v", entry)
	}

	m, _ = submit(t, m, "print 1 +;")
	if entry := lastEntry(t, m); !entry.isErr || !strings.Contains(entry.output, "SyntaxError: Expect expression.") {
		t.Fatalf("unexpected entry %+v", entry)
	}

	m, _ = submit(t, m, "print 5;")
	if entry := lastEntry(t, m); entry.isErr || entry.output != "5" {
		t.Fatalf("session should keep evaluating, got %+v", entry)
	}
}

func TestREPLRuntimeErrorKeepsEarlierOutput(t *testing.T) {
	m := newREPLModel(defaultConfig())
	output, isErr := m.evaluate("print 1; print nope;")
	if !isErr || output != "1\n[line 1] RuntimeError: Undefined variable 'nope'." {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestREPLResetClearsVariables(t *testing.T) {
	m := newREPLModel(defaultConfig())
	m, _ = submit(t, m, "var a = 1;")
	m, _ = submit(t, m, ":reset")
	if m.interp.Env().Len() != 0 {
		t.Fatalf("reset should clear the environment")
	}
	if entry := lastEntry(t, m); entry.output != "Environment reset" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestREPLHistoryIsBounded(t *testing.T) {
	cfg := defaultConfig()
	cfg.HistoryLimit = 2
	m := newREPLModel(cfg)
	for _, line := range []string{"print 1;", "print 2;", "print 3;"} {
		m, _ = submit(t, m, line)
	}
	if len(m.cmdHistory) != 2 || m.cmdHistory[0] != "print 2;" {
		t.Fatalf("unexpected command history %q", m.cmdHistory)
	}
	if len(m.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(m.history))
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "print 3;" {
		t.Fatalf("up should recall the latest line, got %q", m.textInput.Value())
	}
}

func TestREPLAutocomplete(t *testing.T) {
	m := newREPLModel(defaultConfig())
	m, _ = submit(t, m, "var total = 1;")

	m.textInput.SetValue("print tot")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "print total" {
		t.Fatalf("expected variable completion, got %q", m.textInput.Value())
	}

	m.textInput.SetValue("1+pri")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "1+print" {
		t.Fatalf("expected keyword completion, got %q", m.textInput.Value())
	}

	m.textInput.SetValue("t")
	m = m.handleAutocomplete()
	entry := lastEntry(t, m)
	if entry.output != "Completions: this, true, total" {
		t.Fatalf("unexpected completions %q", entry.output)
	}
}

func TestREPLPromptFromConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Prompt = "calc> "
	m := newREPLModel(cfg)
	if m.textInput.Prompt != "calc> " {
		t.Fatalf("expected configured prompt, got %q", m.textInput.Prompt)
	}
}
