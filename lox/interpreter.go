package lox

import (
	"context"
	"io"
	"os"
)

// Config controls where an Interpreter sends program output.
type Config struct {
	Stdout io.Writer
}

// Interpreter executes parsed programs against one environment that lives
// for as long as the Interpreter does. Successive runs see the variables
// defined by earlier ones. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	config Config
	env    *Env
}

// NewInterpreter constructs an Interpreter, writing to os.Stdout unless the
// config names another writer.
func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	return &Interpreter{config: cfg, env: newEnv()}
}

// Env exposes the interpreter's variable table.
func (in *Interpreter) Env() *Env {
	return in.env
}

// Run scans, parses and executes source. Lexical and syntax errors are
// returned before anything is evaluated.
func (in *Interpreter) Run(ctx context.Context, source string) error {
	tokens, err := Scan(source)
	if err != nil {
		return err
	}
	statements, err := Parse(tokens)
	if err != nil {
		return err
	}
	return in.Interpret(ctx, statements)
}

// Interpret executes statements in order and stops at the first runtime
// error. Output already written by earlier statements is not undone.
func (in *Interpreter) Interpret(ctx context.Context, statements []Statement) error {
	exec := in.newExecution(ctx)
	for _, stmt := range statements {
		if err := exec.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes a single expression against the environment.
func (in *Interpreter) Evaluate(ctx context.Context, expr Expression) (Value, error) {
	exec := in.newExecution(ctx)
	return exec.evalExpression(expr)
}

func (in *Interpreter) newExecution(ctx context.Context) *execution {
	if ctx == nil {
		ctx = context.Background()
	}
	return &execution{ctx: ctx, env: in.env, out: in.config.Stdout}
}
