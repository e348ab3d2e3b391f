package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mgomes/loxscript/lox"
)

func main() {
	err := runCLI(os.Args)
	if err == nil {
		return
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return lspCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	report := addReportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usagef("lox run: %v", err)
	}
	cfg, err := report.load()
	if err != nil {
		return err
	}
	_, source, err := readScript("run", fs.Args())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interp := lox.NewInterpreter(lox.Config{Stdout: os.Stdout})
	if err := interp.Run(ctx, source); err != nil {
		return reportError(os.Stderr, source, err, cfg)
	}
	return nil
}

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	report := addReportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usagef("lox tokens: %v", err)
	}
	cfg, err := report.load()
	if err != nil {
		return err
	}
	_, source, err := readScript("tokens", fs.Args())
	if err != nil {
		return err
	}

	tokens, scanErr := lox.Scan(source)
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	if scanErr != nil {
		return reportError(os.Stderr, source, scanErr, cfg)
	}
	return nil
}

func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	report := addReportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usagef("lox ast: %v", err)
	}
	cfg, err := report.load()
	if err != nil {
		return err
	}
	_, source, err := readScript("ast", fs.Args())
	if err != nil {
		return err
	}

	statements, err := parseSource(source)
	if err != nil {
		return reportError(os.Stderr, source, err, cfg)
	}
	for _, stmt := range statements {
		fmt.Println(lox.PrintStatement(stmt))
	}
	return nil
}

// parseSource scans and parses, stopping after the lexer if it failed.
func parseSource(source string) ([]lox.Statement, error) {
	tokens, err := lox.Scan(source)
	if err != nil {
		return nil, err
	}
	return lox.Parse(tokens)
}

func readScript(command string, args []string) (string, string, error) {
	if len(args) == 0 {
		return "", "", usagef("lox %s: script path required", command)
	}
	if len(args) > 1 {
		return "", "", usagef("lox %s: unexpected arguments after %s", command, args[0])
	}
	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return "", "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", "", fmt.Errorf("read script: %w", err)
	}
	return scriptPath, string(input), nil
}

type reportFlags struct {
	configPath *string
	frames     *bool
	noColor    *bool
}

func addReportFlags(fs *flag.FlagSet) reportFlags {
	return reportFlags{
		configPath: fs.String("config", "", "path to a YAML config file"),
		frames:     fs.Bool("frames", false, "print a source excerpt under each diagnostic"),
		noColor:    fs.Bool("no-color", false, "disable coloured diagnostics"),
	}
}

// load reads the config file and lets the command-line flags override it.
func (f reportFlags) load() (hostConfig, error) {
	cfg, err := loadConfig(*f.configPath)
	if err != nil {
		return cfg, err
	}
	if *f.frames {
		cfg.CodeFrames = true
	}
	if *f.noColor {
		cfg.Color = false
	}
	return cfg, nil
}

func usageError() error {
	printUsage()
	return &usageErr{msg: "invalid command"}
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-config file] [-frames] [-no-color] <script>")
	fmt.Fprintln(os.Stderr, "    execute a script")
	fmt.Fprintln(os.Stderr, "  repl [-config file]")
	fmt.Fprintln(os.Stderr, "    start an interactive session")
	fmt.Fprintln(os.Stderr, "  tokens <script>")
	fmt.Fprintln(os.Stderr, "    print the token stream")
	fmt.Fprintln(os.Stderr, "  ast <script>")
	fmt.Fprintln(os.Stderr, "    print the parsed statements")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path...>")
	fmt.Fprintln(os.Stderr, "    normalize whitespace in .lox files")
	fmt.Fprintln(os.Stderr, "  analyze <script>")
	fmt.Fprintln(os.Stderr, "    report suspicious variable use")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    serve diagnostics, hover and completion over stdio")
	fmt.Fprintln(os.Stderr, "Config:")
	fmt.Fprintf(os.Stderr, "  -config or $%s names a YAML file with color, code_frames, prompt, history_limit\n", configEnvVar)
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
