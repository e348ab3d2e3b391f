package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/loxscript/lox"
)

func fmtCommand(args []string) error {
	flags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flags.SetOutput(new(flagErrorSink))
	write := flags.Bool("w", false, "write result to source files instead of stdout")
	check := flags.Bool("check", false, "fail if any source file needs formatting")
	report := addReportFlags(flags)
	if err := flags.Parse(args); err != nil {
		return usagef("lox fmt: %v", err)
	}
	cfg, err := report.load()
	if err != nil {
		return err
	}

	targets := flags.Args()
	if len(targets) == 0 {
		return usagef("lox fmt: path required")
	}

	files, err := collectLoxFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatLoxSource(original)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot format a file with lexical errors\n", path)
			return reportError(os.Stderr, original, err, cfg)
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lox fmt: %d file(s) need formatting", changedCount)
	}

	return nil
}

// collectLoxFiles expands directories into the .lox files beneath them.
// Explicitly named files are taken whatever their extension.
func collectLoxFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		if _, ok := seen[abs]; ok {
			return nil
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			if err := addFile(target); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || filepath.Ext(path) != ".lox" {
				return nil
			}
			return addFile(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatLoxSource normalizes line endings and trims trailing whitespace
// everywhere except inside string literals, which are copied byte for byte.
// Source that does not scan is returned unchanged along with the errors.
func formatLoxSource(source string) (string, error) {
	tokens, err := lox.Scan(source)
	if err != nil {
		return source, err
	}

	var b strings.Builder
	last := 0
	for _, tok := range tokens {
		if tok.Literal.Kind() != lox.KindString {
			continue
		}
		b.WriteString(normalizeGap(source[last:tok.Offset], false))
		b.WriteString(tok.Lexeme)
		last = tok.Offset + len(tok.Lexeme)
	}
	b.WriteString(normalizeGap(source[last:], true))

	formatted := b.String()
	if formatted == "" {
		return "", nil
	}
	return formatted + "\n", nil
}

// normalizeGap formats the text between string literals. Only whitespace
// that ends a line is trimmed, so spacing before a literal survives. The
// final gap also loses its trailing blank lines.
func normalizeGap(gap string, final bool) string {
	gap = strings.ReplaceAll(gap, "\r\n", "\n")
	gap = strings.ReplaceAll(gap, "\r", "\n")

	lines := strings.Split(gap, "\n")
	for i, line := range lines {
		if final || i < len(lines)-1 {
			lines[i] = strings.TrimRight(line, " \t")
		}
	}

	joined := strings.Join(lines, "\n")
	if final {
		joined = strings.TrimRight(joined, "\n")
	}
	return joined
}
