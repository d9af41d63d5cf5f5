package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	lox "github.com/dphogit/golox"
)

const appName = "golox"

var banner = appName + ` interactive prompt
Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.
Comments: // line, /* block */ (block comments do not nest).`

var (
	errText  = color.New(color.FgRed)
	echoText = color.New(color.FgBlue)
)

func main() {
	switch len(os.Args) {
	case 1:
		os.Exit(runPrompt())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		usage()
		os.Exit(64)
	}
}

func usage() {
	fmt.Printf(`Usage:
  %s            Start the interactive prompt.
  %s <script>   Execute a Lox script.
`, appName, appName)
}

// -----------------------------------------------------------------------------
// file mode
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}

	r := lox.NewRuntime(os.Stdout, os.Stderr)
	r.Run(string(src))
	switch {
	case r.HadError():
		return 65
	case r.HadRuntimeError():
		return 70
	}
	return 0
}

// -----------------------------------------------------------------------------
// prompt mode
// -----------------------------------------------------------------------------

func runPrompt() int {
	cfg := LoadConfig()
	color.NoColor = color.NoColor || !cfg.Color

	fmt.Println(banner)

	histPath := cfg.History
	if !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// one runner for the whole session: globals persist across lines
	r := lox.NewRuntime(os.Stdout, errWriter{})

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return 0
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			switch strings.TrimSpace(strings.ToLower(line)) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		if echo, ok := r.RunInteractive(line); ok {
			echoText.Println(echo)
		}
		r.Reset()
		ln.AppendHistory(line)
	}
}

// errWriter routes interpreter diagnostics to stderr in red.
type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) {
	errText.Fprint(os.Stderr, string(p))
	return len(p), nil
}
