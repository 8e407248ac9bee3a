package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/reader"
)

const historyFile = ".bridje_history"

func runRepl(args []string) int {
	opts, err := parseOptions(args, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(opts.rest) > 0 {
		fmt.Fprintf(os.Stderr, "bridje repl does not take arguments (received %s)\n", strings.Join(opts.rest, " "))
		return 1
	}
	proj, err := loadOptionalProject()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", projectFileName, err)
		return 1
	}
	s, err := newSession(opts, proj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridje repl: %v\n", err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		input, ok := readInput(ln, s.namespace+"=> ")
		if !ok {
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if strings.HasPrefix(input, ":") {
			if quit := handleReplCommand(s, input); quit {
				return 0
			}
			continue
		}
		evalReplInput(s, input)
	}
}

// readInput keeps prompting while brackets or a string are still open.
func readInput(ln *liner.State, prompt string) (string, bool) {
	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = strings.Repeat(" ", len(prompt)-3) + ".. "
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return "", false
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		if !reader.Incomplete(buf.String()) {
			return buf.String(), true
		}
	}
}

func handleReplCommand(s *session, input string) (quit bool) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return true
	case ":ns":
		if arg == "" {
			fmt.Println(s.namespace)
			return false
		}
		if strings.Contains(arg, "/") {
			fmt.Fprintf(os.Stderr, "invalid namespace name '%s'\n", arg)
			return false
		}
		if err := s.switchNamespace(arg); err != nil {
			fmt.Fprintln(os.Stderr, diag.Describe("", err))
		}
	case ":type":
		if arg == "" {
			fmt.Fprintln(os.Stderr, ":type expects a form")
			return false
		}
		evalReplInput(s, arg)
	default:
		fmt.Println("unknown command. Commands: :ns [name], :type <form>, :quit")
	}
	return false
}

func evalReplInput(s *session, input string) {
	forms, err := reader.Read("", input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for _, f := range forms {
		result, err := s.analyse(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, diag.Describe("", err))
			return
		}
		fmt.Println(describe(result))
	}
}
