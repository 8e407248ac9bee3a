package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/reader"
)

func runCheck(args []string) int {
	opts, err := parseOptions(args, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	proj, err := loadOptionalProject()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", projectFileName, err)
		return 1
	}

	files := opts.rest
	if len(files) == 0 && proj != nil {
		files = proj.Sources
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "bridje check: no source files given")
		return 1
	}

	s, err := newSession(opts, proj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridje check: %v\n", err)
		return 1
	}
	for _, path := range files {
		if !checkFile(s, path, opts.dump) {
			return 1
		}
	}
	return 0
}

func checkFile(s *session, path string, dump bool) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridje check: cannot read %s: %v\n", path, err)
		return false
	}
	forms, err := reader.Read(path, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	for _, f := range forms {
		result, err := s.analyse(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, diag.Describe(path, err))
			return false
		}
		fmt.Fprintln(os.Stdout, describe(result))
		if dump {
			fmt.Fprintf(os.Stdout, "%# v\n", pretty.Formatter(result))
		}
	}
	return true
}
