package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  bridje check [--ns name] [--prelude file.yml] [--dump] [file.brj ...]")
	fmt.Fprintln(os.Stderr, "  bridje repl [--ns name] [--prelude file.yml]")
	fmt.Fprintln(os.Stderr, "  bridje --version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Without file arguments, check analyses the sources listed in ./bridje.yml.")
}
