package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()
	return code, string(outBytes), string(errBytes)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestCheckPrintsTypes(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "main.brj")
	writeFile(t, path, `
(def answer (plus 40 2))
(defx twice (-> Int Int))
(def twice (fn [n Int] (times n 2)))
(if (lt answer 50) "small" "big")
`)

	code, stdout, stderr := captureCLI(t, []string{"check", path})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	want := []string{
		"user/answer :: Int",
		"user/twice :: (-> Int Int)",
		"user/twice :: (-> Int Int)",
		"String",
	}
	if got := strings.Split(strings.TrimSpace(stdout), "\n"); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCheckReportsFirstError(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "bad.brj")
	writeFile(t, path, `
(def ok 1)
(plus ok "x")
(def never 2)
`)

	code, stdout, stderr := captureCLI(t, []string{"check", "--ns", "app", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout, "app/ok :: Int") {
		t.Fatalf("expected the first def to be reported, got %q", stdout)
	}
	if strings.Contains(stdout, "never") {
		t.Fatalf("expected analysis to stop at the first error, got %q", stdout)
	}
	wantPrefix := path + ":2:10: TypeMismatch:"
	if !strings.HasPrefix(strings.TrimSpace(stderr), wantPrefix) {
		t.Fatalf("expected stderr to start with %q, got %q", wantPrefix, stderr)
	}
}

func TestCheckUsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "extra.yml"), `
namespaces:
  - name: geometry
    vars:
      - name: tau
        type: Float
`)
	writeFile(t, filepath.Join(dir, "src", "shapes.brj"), `
(fplus tau 1.0)
`)
	writeFile(t, filepath.Join(dir, projectFileName), `
namespace: shapes
requires: [geometry]
prelude: extra.yml
sources:
  - src/shapes.brj
`)

	code, stdout, stderr := captureCLI(t, []string{"check"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if strings.TrimSpace(stdout) != "Float" {
		t.Fatalf("expected Float, got %q", stdout)
	}
}

func TestCheckRejectsUnknownProjectKeys(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, projectFileName), `
namespace: app
entry: main.brj
`)
	code, _, stderr := captureCLI(t, []string{"check"})
	if code != 1 || !strings.Contains(stderr, "failed to load bridje.yml") {
		t.Fatalf("expected project load failure, got %d %q", code, stderr)
	}
}

func TestCheckSyntaxError(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "broken.brj")
	writeFile(t, path, "(plus 1 2]\n")
	code, _, stderr := captureCLI(t, []string{"check", path})
	if code != 1 || !strings.Contains(stderr, "mismatched bracket") {
		t.Fatalf("expected a reader error, got %d %q", code, stderr)
	}
}

func TestCheckDump(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "dump.brj")
	writeFile(t, path, "(let [x 1] x)\n")
	code, stdout, stderr := captureCLI(t, []string{"check", "--dump", path})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if !strings.Contains(stdout, "expr.Let") {
		t.Fatalf("expected a dumped tree, got %q", stdout)
	}
}

func TestRunArgumentHandling(t *testing.T) {
	if code, stdout, _ := captureCLI(t, []string{"--version"}); code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("unexpected version output %d %q", code, stdout)
	}
	if code, _, stderr := captureCLI(t, []string{"frob"}); code != 1 || !strings.Contains(stderr, "unknown command") {
		t.Fatalf("expected unknown command failure, got %d %q", code, stderr)
	}
	if code, _, stderr := captureCLI(t, []string{"check", "--ns"}); code != 1 || !strings.Contains(stderr, "--ns expects a value") {
		t.Fatalf("expected flag error, got %d %q", code, stderr)
	}
	if code, _, stderr := captureCLI(t, []string{"repl", "--dump"}); code != 1 || !strings.Contains(stderr, "unknown flag --dump") {
		t.Fatalf("expected repl to reject --dump, got %d %q", code, stderr)
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"--ns=app", "--prelude", "p.yml", "--dump", "a.brj", "--", "--b.brj"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.namespace != "app" || opts.prelude != "p.yml" || !opts.dump {
		t.Fatalf("unexpected options %#v", opts)
	}
	if strings.Join(opts.rest, ",") != "a.brj,--b.brj" {
		t.Fatalf("unexpected rest %v", opts.rest)
	}
	if _, err := parseOptions([]string{"--ns", "a/b"}, false); err == nil {
		t.Fatalf("expected qualified namespace name to be rejected")
	}
}
