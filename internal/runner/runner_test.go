package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mathlang/internal/evaluator"
	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/providers"
)

func newRunner(out, errw *bytes.Buffer) *Runner {
	registry := operation.NewRegistry()
	operation.RegisterProviders(registry, providers.All()...)
	return New(evaluator.New(registry), out, errw)
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.mlang")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"x=10", "rate=2.5", "name=euler"})
	if err != nil {
		t.Fatalf("ParseVars failed: %v", err)
	}

	if n, ok := vars["x"].(*object.Integer); !ok || n.Value != 10 {
		t.Errorf("x should bind as Integer 10, got %v", vars["x"])
	}
	if f, ok := vars["rate"].(*object.Float); !ok || f.Value != 2.5 {
		t.Errorf("rate should bind as Float 2.5, got %v", vars["rate"])
	}
	if s, ok := vars["name"].(*object.String); !ok || s.Value != "euler" {
		t.Errorf("name should bind as String, got %v", vars["name"])
	}
}

func TestParseVarsRejectsBadPair(t *testing.T) {
	if _, err := ParseVars([]string{"novalue"}); err == nil {
		t.Errorf("expected an error for a pair without '='")
	}
}

func TestRunFile(t *testing.T) {
	path := writeScript(t, "x = 3\ny = 4\nSqrt(x ^ 2 + y ^ 2)\n")

	var out, errw bytes.Buffer
	r := newRunner(&out, &errw)
	if !r.RunFile(path, nil) {
		t.Fatalf("RunFile failed: %s", errw.String())
	}

	got := out.String()
	if !strings.Contains(got, "5 (Float)") {
		t.Errorf("expected \"5 (Float)\" in output, got %q", got)
	}
	if strings.Contains(got, "x =") {
		t.Errorf("assignments should not be printed, got %q", got)
	}
}

func TestRunFileWithVars(t *testing.T) {
	path := writeScript(t, "base * 2\n")
	vars, err := ParseVars([]string{"base=21"})
	if err != nil {
		t.Fatalf("ParseVars failed: %v", err)
	}

	var out, errw bytes.Buffer
	r := newRunner(&out, &errw)
	if !r.RunFile(path, vars) {
		t.Fatalf("RunFile failed: %s", errw.String())
	}
	if !strings.Contains(out.String(), "42 (Integer)") {
		t.Errorf("expected pre-bound variable to flow through, got %q", out.String())
	}
}

func TestRunFileReportsError(t *testing.T) {
	path := writeScript(t, "1 + 1\n1 / 0\n")

	var out, errw bytes.Buffer
	r := newRunner(&out, &errw)
	if r.RunFile(path, nil) {
		t.Fatalf("expected RunFile to fail")
	}
	if !strings.Contains(out.String(), "2 (Integer)") {
		t.Errorf("results before the error should still print, got %q", out.String())
	}
	if !strings.Contains(errw.String(), "DivisionByZero") {
		t.Errorf("expected the error kind on stderr, got %q", errw.String())
	}
}

func TestRunFileMissing(t *testing.T) {
	var out, errw bytes.Buffer
	r := newRunner(&out, &errw)
	if r.RunFile(filepath.Join(t.TempDir(), "absent.mlang"), nil) {
		t.Fatalf("expected failure for a missing file")
	}
	if errw.Len() == 0 {
		t.Errorf("expected an error message on stderr")
	}
}
