package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"crane/internal/diagfmt"
	"crane/internal/version"
)

// runCLI executes rootCmd in a fresh working directory populated with files.
func runCLI(t *testing.T, files map[string]string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatal(mkErr)
		}
		if wErr := os.WriteFile(path, []byte(content), 0o600); wErr != nil {
			t.Fatal(wErr)
		}
	}
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err = rootCmd.ExecuteContext(context.Background())
	closeSession(rootCmd)
	return out.String(), errOut.String(), err
}

// resetFlags возвращает значения флагов к умолчаниям: cobra хранит их между запусками.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestCheckCleanDirectory(t *testing.T) {
	files := map[string]string{
		"a.crane":     "x = 1 + 2\n",
		"sub/b.crane": "def add(a, b) { a + b }\n",
	}
	stdout, stderr, err := runCLI(t, files, "check", ".")
	if err != nil {
		t.Fatalf("check failed: %v\nstderr:\n%s", err, stderr)
	}
	if strings.TrimSpace(stdout) != "checked 2 file(s): 0 error(s), 0 warning(s)" {
		t.Fatalf("unexpected summary %q", stdout)
	}
	if stderr != "" {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestCheckReportsErrors(t *testing.T) {
	files := map[string]string{
		"bad.crane":  "s = \"never closed\n",
		"good.crane": "y = 2\n",
	}
	stdout, stderr, err := runCLI(t, files, "check")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr, "ERROR LEX1002") || !strings.Contains(stderr, "bad.crane:1:5") {
		t.Fatalf("missing diagnostic:\n%s", stderr)
	}
	if !strings.Contains(stdout, "checked 2 file(s): 1 error(s)") {
		t.Fatalf("unexpected summary %q", stdout)
	}
}

func TestCheckShortAndFailOn(t *testing.T) {
	files := map[string]string{"w.crane": "x ,\n"}

	stdout, _, err := runCLI(t, files, "check", "--format", "short")
	if err != nil {
		t.Fatalf("warnings must not fail by default: %v", err)
	}
	if !strings.HasPrefix(stdout, "warning SYN2001 w.crane:1:3 ") {
		t.Fatalf("unexpected short output %q", stdout)
	}

	_, _, err = runCLI(t, files, "check", "--fail-on", "warning")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics with --fail-on warning, got %v", err)
	}

	_, _, err = runCLI(t, files, "check", "--fail-on", "fatal")
	if err == nil || !strings.Contains(err.Error(), "unknown severity") {
		t.Fatalf("expected severity parse error, got %v", err)
	}
}

func TestCheckJSON(t *testing.T) {
	files := map[string]string{"m.crane": "print(1 2)\n"}
	stdout, _, err := runCLI(t, files, "check", "--format", "json", "m.crane")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SYN2006" {
		t.Fatalf("unexpected diagnostics: %+v", out)
	}
	if out.Diagnostics[0].Location.StartLine != 1 {
		t.Fatalf("positions missing: %+v", out.Diagnostics[0].Location)
	}
}

func TestCheckUsesCache(t *testing.T) {
	files := map[string]string{"a.crane": "x = 1\n"}
	dir := t.TempDir()
	cacheHome := filepath.Join(dir, "cache")
	path := filepath.Join(dir, "a.crane")
	if err := os.WriteFile(path, []byte(files["a.crane"]), 0o600); err != nil {
		t.Fatal(err)
	}

	run := func() string {
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"--ui", "off", "check", path})
		if err := rootCmd.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("check: %v", err)
		}
		closeSession(rootCmd)
		resetFlags(rootCmd)
		return strings.TrimSpace(out.String())
	}
	t.Chdir(dir)
	if got := run(); got != "checked 1 file(s): 0 error(s), 0 warning(s)" {
		t.Fatalf("first run: %q", got)
	}
	if got := run(); got != "checked 1 file(s): 0 error(s), 0 warning(s), 1 cached" {
		t.Fatalf("second run: %q", got)
	}
}

func TestParseFormats(t *testing.T) {
	files := map[string]string{"p.crane": "x = 1 + 2\n"}

	stdout, _, err := runCLI(t, files, "parse", "--format", "json", "p.crane")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var doc diagfmt.ASTDocument
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Type != "Reassignment" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	stdout, _, err = runCLI(t, files, "parse", "--format", "tree", "p.crane")
	if err != nil {
		t.Fatalf("parse tree: %v", err)
	}
	if !strings.Contains(stdout, "Reassignment") || !strings.Contains(stdout, "Operator(Add)") {
		t.Fatalf("unexpected tree:\n%s", stdout)
	}
}

func TestParseDirectoryJSON(t *testing.T) {
	files := map[string]string{
		"b.crane": "y = 2\n",
		"a.crane": "x = 1\n",
	}
	stdout, _, err := runCLI(t, files, "parse", "--format", "json", ".")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var docs []diagfmt.ASTDocument
	if err := json.Unmarshal([]byte(stdout), &docs); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(docs) != 2 || !strings.HasSuffix(docs[0].File, "a.crane") || !strings.HasSuffix(docs[1].File, "b.crane") {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestParseDefaultsToManifestSources(t *testing.T) {
	files := map[string]string{
		"crane.toml":  "[package]\nname = \"demo\"\n\n[build]\nsources = \"src\"\n",
		"src/a.crane": "x = 1\n",
		"top.crane":   "y = 2\n",
	}
	stdout, _, err := runCLI(t, files, "parse", "--format", "json")
	if err != nil {
		t.Fatalf("parse without arguments: %v", err)
	}
	var docs []diagfmt.ASTDocument
	if err := json.Unmarshal([]byte(stdout), &docs); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(docs) != 1 || !strings.HasSuffix(docs[0].File, "a.crane") {
		t.Fatalf("expected only src/a.crane, got %+v", docs)
	}
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	_, _, err := runCLI(t, map[string]string{"p.crane": "x\n"}, "parse", "--format", "xml", "p.crane")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestTokenizeJSON(t *testing.T) {
	stdout, _, err := runCLI(t, map[string]string{"t.crane": "x = 1"}, "tokenize", "--format", "json", "t.crane")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	kinds := make([]string, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	if got := strings.Join(kinds, " "); got != "Ident Operator NumberLit EOF" {
		t.Fatalf("kinds = %q", got)
	}
}

func TestTokenizeDirectory(t *testing.T) {
	files := map[string]string{
		"a.crane":     "x = 1",
		"sub/b.crane": "y",
	}
	stdout, _, err := runCLI(t, files, "tokenize", "--format", "json", ".")
	if err != nil {
		t.Fatalf("tokenize dir: %v", err)
	}
	var out []diagfmt.TokenFileOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(out) != 2 || !strings.HasSuffix(out[0].File, "a.crane") || len(out[1].Tokens) != 2 {
		t.Fatalf("unexpected files: %+v", out)
	}

	files["bad.crane"] = "\"open"
	stdout, stderr, err := runCLI(t, files, "tokenize")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr, "LEX1002") || strings.Count(stdout, "== ") != 2 {
		t.Fatalf("unexpected output:\nstdout:\n%s\nstderr:\n%s", stdout, stderr)
	}
}

func TestManifestDefaultsAndToolchain(t *testing.T) {
	files := map[string]string{
		"crane.toml":   "[package]\nname = \"demo\"\n\n[build]\nsources = \"src\"\n",
		"src/ok.crane": "x = 1\n",
		"other.crane":  "\"broken\n",
	}
	stdout, _, err := runCLI(t, files, "check")
	if err != nil {
		t.Fatalf("check with manifest: %v", err)
	}
	if !strings.HasPrefix(stdout, "checked 1 file(s)") {
		t.Fatalf("manifest sources not used: %q", stdout)
	}

	files["crane.toml"] = "[package]\nname = \"demo\"\ncrane = \">= 99.0.0\"\n"
	_, stderr, err := runCLI(t, files, "check")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr, "PRJ5002") || !strings.Contains(stderr, "crane.toml:3:1") {
		t.Fatalf("missing toolchain diagnostic:\n%s", stderr)
	}

	// version не зависит от манифеста
	stdout, _, err = runCLI(t, files, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, `"version": "`+version.Version+`"`) {
		t.Fatalf("unexpected version output:\n%s", stdout)
	}
}

func TestInitCommand(t *testing.T) {
	stdout, _, err := runCLI(t, nil, "init", "proj", "--name", "hello")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, "crane.toml") {
		t.Fatalf("unexpected output %q", stdout)
	}
	data, err := os.ReadFile(filepath.Join("proj", "crane.toml"))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.Contains(string(data), `name = "hello"`) {
		t.Fatalf("unexpected manifest:\n%s", data)
	}
}

func TestFlagParsers(t *testing.T) {
	switches := map[string]switchMode{
		"":       switchAuto,
		" ON ":   switchOn,
		"always": switchOn,
		"off":    switchOff,
		"never":  switchOff,
	}
	for in, want := range switches {
		if got, err := readSwitch("ui", in); err != nil || got != want {
			t.Errorf("readSwitch(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := readSwitch("color", "purple"); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Errorf("readSwitch must reject unknown values and name the flag, got %v", err)
	}
	if switchAuto.enabled(&bytes.Buffer{}) {
		t.Error("auto must be off for a non-terminal writer")
	}
	tests := map[string]diagfmt.PathMode{
		"":         diagfmt.PathModeAuto,
		"absolute": diagfmt.PathModeAbsolute,
		"relative": diagfmt.PathModeRelative,
		"basename": diagfmt.PathModeBasename,
	}
	for in, want := range tests {
		if got, err := readPathMode(in); err != nil || got != want {
			t.Errorf("readPathMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := readPathMode("short"); err == nil {
		t.Error("readPathMode must reject unknown values")
	}
}

func TestTraceRingKeepsTail(t *testing.T) {
	files := map[string]string{"a.crane": "x = 1\n"}
	_, stderr, err := runCLI(t, files, "--trace-ring", "1", "tokenize", "a.crane")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if strings.Count(stderr, "\n") != 1 || !strings.Contains(stderr, "← lex") {
		t.Fatalf("expected only the lex end event, got:\n%s", stderr)
	}
}

func TestUseTUI(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		name string
		s    session
		want bool
	}{
		{"on", session{ui: switchOn}, true},
		{"quiet wins", session{ui: switchOn, quiet: true}, false},
		{"off", session{ui: switchOff}, false},
		{"auto on a buffer", session{ui: switchAuto}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.useTUI(&buf); got != tt.want {
				t.Fatalf("useTUI = %v, want %v", got, tt.want)
			}
		})
	}
}
