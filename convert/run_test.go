package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"

	"pxrem/config"
	"pxrem/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Processing.Workers = 2
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Cfg = cfg
	return ctx, env
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

const (
	styled    = "const box = css`margin: 16px;`\n"
	styledRem = "const box = css`margin: 1rem;`\n"
	plain     = "export const answer = 42\n"
)

func TestProcess_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"a.tsx":                styled,
		"lib/b.js":             plain,
		"lib/c.jsx":            "const s = <div style={{ width: 32 }} />\n",
		"node_modules/d.js":    styled,
		"notes.txt":            "16px",
		"lib/module.mjs":       styled,
		"lib/nested/e.ts":      styled,
		"lib/nested/broken.js": "const x = css`top: 8px;\n",
	})

	sum, err := process(ctx, src, dst, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "broken.js") {
		t.Errorf("Expected failure for broken.js, got %v", err)
	}
	if sum == nil {
		t.Fatal("Expected summary")
	}

	if got := readFile(t, filepath.Join(dst, "a.tsx")); got != styledRem {
		t.Errorf("a.tsx = %q", got)
	}
	if got := readFile(t, filepath.Join(dst, "lib", "c.jsx")); got != "const s = <div style={{ width: \"2rem\" }} />\n" {
		t.Errorf("c.jsx = %q", got)
	}
	if got := readFile(t, filepath.Join(dst, "lib", "nested", "e.ts")); got != styledRem {
		t.Errorf("e.ts = %q", got)
	}
	// unchanged files are copied to destination
	if got := readFile(t, filepath.Join(dst, "lib", "b.js")); got != plain {
		t.Errorf("b.js = %q", got)
	}
	for _, name := range []string{"node_modules/d.js", "notes.txt", "lib/module.mjs", "lib/nested/broken.js"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name))); !os.IsNotExist(err) {
			t.Errorf("%s must not be written", name)
		}
	}
	// sources are left alone
	if got := readFile(t, filepath.Join(src, "a.tsx")); got != styled {
		t.Errorf("source a.tsx was modified: %q", got)
	}

	if n := sum.Count(StatusConverted); n != 3 {
		t.Errorf("converted = %d, want 3", n)
	}
	if n := sum.Count(StatusUnchanged); n != 1 {
		t.Errorf("unchanged = %d, want 1", n)
	}
	if n := sum.Count(StatusFailed); n != 1 {
		t.Errorf("failed = %d, want 1", n)
	}
	outcomes := sum.Outcomes()
	if len(outcomes) != 5 || outcomes[0].Path != "a.tsx" || outcomes[1].Path != "lib/b.js" {
		t.Errorf("Unexpected outcomes order: %+v", outcomes)
	}
}

func TestProcess_InPlace(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Processing.SourceMaps = true
	dir := t.TempDir()
	name := filepath.Join(dir, "box.js")
	writeTree(t, dir, map[string]string{"box.js": styled})
	if err := os.Chmod(name, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := process(ctx, name, "", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, name); got != styledRem {
		t.Errorf("box.js = %q", got)
	}
	fi, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("permissions were not kept: %v", fi.Mode())
	}
	if m := readFile(t, name+".map"); !strings.Contains(m, `"mappings"`) || !strings.Contains(m, `"box.js"`) {
		t.Errorf("Unexpected source map %s", m)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("Temporary files left behind: %v", entries)
	}
}

func TestProcess_DryRun(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.DryRun = true
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"a.js": styled, "b.js": plain})

	sum, err := process(ctx, src, dst, zap.NewNop())
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if sum.Count(StatusConverted) != 1 {
		t.Errorf("converted = %d, want 1", sum.Count(StatusConverted))
	}
	if entries, _ := os.ReadDir(dst); len(entries) != 0 {
		t.Errorf("Dry run wrote files: %v", entries)
	}
}

func TestProcess_ExistingOutput(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"a.js": styled})
	writeTree(t, dst, map[string]string{"a.js": "old"})

	if _, err := process(ctx, src, dst, zap.NewNop()); err == nil {
		t.Error("Expected error for existing output")
	}
	if got := readFile(t, filepath.Join(dst, "a.js")); got != "old" {
		t.Errorf("existing output was replaced: %q", got)
	}

	env.Overwrite = true
	if _, err := process(ctx, src, dst, zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "a.js")); got != styledRem {
		t.Errorf("a.js = %q", got)
	}
}

func TestProcess_DestinationInsideSource(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src := t.TempDir()
	dst := filepath.Join(src, "out")
	writeTree(t, src, map[string]string{"a.js": styled, "out/stale.js": styled})

	sum, err := process(ctx, src, dst, zap.NewNop())
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if n := len(sum.Outcomes()); n != 1 {
		t.Errorf("outcomes = %d, want 1", n)
	}
}

func TestProcess_CodePage(t *testing.T) {
	ctx, env := setupTestEnv(t)
	if err := env.SelectCodePage("windows-1251"); err != nil {
		t.Fatal(err)
	}
	text := "// Привет\n" + styled
	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	name := filepath.Join(dir, "a.js")
	if err := os.WriteFile(name, encoded, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := process(ctx, name, "", zap.NewNop()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes([]byte(readFile(t, name)))
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "// Привет\n"+styledRem {
		t.Errorf("a.js = %q", decoded)
	}
}

func TestProcess_Errors(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	if _, err := process(ctx, filepath.Join(t.TempDir(), "missing"), "", zap.NewNop()); err == nil {
		t.Error("Expected error for missing source")
	}

	dir := t.TempDir()
	name := filepath.Join(dir, "a.js")
	writeTree(t, dir, map[string]string{"a.js": "// \xff\xfe\xfd\n" + styled})
	if _, err := process(ctx, name, "", zap.NewNop()); err == nil {
		t.Error("Expected error for undecodable source")
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.js": styled})

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := process(ctx, src, t.TempDir(), zap.NewNop()); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestHasExtension(t *testing.T) {
	exts := []string{".js", ".tsx"}
	for name, want := range map[string]bool{
		"a.js":      true,
		"a.JS":      true,
		"a.tsx":     true,
		"a.ts":      false,
		"js":        false,
		"dir/a.jsx": false,
	} {
		if got := hasExtension(name, exts); got != want {
			t.Errorf("hasExtension(%q) = %v, want %v", name, got, want)
		}
	}
}
