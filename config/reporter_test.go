package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	arc, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("Unable to open report: %v", err)
	}
	defer arc.Close()

	files := make(map[string]string)
	for _, f := range arc.File {
		r, err := f.Open()
		if err != nil {
			t.Fatalf("Unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("Unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}

	logName := filepath.Join(dir, "run.log")
	r.Store("final.log", logName)
	r.Store("missing.log", filepath.Join(dir, "missing.log"))
	r.StoreData("src/a.js", []byte("one"))
	r.StoreData("src/a.js", []byte("two"))

	// stored files are archived with content they have at Close
	if err := os.WriteFile(logName, []byte("logged"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["final.log"] != "logged" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if files["src/a.js"] != "one" || files["src/a.js.1"] != "two" {
		t.Errorf("Unexpected data entries: %v", files)
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("Absent file must not be archived")
	}
	if !strings.Contains(files["MANIFEST"], "missing.log") {
		t.Errorf("MANIFEST does not list all entries:\n%s", files["MANIFEST"])
	}
}

func TestReport_Concurrent(t *testing.T) {
	conf := ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			r.StoreData("same", []byte("x"))
		})
	}
	wg.Wait()

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// 16 entries and manifest
	if files := readArchive(t, conf.Destination); len(files) != 17 {
		t.Errorf("Archive has %d entries, want 17", len(files))
	}
}

func TestReport_FallbackDestination(t *testing.T) {
	conf := ReporterConfig{Destination: filepath.Join(t.TempDir(), "no", "such", "dir", "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer os.Remove(r.Name())
	if r.Name() == conf.Destination {
		t.Error("Expected report to be redirected")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("Name of nil report should be empty")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
