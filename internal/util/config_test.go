package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	want := Configuration{
		LogLevel: "debug",
		LogFile:  "pyrt.log",
		Mode:     "goroutine",
		Color:    false,
		Journal:  JournalConfig{Driver: "sqlite3", DSN: "file:journal.db"},
	}

	cases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "pyrt.toml",
			content: `log_level = "debug"
log_file = "pyrt.log"
mode = "goroutine"
color = false

[journal]
driver = "sqlite3"
dsn = "file:journal.db"
`,
		},
		{
			name: "yaml",
			file: "pyrt.yaml",
			content: `log_level: debug
log_file: pyrt.log
mode: goroutine
color: false
journal:
  driver: sqlite3
  dsn: file:journal.db
`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := LoadConfiguration(writeFile(t, c.file, c.content))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("configuration mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigurationKeepsDefaults(t *testing.T) {
	got, err := LoadConfiguration(writeFile(t, "partial.yml", "mode: goroutine\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfiguration()
	want.Mode = "goroutine"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLoadConfigurationErrors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown toml key", "bad.toml", "colour = true\n", "unknown key"},
		{"unknown yaml key", "bad.yaml", "colour: true\n", "parse"},
		{"broken toml", "broken.toml", "mode = \n", "parse"},
		{"unsupported", "pyrt.ini", "mode=process\n", "unsupported format"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeFile(t, c.file, c.content))
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, c.wantErr)
			}
		})
	}
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
