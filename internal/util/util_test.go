package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPosErrorFormat(t *testing.T) {
	err := &PosError{Line: 3, Column: 7, Msg: "unexpected token"}
	want := "[3:7] unexpected token"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestSourceContext(t *testing.T) {
	source := "x = 5\ny = @\nz = 7"
	got := SourceContext(source, 2, 5)
	if !strings.Contains(got, "2 | y = @") {
		t.Errorf("expected source line in context, got %q", got)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	caretCol := strings.Index(lines[1], "^")
	textCol := strings.Index(lines[0], "@")
	if caretCol != textCol {
		t.Errorf("caret at column %d, offending character at %d", caretCol, textCol)
	}
}

func TestSourceContextOutOfRange(t *testing.T) {
	if got := SourceContext("x = 5", 9, 1); got != "" {
		t.Errorf("expected empty context for out-of-range line, got %q", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `root_path = "/srv/scripts"
max_call_depth = 200
max_loop_iterations = 5000
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var config Configuration
	if err := config.LoadConfigFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.RootPath != "/srv/scripts" {
		t.Errorf("root_path = %q", config.RootPath)
	}
	if config.MaxCallDepth != 200 {
		t.Errorf("max_call_depth = %d", config.MaxCallDepth)
	}
	if config.MaxLoopIterations != 5000 {
		t.Errorf("max_loop_iterations = %d", config.MaxLoopIterations)
	}
	if config.LogLevel != "debug" {
		t.Errorf("log_level = %q", config.LogLevel)
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("max_call_dpeth = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var config Configuration
	err := config.LoadConfigFile(path)
	if err == nil {
		t.Fatal("expected an error for the misspelled key")
	}
	if !strings.Contains(err.Error(), "max_call_dpeth") {
		t.Errorf("expected the unknown key in the error, got %v", err)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	var config Configuration
	if err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
