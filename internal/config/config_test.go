package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/quill/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if !cfg.Files.AtomicSave {
		t.Error("AtomicSave should default to true")
	}
	if cfg.Editor.TabSize != 4 {
		t.Errorf("TabSize = %d, want 4", cfg.Editor.TabSize)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "settings.toml", `
[log]
level = "debug"
format = "json"

[editor]
tabSize = 2

[engine]
maxUndoNodes = 500
maxPieces = 10000
`)

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := Default()
	want.Log.Level = "debug"
	want.Log.Format = "json"
	want.Editor.TabSize = 2
	want.Engine.MaxUndoNodes = 500
	want.Engine.MaxPieces = 10000

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"settings.yaml", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
editor:
  readOnly: true
files:
  atomicSave: false
  watchDebounceMs: 250
`)
			cfg := Default()
			if err := cfg.LoadFile(path); err != nil {
				t.Fatalf("LoadFile: %v", err)
			}

			want := Default()
			want.Editor.ReadOnly = true
			want.Files.AtomicSave = false
			want.Files.WatchDebounceMs = 250

			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", "\n")
	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config changed (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.TabSize != Default().Editor.TabSize {
		t.Errorf("TabSize = %d, want default", cfg.Editor.TabSize)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		parse   bool
		target  error
	}{
		{"toml syntax", "bad.toml", "[log\nlevel = 1", true, nil},
		{"toml unknown field", "bad.toml", "[editor]\ntabWidth = 2\n", true, nil},
		{"toml wrong type", "bad.toml", "[editor]\ntabSize = \"two\"\n", true, nil},
		{"yaml unknown field", "bad.yaml", "editor:\n  tabWidth: 2\n", true, nil},
		{"yaml syntax", "bad.yaml", "editor: [\n", true, nil},
		{"unsupported", "settings.json", "{}", false, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			err := Default().LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if got := errors.As(err, &pe); got != tt.parse {
				t.Errorf("errors.As(ParseError) = %v, want %v (err: %v)", got, tt.parse, err)
			}
			if pe != nil && pe.Path != path {
				t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestTOMLParseErrorPosition(t *testing.T) {
	path := writeFile(t, "bad.toml", "[log]\nlevel = \n")
	err := Default().LoadFile(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "oops"}, "parse error in a.toml at line 3, column 7: oops"},
		{&ParseError{Path: "a.yaml", Line: 3, Message: "oops"}, "parse error in a.yaml at line 3: oops"},
		{&ParseError{Path: "a.toml", Message: "oops"}, "parse error in a.toml: oops"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:   "WARN",
		EnvReadOnly:   "true",
		EnvAtomicSave: "0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if !cfg.Editor.ReadOnly {
		t.Error("ReadOnly should be true")
	}
	if cfg.Files.AtomicSave {
		t.Error("AtomicSave should be false")
	}
}

func TestApplyEnvInvalidBool(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == EnvReadOnly {
			return "maybe", true
		}
		return "", false
	}
	err := Default().ApplyEnv(lookup)
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("ApplyEnv error = %v, want ErrValidationFailed", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "settings.toml", "[log]\nlevel = \"debug\"\n")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		paths  []string
	}{
		{"valid", func(*Config) {}, nil},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, []string{"log.level"}},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format"}},
		{"tab too small", func(c *Config) { c.Editor.TabSize = 0 }, []string{"editor.tabSize"}},
		{"tab too large", func(c *Config) { c.Editor.TabSize = 17 }, []string{"editor.tabSize"}},
		{"negative limits", func(c *Config) {
			c.Engine.MaxPieces = -1
			c.Engine.MaxUndoNodes = -5
		}, []string{"engine.maxPieces", "engine.maxUndoNodes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.paths == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}

			var got []string
			for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
				var ve *ValidationError
				if errors.As(e, &ve) {
					got = append(got, ve.Path)
				}
			}
			if diff := cmp.Diff(tt.paths, got); diff != "" {
				t.Errorf("invalid paths (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	lc := cfg.LoggingConfig(nil)
	if lc.Level != logging.LevelWarn {
		t.Errorf("Level = %v, want warn", lc.Level)
	}
	if lc.Format != logging.FormatJSON {
		t.Errorf("Format = %v, want json", lc.Format)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	if got := len(cfg.PieceTableOptions()); got != 3 {
		t.Errorf("len(PieceTableOptions()) = %d, want 3", got)
	}
	if got := len(cfg.HistoryOptions()); got != 2 {
		t.Errorf("len(HistoryOptions()) = %d, want 2", got)
	}
}
