package config

import (
	"io"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/piecetable"
	"github.com/dshills/quill/internal/logging"
)

// Config holds all editor settings.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Files  FilesConfig  `toml:"files" yaml:"files"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// Format is console or json.
	Format string `toml:"format" yaml:"format"`
	// File receives log output. Empty discards it, since the terminal
	// belongs to the editor.
	File string `toml:"file" yaml:"file"`
}

// EditorConfig holds editing behavior.
type EditorConfig struct {
	TabSize  int  `toml:"tabSize" yaml:"tabSize"`
	ReadOnly bool `toml:"readOnly" yaml:"readOnly"`
}

// EngineConfig holds piece table and undo tree limits.
type EngineConfig struct {
	AddBufferMin     int `toml:"addBufferMin" yaml:"addBufferMin"`
	MaxAddBytes      int `toml:"maxAddBytes" yaml:"maxAddBytes"`
	MaxPieces        int `toml:"maxPieces" yaml:"maxPieces"`
	MaxUndoNodes     int `toml:"maxUndoNodes" yaml:"maxUndoNodes"`
	MaxUndoTextBytes int `toml:"maxUndoTextBytes" yaml:"maxUndoTextBytes"`
}

// FilesConfig holds file handling settings.
type FilesConfig struct {
	// AtomicSave writes to a temporary file and renames it over the target.
	AtomicSave bool `toml:"atomicSave" yaml:"atomicSave"`
	// Watch reports changes made to open files by other programs.
	Watch bool `toml:"watch" yaml:"watch"`
	// WatchDebounceMs coalesces bursts of file events.
	WatchDebounceMs int `toml:"watchDebounceMs" yaml:"watchDebounceMs"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatConsole),
		},
		Editor: EditorConfig{
			TabSize: 4,
		},
		Engine: EngineConfig{
			AddBufferMin: piecetable.DefaultAddCapacity,
		},
		Files: FilesConfig{
			AtomicSave:      true,
			Watch:           true,
			WatchDebounceMs: 100,
		},
	}
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var v validator

	if c.Log.Level != "" {
		if _, ok := logging.LookupLevel(c.Log.Level); !ok {
			v.add("log.level", c.Log.Level, "must be debug, info, warn or error")
		}
	}
	switch logging.Format(c.Log.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		v.add("log.format", c.Log.Format, "must be console or json")
	}
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		v.add("editor.tabSize", c.Editor.TabSize, "must be between 1 and 16")
	}
	v.nonNegative("engine.addBufferMin", c.Engine.AddBufferMin)
	v.nonNegative("engine.maxAddBytes", c.Engine.MaxAddBytes)
	v.nonNegative("engine.maxPieces", c.Engine.MaxPieces)
	v.nonNegative("engine.maxUndoNodes", c.Engine.MaxUndoNodes)
	v.nonNegative("engine.maxUndoTextBytes", c.Engine.MaxUndoTextBytes)
	v.nonNegative("files.watchDebounceMs", c.Files.WatchDebounceMs)

	return v.err()
}

// PieceTableOptions returns the piece table options for the engine limits.
func (c *Config) PieceTableOptions() []piecetable.Option {
	return []piecetable.Option{
		piecetable.WithAddCapacity(c.Engine.AddBufferMin),
		piecetable.WithMaxAddBytes(c.Engine.MaxAddBytes),
		piecetable.WithMaxPieces(c.Engine.MaxPieces),
	}
}

// HistoryOptions returns the undo tree options for the engine limits.
func (c *Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithMaxNodes(c.Engine.MaxUndoNodes),
		history.WithMaxTextBytes(c.Engine.MaxUndoTextBytes),
	}
}

// LoggingConfig returns the logger configuration writing to out.
func (c *Config) LoggingConfig(out io.Writer) logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Log.Level)
	if c.Log.Format != "" {
		lc.Format = logging.Format(c.Log.Format)
	}
	lc.Output = out
	return lc
}
