// Package config loads editor settings.
//
// Settings are layered, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. A settings file in TOML (.toml) or YAML (.yaml, .yml)
//  3. Environment variables
//
// Command line flags are applied by the caller on top.
//
// # Basic Usage
//
//	cfg, err := config.Load("~/.config/quill/settings.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A missing settings file is not an error; the defaults are used.
//
// # Environment Variables
//
//	QUILL_LOG_LEVEL    log.level
//	QUILL_READONLY     editor.readOnly
//	QUILL_ATOMIC_SAVE  files.atomicSave
//
// # Engine Limits
//
// The engine section maps onto piece table and undo tree options through
// PieceTableOptions and HistoryOptions. Zero means unlimited.
package config
