// Package main is the entry point for the quill editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/project/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the command line.
type options struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
	ReadOnly   bool
	Files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration:\n%v\n", err)
		return 1
	}

	logOut := io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	log := logging.New(cfg.LoggingConfig(logOut))
	defer func() { _ = log.Sync() }()
	log.Info("quill %s starting", version)

	w := newWatcher(cfg, log)
	if w != nil {
		defer w.Close()
	}
	reg := newRegistry(cfg, log, w)

	bufs := openFiles(reg, opts.Files, log)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnablePaste()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// File events and signals reach the editor through the screen's event
	// queue so that buffers are only touched by the UI loop.
	if w != nil {
		d := watcher.NewEventDispatcher()
		d.OnEvent(func(ev watcher.Event) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(ev))
		})
		d.OnError(func(err error) {
			log.Warn("watcher: %v", err)
		})
		go d.Run(ctx, w)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case sig := <-signals:
			_ = screen.PostEvent(tcell.NewEventInterrupt(sig))
		case <-ctx.Done():
		}
	}()

	ed := newEditor(screen, reg, bufs[0], log, cfg.Editor.TabSize)
	ed.run()

	log.Info("quill exiting")
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open files in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open files in read-only mode (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "quill - terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-Z undo   Ctrl-Y redo   Ctrl-B next undo branch\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S save   Ctrl-R reload Ctrl-N next buffer   Ctrl-Q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("quill %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		if _, ok := logging.LookupLevel(opts.LogLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	opts.Files = flag.Args()
	return opts
}

// apply overlays the command line onto cfg.
func (o options) apply(cfg *config.Config) {
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.ReadOnly {
		cfg.Editor.ReadOnly = true
	}
}

// newWatcher returns a debounced file watcher, or nil when watching is
// disabled or unavailable.
func newWatcher(cfg *config.Config, log *logging.Logger) watcher.Watcher {
	if !cfg.Files.Watch {
		return nil
	}
	fw, err := watcher.NewFileWatcher()
	if err != nil {
		log.Warn("file watching disabled: %v", err)
		return nil
	}
	delay := time.Duration(cfg.Files.WatchDebounceMs) * time.Millisecond
	if delay <= 0 {
		return fw
	}
	return watcher.NewDebouncedWatcher(fw, delay)
}

func newRegistry(cfg *config.Config, log *logging.Logger, w watcher.Watcher) *buffer.Registry {
	opts := []buffer.RegistryOption{
		buffer.WithBufferOptions(
			buffer.WithLogger(log.WithComponent("buffer")),
			buffer.WithReadOnly(cfg.Editor.ReadOnly),
			buffer.WithAtomicSave(cfg.Files.AtomicSave),
			buffer.WithPieceTableOptions(cfg.PieceTableOptions()...),
			buffer.WithHistoryOptions(cfg.HistoryOptions()...),
		),
	}
	if w != nil {
		opts = append(opts, buffer.WithWatcher(w))
	}
	return buffer.NewRegistry(opts...)
}

// openFiles opens every path, falling back to a scratch buffer. Buffers
// that failed to load are still returned, bound to their path.
func openFiles(reg *buffer.Registry, paths []string, log *logging.Logger) []*buffer.Buffer {
	var bufs []*buffer.Buffer
	for _, p := range paths {
		b, err := reg.Open(p)
		if err != nil {
			log.Error("open %s: %v", p, err)
		}
		bufs = append(bufs, b)
	}
	if len(bufs) == 0 {
		bufs = append(bufs, reg.Create("scratch"))
	}
	return bufs
}
