// Package app wires together the adapters and domain logic.
// It provides lifecycle management for the chat server: create, start, stop.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"github.com/corey/awmit/content"
	"github.com/corey/awmit/internal/adapters/bbolt"
	fsw "github.com/corey/awmit/internal/adapters/fsnotify"
	"github.com/corey/awmit/internal/adapters/web"
	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/domain/engine"
	"github.com/corey/awmit/internal/logger"
	"github.com/corey/awmit/internal/ports"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// embeddedDir is the content directory inside content.FS.
const embeddedDir = "v1"

// Config holds the settings for creating an App.
type Config struct {
	Addr       string // listen address (default DefaultAddr)
	ContentDir string // content directory on disk; "" = embedded content
	Watch      bool   // reload when ContentDir changes
	DBPath     string // gap store path (default .awmit/gaps.db)
	NoGaps     bool   // disable gap recording
	LogMode    string // "dev" or "prod"
	LogLevel   string // zap level name

	Logger *logger.Logger // overrides LogMode and LogLevel when set
}

// App is the top-level container wiring all components together.
type App struct {
	Log     *logger.Logger
	Server  *web.Server
	Gaps    ports.GapStore // nil when gap recording is disabled
	Watcher ports.Watcher  // nil unless watching

	cfg     Config
	content fs.FS
	dir     string
	gaps    *gapRecorder
	engine  atomic.Pointer[engine.Engine]
	reloads atomic.Uint64
	started time.Time
}

// New loads the content and creates the app. The content must pass integrity
// checks; a broken bank is never served.
func New(cfg Config) (*App, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Watch && cfg.ContentDir == "" {
		return nil, errors.New("watch requires a content directory")
	}

	log := cfg.Logger
	if log == nil {
		var err error
		log, err = logger.New(cfg.LogMode, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	a := &App{Log: log, cfg: cfg}
	a.content, a.dir = contentFS(cfg.ContentDir)

	reg, err := bank.LoadRegistry(a.content, a.dir)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	if !cfg.NoGaps {
		if cfg.DBPath == "" {
			p := NewPaths(".")
			if err := p.EnsureDirs(); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			cfg.DBPath = p.DB
			a.cfg.DBPath = p.DB
		}
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open gap store: %w", err)
		}
		a.Gaps = store
	}
	a.gaps = newGapRecorder(a.Gaps, log)

	if cfg.Watch {
		w, err := fsw.NewWatcher(fsw.WithFilter(bank.IsContentFile))
		if err != nil {
			a.closeGaps()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		a.Watcher = w
	}

	a.engine.Store(a.newEngine(reg))
	a.Server = web.NewServer(a, log.With("component", "web"))
	return a, nil
}

// contentFS returns the filesystem and directory holding the bank files:
// dir on disk, or the embedded content when dir is "".
func contentFS(dir string) (fs.FS, string) {
	if dir == "" {
		return content.FS, embeddedDir
	}
	return os.DirFS(dir), "."
}

// LoadContent builds a registry from dir, or from the embedded content when
// dir is "".
func LoadContent(dir string) (*bank.Registry, error) {
	fsys, sub := contentFS(dir)
	return bank.LoadRegistry(fsys, sub)
}

func (a *App) newEngine(reg *bank.Registry) *engine.Engine {
	return engine.New(reg, engine.WithObserver(a.gaps))
}

// Engine returns the engine currently serving requests.
func (a *App) Engine() *engine.Engine {
	return a.engine.Load()
}

// Reloads returns how many successful reloads have happened since New.
func (a *App) Reloads() uint64 {
	return a.reloads.Load()
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.cfg
}

// Reload rebuilds the registry from the content directory and swaps it in.
// On failure the current registry keeps serving and the error is returned.
func (a *App) Reload() error {
	reg, err := bank.LoadRegistry(a.content, a.dir)
	if err != nil {
		a.Log.Error("content reload failed, keeping previous content", "error", err)
		return err
	}
	a.engine.Store(a.newEngine(reg))
	a.reloads.Add(1)

	st := reg.Stats()
	a.Log.Info("content reloaded",
		"categories", st.Categories,
		"courses", st.Courses,
		"answers", st.Answers,
	)
	return nil
}

// onContentChanged handles a debounced change event from the watcher.
func (a *App) onContentChanged(path string) {
	a.Log.Debug("content changed", "path", path)
	_ = a.Reload()
}

// Start begins serving HTTP and, when configured, watching content.
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Server.Start(a.cfg.Addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if a.Watcher != nil {
		// Non-fatal: the server keeps answering from the loaded content.
		if err := a.Watcher.Watch(a.cfg.ContentDir, a.onContentChanged); err != nil {
			a.Log.Warn("content watcher unavailable", "dir", a.cfg.ContentDir, "error", err)
		}
	}

	st := a.Engine().Registry().Stats()
	a.Log.Info("server started",
		"url", a.Server.URL(),
		"categories", st.Categories,
		"courses", st.Courses,
		"answers", st.Answers,
		"watch", a.Watcher != nil,
		"gaps", a.Gaps != nil,
	)
	return nil
}

// Stop shuts down all services and flushes pending gap records.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	a.Server.Stop()
	err := a.closeGaps()
	if dropped := a.gaps.Dropped(); dropped > 0 {
		a.Log.Warn("gap records dropped", "count", dropped)
	}
	a.Log.Info("server stopped", "uptime", time.Since(a.started).Round(time.Second).String())
	a.Log.Sync()
	return err
}

func (a *App) closeGaps() error {
	if a.gaps != nil {
		a.gaps.Close()
	}
	if a.Gaps == nil {
		return nil
	}
	if err := a.Gaps.Close(); err != nil {
		return fmt.Errorf("close gap store: %w", err)
	}
	return nil
}
