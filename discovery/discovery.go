// Package discovery finds and registers processing steps: the builtins
// plus any WASM step modules in the configured modules directory.
//
// Loading is best effort. A missing directory, an unreadable manifest, or
// a module that fails to load never aborts discovery; each problem is
// logged as a warning and the remaining steps stay usable.
package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/step"
	"github.com/teranos/hdcat/steps"
	"github.com/teranos/hdcat/wasmstep"
)

// Loader registers steps into a registry exactly once.
type Loader struct {
	mu      sync.Mutex
	reg     *step.Registry
	dir     string
	loaded  bool
	modules []*wasmstep.Module
}

// New creates a loader that scans dir for WASM step modules. An empty dir
// disables external discovery; the builtins still register.
func New(reg *step.Registry, dir string) *Loader {
	return &Loader{reg: reg, dir: dir}
}

// Load registers the builtin steps and every loadable module under the
// configured directory, then returns the sorted registered step names.
// Repeat calls are no-ops that return the current names, so steps are
// registered exactly once no matter how often loading is triggered.
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.loaded {
		return l.reg.Names(), nil
	}

	steps.RegisterBuiltins(l.reg)

	if err := l.scan(ctx); err != nil {
		return l.reg.Names(), err
	}

	l.loaded = true
	names := l.reg.Names()
	logger.Debugw("Step discovery complete",
		logger.FieldCount, len(names),
		logger.FieldPath, l.dir)
	return names, nil
}

// Loaded reports whether discovery already ran.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Close releases every loaded module.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, m := range l.modules {
		if err := m.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.modules = nil
	return firstErr
}

// scan loads *.wasm modules from the directory. Problems with individual
// modules downgrade to warnings; only context cancellation propagates.
func (l *Loader) scan(ctx context.Context) error {
	if l.dir == "" {
		logger.Debugw("Step modules location not configured")
		return nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		logger.Warnw("Step modules location unavailable",
			logger.FieldPath, l.dir,
			logger.FieldError, err)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wasm") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())

		manifest, err := wasmstep.LoadManifest(wasmstep.ManifestPath(path))
		if err != nil {
			logger.Warnw("Skipping step module with unreadable manifest",
				logger.FieldModule, path,
				logger.FieldError, err)
			continue
		}
		if !manifest.Enabled {
			logger.Infow("Skipping disabled step module", logger.FieldModule, path)
			continue
		}

		m, err := wasmstep.Load(ctx, path)
		if err != nil {
			logger.Warnw("Failed to load step module",
				logger.FieldModule, path,
				logger.FieldError, err)
			continue
		}

		l.modules = append(l.modules, m)
		l.reg.Register(m)
		logger.Infow("Loaded step module",
			logger.FieldStep, m.Name(),
			logger.FieldModule, path)
	}

	return nil
}
