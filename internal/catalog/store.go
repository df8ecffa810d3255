package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"bioroute/internal/watcher"
)

// Options configures a Store
type Options struct {
	TechnologiesPath  string
	TemplatesPath     string
	VersionConstraint string
	Logger            *slog.Logger
}

// ReloadFunc is called after every reload attempt. snap is nil when err is set.
type ReloadFunc func(snap *Snapshot, err error)

// Store holds the current catalog snapshot. Readers never block; a reload
// swaps the pointer so calculations in flight keep the snapshot they took.
type Store struct {
	opts    Options
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger

	mu    sync.Mutex
	hooks []ReloadFunc
}

// NewStore loads the initial snapshot
func NewStore(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{opts: opts, logger: logger}

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	logger.Info("catalog loaded",
		"source", snap.Source,
		"version", snap.Catalog.Version(),
		"technologies", snap.Catalog.Len(),
		"templates", len(snap.Templates))
	return s, nil
}

// NewStaticStore wraps an existing snapshot. Reload keeps it unchanged.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{logger: slog.Default()}
	s.current.Store(snap)
	return s
}

// Current returns the active snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// OnReload registers fn to run after each reload attempt
func (s *Store) OnReload(fn ReloadFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Reload re-reads the configured files. On failure the previous snapshot
// stays active.
func (s *Store) Reload() error {
	if s.opts.TechnologiesPath == "" && s.opts.TemplatesPath == "" {
		return nil
	}

	snap, err := s.load()
	if err != nil {
		s.logger.Error("catalog reload failed, keeping previous version", "error", err)
	} else {
		s.current.Store(snap)
		s.logger.Info("catalog reloaded",
			"version", snap.Catalog.Version(),
			"technologies", snap.Catalog.Len())
	}

	s.mu.Lock()
	hooks := append([]ReloadFunc(nil), s.hooks...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(snap, err)
	}
	return err
}

// Watch reloads the catalog whenever one of its files changes. It returns
// immediately when the catalog is embedded.
func (s *Store) Watch(ctx context.Context) error {
	var paths []string
	for _, p := range []string{s.opts.TechnologiesPath, s.opts.TemplatesPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	w := watcher.New(s.logger, func(string) {
		_ = s.Reload()
	}, paths...)
	return w.Watch(ctx)
}

func (s *Store) load() (*Snapshot, error) {
	snap, err := Load(s.opts.TechnologiesPath, s.opts.TemplatesPath)
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(snap.Catalog.Version(), s.opts.VersionConstraint); err != nil {
		return nil, err
	}
	return snap, nil
}
