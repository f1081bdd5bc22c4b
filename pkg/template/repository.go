package template

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage labels used when wrapping repository failures.
const (
	StagePathValidation    = "path validation"
	StageTemplateCreation  = "template creation"
	StageMappingExtraction = "mapping extraction"
	StageTemplateLoading   = "template loading"
)

// Repository loads, caches and stores templates. Implementations live under
// internal/repository; construct one with templatemap.NewRepository.
//
// Every non-nil error is a domainerr.Error, usually wrapped in a
// *domainerr.Annotated that carries the diagnostic context.
type Repository interface {
	// Load returns the template at path. Repeated loads of the same path
	// return the same *Template until it is evicted.
	Load(ctx context.Context, path string) (*Template, error)
	// Save writes the template body to path and caches the entity.
	Save(ctx context.Context, path string, t *Template) error
	// Validate is a shallow structural check.
	Validate(t *Template) error
	// Exists reports whether path is present. Not found is not an error.
	Exists(ctx context.Context, path string) (bool, error)
	// BaseDirectory is the root relative paths resolve against.
	BaseDirectory() (string, error)
	Evict(path string) bool
	ClearCache()
	CacheStats() CacheStats
	// Close releases the file watcher, if any.
	Close() error
}

// CacheStats is a snapshot of the cache.
type CacheStats struct {
	Size int
	// Keys are in insertion order for the unbounded cache and least recently
	// used first for the bounded one.
	Keys []string
}

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	// FileSystem switches reads to an abstract filesystem. Repositories backed
	// by an fs.FS are read-only.
	FileSystem fs.FS

	// BaseDir anchors relative paths on the OS filesystem. Empty means the
	// working directory.
	BaseDir string

	// CacheCapacity bounds the cache with LRU eviction. Zero means unbounded.
	CacheCapacity int

	// Transforms resolves transform names found in mapping entries.
	Transforms Transforms

	Logger *slog.Logger

	// MetricsRegisterer receives the cache collectors when set.
	MetricsRegisterer prometheus.Registerer

	// Watch evicts cached templates when their file changes. Only honoured
	// for the OS filesystem.
	Watch bool
}

// RepositoryOption mutates RepositoryOptions prior to construction.
type RepositoryOption func(*RepositoryOptions)

// WithFileSystem reads templates from files.
func WithFileSystem(files fs.FS) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.FileSystem = files
	}
}

// WithBaseDir resolves relative template paths under dir.
func WithBaseDir(dir string) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.BaseDir = dir
	}
}

// WithCacheCapacity bounds the cache. Values <= 0 keep it unbounded.
func WithCacheCapacity(capacity int) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.CacheCapacity = capacity
	}
}

// WithTransforms adds named transforms on top of the defaults.
func WithTransforms(extra Transforms) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.Transforms = opts.Transforms.With(extra)
	}
}

func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.Logger = logger
	}
}

// WithMetrics registers cache collectors on reg.
func WithMetrics(reg prometheus.Registerer) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.MetricsRegisterer = reg
	}
}

// WithWatch toggles file watching.
func WithWatch(enabled bool) RepositoryOption {
	return func(opts *RepositoryOptions) {
		opts.Watch = enabled
	}
}

// NewRepositoryOptions applies options over the defaults.
func NewRepositoryOptions(options ...RepositoryOption) RepositoryOptions {
	cfg := RepositoryOptions{
		Transforms: DefaultTransforms(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Transforms == nil {
		cfg.Transforms = DefaultTransforms()
	}
	return cfg
}
