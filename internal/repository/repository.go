// Package repository implements template.Repository on top of the OS
// filesystem or an fs.FS.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-templatemap/internal/parser"
	"github.com/goliatone/go-templatemap/internal/watch"
	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/errctx"
	"github.com/goliatone/go-templatemap/pkg/template"
)

// Repository caches parsed templates keyed by their cleaned path.
type Repository struct {
	storage storage
	parser  *parser.Parser
	logger  *slog.Logger
	metrics *repositoryMetrics

	mu    sync.Mutex
	cache store
	group singleflight.Group
	// epoch and gens are bumped by ClearCache and Evict so that a load which
	// started before the invalidation does not store what it read.
	epoch uint64
	gens  map[string]uint64

	watcher *watch.Watcher
	// watched maps absolute file paths back to cache keys.
	watched map[string]string
}

// Ensure the implementation satisfies the public interface.
var _ template.Repository = (*Repository)(nil)

// New constructs a Repository from pre-resolved options.
func New(options template.RepositoryOptions) (*Repository, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var st storage = osStorage{dir: options.BaseDir}
	if options.FileSystem != nil {
		st = fsStorage{files: options.FileSystem}
	}

	var cache store = newOrderedStore()
	if options.CacheCapacity > 0 {
		bounded, err := newLRUStore(options.CacheCapacity)
		if err != nil {
			return nil, fmt.Errorf("repository: cache: %w", err)
		}
		cache = bounded
	}

	metrics, err := newRepositoryMetrics(options.MetricsRegisterer)
	if err != nil {
		return nil, fmt.Errorf("repository: metrics: %w", err)
	}

	r := &Repository{
		storage: st,
		parser:  parser.New(options.Transforms),
		logger:  logger,
		metrics: metrics,
		cache:   cache,
		gens:    map[string]uint64{},
		watched: map[string]string{},
	}

	if options.Watch {
		if options.FileSystem != nil {
			logger.Warn("template watching requires the OS filesystem, skipping")
		} else {
			w, err := watch.New(r.invalidate, logger)
			if err != nil {
				return nil, fmt.Errorf("repository: watch: %w", err)
			}
			r.watcher = w
		}
	}
	return r, nil
}

// Load returns the cached template for path, reading and parsing it on a
// miss. Concurrent misses on the same path share one read.
func (r *Repository) Load(ctx context.Context, raw string) (*template.Template, error) {
	path, err := template.NewPath(raw)
	if err != nil {
		return nil, r.fail("load", raw, domainerr.Stage(template.StagePathValidation, asDomain(err)))
	}
	key := path.String()

	if tpl, ok := r.cached(key); ok {
		r.metrics.recordHit()
		r.logger.Debug("template cache hit", "path", key)
		return tpl, nil
	}
	r.metrics.recordMiss()
	r.logger.Debug("template cache miss", "path", key)

	v, err, _ := r.group.Do(key, func() (any, error) {
		if tpl, ok := r.cached(key); ok {
			return tpl, nil
		}
		st := r.stampOf(key)
		// Watch before reading so a write racing the read still evicts.
		r.track(key)
		tpl, err := r.loadUncached(ctx, path)
		if err != nil {
			return nil, err
		}
		r.metrics.recordLoad()
		if !r.storeIfCurrent(key, st, tpl) {
			r.logger.Debug("template invalidated during load, not caching", "path", key)
		}
		return tpl, nil
	})
	if err != nil {
		return nil, r.fail("load", key, asDomain(err))
	}
	return v.(*template.Template), nil
}

func (r *Repository) loadUncached(ctx context.Context, path template.Path) (tpl *template.Template, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			tpl = nil
			err = domainerr.Stage(template.StageTemplateLoading, &domainerr.InvalidResponse{
				Service:  "template loader",
				Response: fmt.Sprint(rec),
			})
		}
	}()

	content, readErr := r.storage.read(ctx, path.String())
	if readErr != nil {
		return nil, &domainerr.ReadError{Path: path.String(), Details: readErr.Error()}
	}
	return r.parser.Parse(path, content)
}

// Save writes the template body to path and caches t under it.
func (r *Repository) Save(ctx context.Context, raw string, t *template.Template) error {
	path, err := template.NewPath(raw)
	if err != nil {
		return r.fail("save", raw, domainerr.Stage(template.StagePathValidation, asDomain(err)))
	}
	key := path.String()
	if err := r.Validate(t); err != nil {
		return r.fail("save", key, asDomain(err))
	}

	if err := r.storage.write(ctx, key, []byte(t.Format().Template())); err != nil {
		return r.fail("save", key, &domainerr.WriteError{Path: key, Details: err.Error()})
	}

	r.store(key, t)
	r.track(key)
	r.logger.Debug("template saved", "path", key)
	return nil
}

// Validate checks that t has an id and a format.
func (r *Repository) Validate(t *template.Template) error {
	if t == nil {
		return &domainerr.MissingRequiredField{Fields: []string{"id", "format"}}
	}
	var missing []string
	if t.ID() == "" {
		missing = append(missing, "id")
	}
	if t.Format().IsZero() {
		missing = append(missing, "format")
	}
	if len(missing) > 0 {
		return &domainerr.MissingRequiredField{Fields: missing}
	}
	return nil
}

// Exists stats raw. A missing file yields false without an error.
func (r *Repository) Exists(ctx context.Context, raw string) (bool, error) {
	path, err := template.NewPath(raw)
	if err != nil {
		return false, r.fail("exists", raw, domainerr.Stage(template.StagePathValidation, asDomain(err)))
	}
	if err := r.storage.stat(ctx, path.String()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, r.fail("exists", path.String(), &domainerr.ReadError{Path: path.String(), Details: err.Error()})
	}
	return true, nil
}

// BaseDirectory returns the configured base directory, the working directory
// or "." for fs.FS backed repositories.
func (r *Repository) BaseDirectory() (string, error) {
	dir, err := r.storage.base()
	if err != nil {
		return "", &domainerr.ReadError{Path: ".", Details: err.Error()}
	}
	return dir, nil
}

// Evict drops the entry for raw and reports whether one existed.
func (r *Repository) Evict(raw string) bool {
	path, err := template.NewPath(raw)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.gens[path.String()]++
	removed := r.cache.remove(path.String())
	size := r.cache.len()
	r.mu.Unlock()

	if removed {
		r.metrics.recordEviction()
		r.metrics.updateSize(size)
		r.logger.Debug("template evicted", "path", path.String())
	}
	return removed
}

func (r *Repository) ClearCache() {
	r.mu.Lock()
	r.epoch++
	r.gens = map[string]uint64{}
	r.cache.purge()
	r.mu.Unlock()
	r.metrics.updateSize(0)
	r.logger.Debug("template cache cleared")
}

func (r *Repository) CacheStats() template.CacheStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return template.CacheStats{Size: r.cache.len(), Keys: r.cache.keys()}
}

// Close stops the watcher. The cache stays usable.
func (r *Repository) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

func (r *Repository) cached(key string) (*template.Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.get(key)
}

func (r *Repository) store(key string, tpl *template.Template) {
	r.mu.Lock()
	r.cache.put(key, tpl)
	size := r.cache.len()
	r.mu.Unlock()
	r.metrics.updateSize(size)
}

// stamp identifies the invalidation state of one key.
type stamp struct {
	epoch uint64
	gen   uint64
}

func (r *Repository) stampOf(key string) stamp {
	r.mu.Lock()
	defer r.mu.Unlock()
	return stamp{epoch: r.epoch, gen: r.gens[key]}
}

// storeIfCurrent caches tpl unless key was invalidated after s was taken.
func (r *Repository) storeIfCurrent(key string, s stamp, tpl *template.Template) bool {
	r.mu.Lock()
	if r.epoch != s.epoch || r.gens[key] != s.gen {
		r.mu.Unlock()
		return false
	}
	r.cache.put(key, tpl)
	size := r.cache.len()
	r.mu.Unlock()
	r.metrics.updateSize(size)
	return true
}

func (r *Repository) track(key string) {
	if r.watcher == nil {
		return
	}
	abs := r.storage.resolve(key)
	if abs == "" {
		return
	}
	if err := r.watcher.Add(abs); err != nil {
		r.logger.Warn("template watch failed", "path", key, "error", err)
		return
	}
	r.mu.Lock()
	r.watched[abs] = key
	r.mu.Unlock()
}

func (r *Repository) invalidate(abs string) {
	r.mu.Lock()
	key, ok := r.watched[abs]
	r.mu.Unlock()
	if ok {
		r.Evict(key)
	}
}

// fail attaches a template error context, logs and counts the failure.
func (r *Repository) fail(operation, location string, err domainerr.Error) error {
	ctx := errctx.TemplateError(location, operation, err)
	if stages := domainerr.Stages(err); len(stages) > 0 {
		ctx.Decisions = append(ctx.Decisions, "failed at stage "+stages[len(stages)-1])
	}
	kind := string(domainerr.Root(err).Kind())
	r.metrics.recordFailure(operation, kind)
	r.logger.Warn("template operation failed",
		"operation", operation,
		"path", location,
		"kind", kind,
		"error", err,
	)
	return domainerr.Annotate(err, ctx)
}

func asDomain(err error) domainerr.Error {
	if de, ok := domainerr.As(err); ok {
		return de
	}
	return &domainerr.InvalidResponse{Service: "template loader", Response: err.Error()}
}
