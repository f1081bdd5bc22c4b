// Package templatemap loads declarative mapping templates and applies them to
// structured input documents.
//
//	repo, err := templatemap.NewRepository(templatemap.WithBaseDir("templates"))
//	tpl, err := repo.Load(ctx, "post.yaml")
//	out := tpl.Map(frontmatter)
package templatemap

import (
	"github.com/goliatone/go-templatemap/internal/repository"
	"github.com/goliatone/go-templatemap/pkg/config"
	"github.com/goliatone/go-templatemap/pkg/template"
)

// Repository aliases template.Repository for callers that only import the
// root package.
type Repository = template.Repository

// Template aliases template.Template.
type Template = template.Template

// Option aliases template.RepositoryOption.
type Option = template.RepositoryOption

// Option constructors re-exported from pkg/template.
var (
	WithFileSystem    = template.WithFileSystem
	WithBaseDir       = template.WithBaseDir
	WithCacheCapacity = template.WithCacheCapacity
	WithTransforms    = template.WithTransforms
	WithLogger        = template.WithLogger
	WithMetrics       = template.WithMetrics
	WithWatch         = template.WithWatch
)

// NewRepository constructs a repository using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewRepository(options ...template.RepositoryOption) (template.Repository, error) {
	repo, err := repository.New(template.NewRepositoryOptions(options...))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// NewRepositoryFromConfig applies cfg first and extra afterwards, so explicit
// options win over file settings.
func NewRepositoryFromConfig(cfg *config.Config, extra ...template.RepositoryOption) (template.Repository, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := append(cfg.RepositoryOptions(), extra...)
	return NewRepository(options...)
}
