package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var sf singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingTemplateRepository decorates a TemplateRepository with a
// read-through cache. Template bodies are read on every report generation
// but change rarely, so they cache well.
type CachingTemplateRepository struct {
	inner ports.TemplateRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingTemplateRepository(inner ports.TemplateRepository, cache ports.Cache, ttl time.Duration) ports.TemplateRepository {
	return &CachingTemplateRepository{inner: inner, cache: cache, ttl: ttl}
}

func templateKey(id uuid.UUID) string        { return fmt.Sprintf("template:%s", id) }
func templateListKey(owner uuid.UUID) string { return fmt.Sprintf("templates:owner:%s", owner) }

func (r *CachingTemplateRepository) Create(ctx context.Context, t *template.Template) error {
	if err := r.inner.Create(ctx, t); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateListKey(t.OwnerID))
	return nil
}

func (r *CachingTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	if v, ok := cacheGet[template.Template](r.cache, ctx, templateKey(id)); ok {
		return v, nil
	}
	t, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSetSilently(r.cache, ctx, templateKey(id), t, r.ttl)
	return t, nil
}

func (r *CachingTemplateRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error) {
	listKey := templateListKey(ownerID)
	if v, ok := cacheGet[[]*template.Template](r.cache, ctx, listKey); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(listKey, func() (any, error) {
		if v, ok := cacheGet[[]*template.Template](r.cache, ctx, listKey); ok {
			return *v, nil
		}
		all, err := r.inner.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(r.cache, ctx, listKey, all, r.ttl)
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	all, ok := res.([]*template.Template)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return all, nil
}

func (r *CachingTemplateRepository) Update(ctx context.Context, t *template.Template) error {
	if err := r.inner.Update(ctx, t); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateKey(t.ID))
	_ = r.cache.Delete(ctx, templateListKey(t.OwnerID))
	return nil
}

func (r *CachingTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Load before delete so the owner's list entry can be invalidated too.
	t, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateKey(id))
	_ = r.cache.Delete(ctx, templateListKey(t.OwnerID))
	return nil
}

// CachingProjectRepository decorates a ProjectRepository with a
// read-through cache on single-record reads. List reads are paginated and
// short-lived, so they go straight through.
type CachingProjectRepository struct {
	inner ports.ProjectRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingProjectRepository(inner ports.ProjectRepository, cache ports.Cache, ttl time.Duration) ports.ProjectRepository {
	return &CachingProjectRepository{inner: inner, cache: cache, ttl: ttl}
}

func projectKey(id uuid.UUID) string { return fmt.Sprintf("project:%s", id) }

func (r *CachingProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.inner.Create(ctx, p)
}

func (r *CachingProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if v, ok := cacheGet[project.Project](r.cache, ctx, projectKey(id)); ok {
		return v, nil
	}
	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSetSilently(r.cache, ctx, projectKey(id), p, r.ttl)
	return p, nil
}

func (r *CachingProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error) {
	return r.inner.ListByOwner(ctx, ownerID, limit, offset)
}

func (r *CachingProjectRepository) Update(ctx context.Context, p *project.Project) error {
	if err := r.inner.Update(ctx, p); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, projectKey(p.ID))
	return nil
}

func (r *CachingProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, projectKey(id))
	return nil
}
