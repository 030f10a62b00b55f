package database

import (
	"context"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var _ interfaces.ThemeRepository = (*cachedThemeRepository)(nil)

const themeListCacheKey = "themes:all"

// cachedThemeRepository keeps themes in memory. Upsert drops the cached list.
type cachedThemeRepository struct {
	next   interfaces.ThemeRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCachedThemeRepository wraps a ThemeRepository with an in-process TTL cache.
func NewCachedThemeRepository(next interfaces.ThemeRepository, ttl time.Duration, logger *zap.Logger) interfaces.ThemeRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedThemeRepository{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.Named("ThemeCache"),
	}
}

func (r *cachedThemeRepository) List(ctx context.Context) ([]models.Theme, error) {
	if v, ok := r.cache.Get(themeListCacheKey); ok {
		return v.([]models.Theme), nil
	}
	themes, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(themeListCacheKey, themes)
	for i := range themes {
		t := themes[i]
		r.cache.SetDefault(t.ID.String(), &t)
	}
	return themes, nil
}

func (r *cachedThemeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	if v, ok := r.cache.Get(id.String()); ok {
		r.logger.Debug("Theme cache hit", zap.String("themeID", id.String()))
		return v.(*models.Theme), nil
	}
	theme, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(id.String(), theme)
	return theme, nil
}

func (r *cachedThemeRepository) Upsert(ctx context.Context, theme *models.Theme) error {
	if err := r.next.Upsert(ctx, theme); err != nil {
		return err
	}
	r.cache.Delete(themeListCacheKey)
	r.cache.Delete(theme.ID.String())
	return nil
}
