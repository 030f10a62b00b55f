package database

import (
	"context"
	"errors"
	"fmt"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.ThemeRepository = (*pgThemeRepository)(nil)

type pgThemeRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgThemeRepository creates a new PostgreSQL-backed ThemeRepository.
func NewPgThemeRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ThemeRepository {
	return &pgThemeRepository{
		db:     db,
		logger: logger.Named("PgThemeRepo"),
	}
}

const themeColumns = `id, name, description, created_at, updated_at`

func (r *pgThemeRepository) List(ctx context.Context) ([]models.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes ORDER BY name`
	var themes []models.Theme
	if err := pgxscan.Select(ctx, r.db, &themes, query); err != nil {
		r.logger.Error("Failed to list themes", zap.Error(err))
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	return themes, nil
}

func (r *pgThemeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes WHERE id = $1`
	theme := &models.Theme{}
	err := r.db.QueryRow(ctx, query, id).Scan(&theme.ID, &theme.Name, &theme.Description, &theme.CreatedAt, &theme.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Theme not found", zap.String("themeID", id.String()))
			return nil, models.ErrThemeNotFound
		}
		r.logger.Error("Failed to get theme", zap.Error(err), zap.String("themeID", id.String()))
		return nil, fmt.Errorf("failed to get theme %s: %w", id, err)
	}
	return theme, nil
}

func (r *pgThemeRepository) Upsert(ctx context.Context, theme *models.Theme) error {
	query := `
		INSERT INTO themes (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, theme.Name, theme.Description).Scan(&theme.ID, &theme.CreatedAt, &theme.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert theme", zap.Error(err), zap.String("name", theme.Name))
		return fmt.Errorf("failed to upsert theme %q: %w", theme.Name, err)
	}
	r.logger.Info("Theme upserted", zap.String("themeID", theme.ID.String()), zap.String("name", theme.Name))
	return nil
}
