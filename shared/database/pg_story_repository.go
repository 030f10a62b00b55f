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

var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a new PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (user_id, theme_id, character_name, plot_text, plot_image_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		story.UserID, story.ThemeID, story.CharacterName, story.PlotText, story.PlotImagePath,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create story", zap.Error(err), zap.String("userID", story.UserID.String()))
		return fmt.Errorf("failed to create story: %w", err)
	}
	r.logger.Info("Story created", zap.String("storyID", story.ID.String()), zap.String("userID", story.UserID.String()))
	return nil
}

func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	query := `
		SELECT s.id, s.user_id, s.theme_id, t.name AS theme_name, s.character_name, s.plot_text,
		       s.plot_image_path, s.pdf_path, s.dispatch_claimed, s.email_sent, s.created_at, s.updated_at
		FROM stories s
		JOIN themes t ON t.id = s.theme_id
		WHERE s.id = $1`
	story := &models.Story{}
	if err := pgxscan.Get(ctx, r.db, story, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Story not found", zap.String("storyID", id.String()))
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story", zap.Error(err), zap.String("storyID", id.String()))
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return story, nil
}

// setOnce runs a guarded single-row UPDATE and reports whether it matched.
func (r *pgStoryRepository) setOnce(ctx context.Context, op, query string, args ...any) (bool, error) {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Guarded story update failed", zap.String("op", op), zap.Error(err))
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgStoryRepository) SetPlotImagePath(ctx context.Context, id uuid.UUID, path string) (bool, error) {
	return r.setOnce(ctx, "set plot image path",
		`UPDATE stories SET plot_image_path = $2, updated_at = NOW() WHERE id = $1 AND plot_image_path IS NULL`, id, path)
}

func (r *pgStoryRepository) SetPDFPath(ctx context.Context, id uuid.UUID, path string) (bool, error) {
	return r.setOnce(ctx, "set pdf path",
		`UPDATE stories SET pdf_path = $2, updated_at = NOW() WHERE id = $1 AND pdf_path IS NULL`, id, path)
}

func (r *pgStoryRepository) ClaimDispatch(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.setOnce(ctx, "claim dispatch",
		`UPDATE stories SET dispatch_claimed = TRUE, updated_at = NOW() WHERE id = $1 AND dispatch_claimed = FALSE`, id)
}

func (r *pgStoryRepository) ReleaseDispatch(ctx context.Context, id uuid.UUID) error {
	_, err := r.setOnce(ctx, "release dispatch",
		`UPDATE stories SET dispatch_claimed = FALSE, updated_at = NOW() WHERE id = $1 AND email_sent = FALSE`, id)
	return err
}

func (r *pgStoryRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.setOnce(ctx, "mark email sent",
		`UPDATE stories SET email_sent = TRUE, updated_at = NOW() WHERE id = $1 AND email_sent = FALSE`, id)
}
