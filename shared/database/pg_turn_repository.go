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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var _ interfaces.TurnRepository = (*pgTurnRepository)(nil)

const uniqueViolationCode = "23505"

type pgTurnRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgTurnRepository creates a new PostgreSQL-backed TurnRepository.
func NewPgTurnRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.TurnRepository {
	return &pgTurnRepository{
		db:     db,
		logger: logger.Named("PgTurnRepo"),
	}
}

const turnColumns = `id, story_id, turn_index, user_input, ai_response, user_img_path, ai_img_path, created_at, updated_at`

func (r *pgTurnRepository) Create(ctx context.Context, turn *models.StoryTurn) error {
	query := `
		INSERT INTO story_turns (story_id, turn_index, user_input, ai_response)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, turn.StoryID, turn.TurnIndex, turn.UserInput, turn.AIResponse).
		Scan(&turn.ID, &turn.CreatedAt, &turn.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.Warn("Turn index already taken",
				zap.String("storyID", turn.StoryID.String()),
				zap.Int("turnIndex", turn.TurnIndex),
			)
			return models.ErrTurnConflict
		}
		r.logger.Error("Failed to create turn", zap.Error(err), zap.String("storyID", turn.StoryID.String()))
		return fmt.Errorf("failed to create story turn: %w", err)
	}
	return nil
}

func (r *pgTurnRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.StoryTurn, error) {
	query := `SELECT ` + turnColumns + ` FROM story_turns WHERE story_id = $1 ORDER BY turn_index ASC`
	var turns []models.StoryTurn
	if err := pgxscan.Select(ctx, r.db, &turns, query, storyID); err != nil {
		r.logger.Error("Failed to list turns", zap.Error(err), zap.String("storyID", storyID.String()))
		return nil, fmt.Errorf("failed to list turns for story %s: %w", storyID, err)
	}
	if turns == nil {
		turns = []models.StoryTurn{}
	}
	return turns, nil
}

func (r *pgTurnRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoryTurn, error) {
	query := `SELECT ` + turnColumns + ` FROM story_turns WHERE id = $1`
	turn := &models.StoryTurn{}
	if err := pgxscan.Get(ctx, r.db, turn, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTurnNotFound
		}
		r.logger.Error("Failed to get turn", zap.Error(err), zap.String("turnID", id.String()))
		return nil, fmt.Errorf("failed to get turn %s: %w", id, err)
	}
	return turn, nil
}

func (r *pgTurnRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM story_turns WHERE story_id = $1`, storyID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count turns", zap.Error(err), zap.String("storyID", storyID.String()))
		return 0, fmt.Errorf("failed to count turns for story %s: %w", storyID, err)
	}
	return count, nil
}

func (r *pgTurnRepository) SetUserImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error) {
	return r.setImage(ctx, "user_img_path", turnID, path)
}

func (r *pgTurnRepository) SetAIImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error) {
	return r.setImage(ctx, "ai_img_path", turnID, path)
}

// column is one of the two fixed image columns, never user input.
func (r *pgTurnRepository) setImage(ctx context.Context, column string, turnID uuid.UUID, path string) (bool, error) {
	query := fmt.Sprintf(`UPDATE story_turns SET %s = $2, updated_at = NOW() WHERE id = $1 AND %s IS NULL`, column, column)
	tag, err := r.db.Exec(ctx, query, turnID, path)
	if err != nil {
		r.logger.Error("Failed to set turn image", zap.Error(err), zap.String("turnID", turnID.String()), zap.String("column", column))
		return false, fmt.Errorf("failed to set %s for turn %s: %w", column, turnID, err)
	}
	won := tag.RowsAffected() == 1
	if !won {
		r.logger.Warn("Turn image already set, write skipped", zap.String("turnID", turnID.String()), zap.String("column", column))
	}
	return won, nil
}
