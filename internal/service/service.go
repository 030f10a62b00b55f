package service

import (
	"context"
	"time"

	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VisitorService manages visitor identities and their session tokens.
type VisitorService interface {
	// StartVisit gets or creates the user by email and issues a session token.
	StartVisit(ctx context.Context, email string) (*models.User, *models.TokenDetails, error)
	// VerifyToken validates the signature, expiry and the stored jti.
	VerifyToken(ctx context.Context, token string) (*models.Claims, error)
	// EndVisit revokes a session token by its jti.
	EndVisit(ctx context.Context, tokenUUID string) error
}

// StoryService starts story sessions and serves their read views.
type StoryService interface {
	ListThemes(ctx context.Context) ([]models.Theme, error)
	StartStory(ctx context.Context, userID, themeID uuid.UUID, characterName string) (*models.Story, error)
	GetStoryDetails(ctx context.Context, userID, storyID uuid.UUID) (*models.StoryDetails, error)
}

// TurnResult is what a submission returns once the turn text is persisted.
type TurnResult struct {
	Turn        *models.StoryTurn
	ImageTaskID uuid.UUID // uuid.Nil if the image task could not be started
	Completed   bool
}

// TurnService runs one user/AI exchange.
type TurnService interface {
	SubmitTurn(ctx context.Context, userID, storyID uuid.UUID, userInput string) (*TurnResult, error)
}

// StatusService answers the completion poller.
type StatusService interface {
	TurnStatus(ctx context.Context, userID, turnID uuid.UUID) (*models.TurnStatus, error)
}

// CompletionResult describes a finished compile and dispatch.
type CompletionResult struct {
	PDFPath   string `json:"pdf_path"`
	EmailSent bool   `json:"email_sent"`
}

// CompletionService compiles and dispatches a story that reached its threshold.
type CompletionService interface {
	// Trigger hands the story off. Depending on configuration the work runs
	// inline or as a background task; failures are logged, never returned to
	// the submitting request.
	Trigger(ctx context.Context, story *models.Story, imageTaskID uuid.UUID)
	// Complete compiles the comic and dispatches it.
	Complete(ctx context.Context, storyID uuid.UUID) (*CompletionResult, error)
}

// TokenConfig configures session tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// CompletionConfig configures the threshold handoff.
type CompletionConfig struct {
	Async        bool
	AwaitImages  bool
	AwaitTimeout time.Duration
}

var (
	turnsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_wall_turns_created_total",
		Help: "Total number of persisted story turns.",
	})
	turnImagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "story_wall_turn_images_total",
		Help: "Outcomes of background turn illustration tasks.",
	}, []string{"state"})
	storiesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_wall_stories_started_total",
		Help: "Total number of started story sessions.",
	})
	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "story_wall_completions_total",
		Help: "Outcomes of story completions (compile + dispatch).",
	}, []string{"status"})
)
