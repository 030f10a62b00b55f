package comic

import (
	"context"
	"fmt"
	"io"
	"time"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	compilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_wall_comic_compilations_total",
			Help: "Total number of comic compilations by outcome.",
		},
		[]string{"status"},
	)
	compiledPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "story_wall_comic_pages",
			Help:    "Histogram of page counts of compiled comics.",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		},
	)
)

// ArtifactStore is the media storage used by the compiler.
type ArtifactStore interface {
	PathResolver
	Exists(rel string) bool
	NewPath(subdir, prefix, ext string) string
	WriteAtomic(rel string, write func(w io.Writer) error) error
	Remove(rel string) error
}

// Compiler turns a story and its turns into a stored PDF.
type Compiler struct {
	stories  interfaces.StoryRepository
	turns    interfaces.TurnRepository
	store    ArtifactStore
	renderer *Renderer
	logger   *zap.Logger
}

// NewCompiler creates a Compiler.
func NewCompiler(stories interfaces.StoryRepository, turns interfaces.TurnRepository, store ArtifactStore, logger *zap.Logger) *Compiler {
	return &Compiler{
		stories:  stories,
		turns:    turns,
		store:    store,
		renderer: NewRenderer(store, logger),
		logger:   logger.Named("ComicCompiler"),
	}
}

// InputFor converts stored rows into layout input, turns in narrative order.
func InputFor(story *models.Story, turns []models.StoryTurn) Input {
	in := Input{
		CharacterName: story.CharacterName,
		ThemeName:     story.ThemeName,
		CreatedAt:     story.CreatedAt,
		PlotText:      story.PlotText,
		PlotImage:     deref(story.PlotImagePath),
		Turns:         make([]TurnContent, 0, len(turns)),
	}
	for _, t := range turns {
		in.Turns = append(in.Turns, TurnContent{
			UserInput:  t.UserInput,
			AIResponse: t.AIResponse,
			UserImage:  deref(t.UserImgPath),
			AIImage:    deref(t.AIImgPath),
		})
	}
	return in
}

// Compile renders the story's comic and records its path. A story compiles at
// most once: if a path is already recorded it is returned unchanged.
func (c *Compiler) Compile(ctx context.Context, storyID uuid.UUID) (string, error) {
	log := c.logger.With(zap.String("storyID", storyID.String()))

	story, err := c.stories.GetByID(ctx, storyID)
	if err != nil {
		return "", fmt.Errorf("load story for compilation: %w", err)
	}
	if story.HasPDF() {
		log.Info("Comic already compiled", zap.String("path", *story.PDFPath))
		compilationsTotal.WithLabelValues("already_compiled").Inc()
		return *story.PDFPath, nil
	}
	turns, err := c.turns.ListByStory(ctx, storyID)
	if err != nil {
		return "", fmt.Errorf("load turns for compilation: %w", err)
	}

	start := time.Now()
	doc := Layout(InputFor(story, turns), c.store.Exists)
	rel := c.store.NewPath("pdfs", "comic_"+storyID.String(), "pdf")
	if err := c.store.WriteAtomic(rel, func(w io.Writer) error { return c.renderer.Render(doc, w) }); err != nil {
		compilationsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("write comic: %w", err)
	}

	won, err := c.stories.SetPDFPath(ctx, storyID, rel)
	if err != nil {
		_ = c.store.Remove(rel)
		compilationsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("record comic path: %w", err)
	}
	if !won {
		_ = c.store.Remove(rel)
		latest, err := c.stories.GetByID(ctx, storyID)
		if err != nil {
			return "", fmt.Errorf("reload story after lost compile race: %w", err)
		}
		log.Warn("Comic was compiled concurrently, keeping the first document")
		compilationsTotal.WithLabelValues("already_compiled").Inc()
		return deref(latest.PDFPath), nil
	}

	compilationsTotal.WithLabelValues("success").Inc()
	compiledPages.Observe(float64(len(doc.Pages)))
	log.Info("Comic compiled",
		zap.String("path", rel),
		zap.Int("turns", len(turns)),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("images", len(doc.Images())),
		zap.Duration("duration", time.Since(start)),
	)
	return rel, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
