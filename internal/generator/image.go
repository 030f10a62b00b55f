package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ImageConfig is the explicit configuration of the image generator.
type ImageConfig struct {
	APIToken          string
	BaseURL           string
	Model             string
	NegativePrompt    string
	Timeout           time.Duration // whole generation, including polling and download
	HTTPTimeout       time.Duration
	PollInterval      time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Configured reports whether an API token is present.
func (c ImageConfig) Configured() bool {
	return strings.TrimSpace(c.APIToken) != ""
}

// ArtifactSaver persists downloaded images and returns media-relative paths.
type ArtifactSaver interface {
	Save(subdir, prefix, ext string, data []byte) (string, error)
}

// ImageGenerator renders comic panels through a prediction API and stores them
// under the media root. Every failure surfaces as "illustration unavailable".
type ImageGenerator struct {
	cfg     ImageConfig
	client  *replicateClient // nil when unconfigured
	limiter *rate.Limiter
	store   ArtifactSaver
	logger  *zap.Logger
}

var _ interfaces.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator returns a generator for cfg; without a token it never calls out.
func NewImageGenerator(cfg ImageConfig, store ArtifactSaver, logger *zap.Logger) *ImageGenerator {
	log := logger.Named("ImageGenerator")
	if cfg.NegativePrompt == "" {
		cfg.NegativePrompt = DefaultNegativePrompt
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	g := &ImageGenerator{cfg: cfg, store: store, logger: log}
	if !cfg.Configured() {
		log.Warn("Image provider is not configured, illustrations are disabled")
		return g
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	g.limiter = rate.NewLimiter(limit, burst)
	g.client = newReplicateClient(cfg, log)
	log.Info("Image provider ready", zap.String("model", cfg.Model), zap.String("baseURL", cfg.BaseURL))
	return g
}

// Configured reports whether calls reach a provider.
func (g *ImageGenerator) Configured() bool { return g.client != nil }

// GenerateImage returns the stored relative path, or ok=false when no illustration is available.
func (g *ImageGenerator) GenerateImage(ctx context.Context, req models.ImageRequest) (string, bool) {
	layout := string(req.Layout)
	spec, known := panelSpecs[req.Layout]
	if !known {
		g.logger.Error("Unknown panel layout", zap.String("layout", layout))
		imageRequestsTotal.WithLabelValues(layout, "invalid").Inc()
		return "", false
	}
	if g.client == nil {
		imageRequestsTotal.WithLabelValues(layout, "unconfigured").Inc()
		return "", false
	}

	log := g.logger.With(zap.String("layout", layout))
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() {
		imageRequestDuration.WithLabelValues(layout).Observe(time.Since(start).Seconds())
	}()

	if err := g.limiter.Wait(ctx); err != nil {
		log.Warn("Image request throttled out", zap.Error(err))
		imageRequestsTotal.WithLabelValues(layout, "throttled").Inc()
		return "", false
	}

	urls, err := g.client.Predict(ctx, predictionInput{
		Prompt:         spec.prompt(req),
		Width:          spec.width,
		Height:         spec.height,
		NumOutputs:     1,
		NegativePrompt: g.cfg.NegativePrompt,
	})
	if err != nil {
		log.Error("Image provider call failed", zap.Error(err))
		imageRequestsTotal.WithLabelValues(layout, "error").Inc()
		return "", false
	}
	if len(urls) == 0 {
		log.Warn("Image provider returned no outputs")
		imageRequestsTotal.WithLabelValues(layout, "empty").Inc()
		return "", false
	}

	data, err := g.client.Download(ctx, urls[0])
	if err != nil {
		status := "error"
		if errors.Is(err, models.ErrDownloadFailed) {
			status = "download_failed"
		}
		log.Error("Image download failed", zap.String("url", urls[0]), zap.Error(err))
		imageRequestsTotal.WithLabelValues(layout, status).Inc()
		return "", false
	}

	rel, err := g.store.Save(spec.dir, spec.prefix, extensionFor(data), data)
	if err != nil {
		log.Error("Failed to store image", zap.Error(err))
		imageRequestsTotal.WithLabelValues(layout, "store_failed").Inc()
		return "", false
	}

	imageRequestsTotal.WithLabelValues(layout, "success").Inc()
	log.Info("Image generated", zap.String("path", rel), zap.Int("sizeBytes", len(data)), zap.Duration("duration", time.Since(start)))
	return rel, true
}
