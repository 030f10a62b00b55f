package generator

import (
	"context"
	"strings"
	"sync"
	"time"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// Text providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// TextConfig is the explicit configuration of the text generator.
type TextConfig struct {
	Provider              string
	APIKey                string
	BaseURL               string
	Model                 string
	PlotMaxTokens         int
	ContinuationMaxTokens int
	Temperature           float32
	Timeout               time.Duration
}

// Configured reports whether a credential (or, for ollama, an endpoint) is present.
func (c TextConfig) Configured() bool {
	if strings.EqualFold(c.Provider, ProviderOllama) {
		return strings.TrimSpace(c.BaseURL) != ""
	}
	return strings.TrimSpace(c.APIKey) != ""
}

func (c TextConfig) maxTokens(role models.RoleHint) int {
	if role == models.RolePlot {
		if c.PlotMaxTokens > 0 {
			return c.PlotMaxTokens
		}
		return 500
	}
	if c.ContinuationMaxTokens > 0 {
		return c.ContinuationMaxTokens
	}
	return 300
}

// TextGenerator produces plot and continuation text. It degrades to a fixed
// fallback instead of returning errors.
type TextGenerator struct {
	cfg         TextConfig
	completer   Completer // nil when unconfigured
	countTokens func(string) int
	logger      *zap.Logger
}

var _ interfaces.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator returns a generator for cfg. Without credentials, or when the
// provider client cannot be built, the returned generator only yields fallbacks.
func NewTextGenerator(cfg TextConfig, logger *zap.Logger) *TextGenerator {
	log := logger.Named("TextGenerator")
	if !cfg.Configured() {
		log.Warn("Text provider is not configured, fallback text will be used", zap.String("provider", cfg.Provider))
		return &TextGenerator{cfg: cfg, logger: log}
	}
	completer, err := NewCompleter(cfg)
	if err != nil {
		log.Error("Failed to create text provider client, fallback text will be used", zap.Error(err))
		return &TextGenerator{cfg: cfg, logger: log}
	}
	log.Info("Text provider ready", zap.String("provider", completer.Provider()), zap.String("model", cfg.Model))
	return NewTextGeneratorWithCompleter(cfg, completer, tiktokenCounter(cfg.Model, log), logger)
}

// NewTextGeneratorWithCompleter wires an explicit provider client. countTokens may be nil.
func NewTextGeneratorWithCompleter(cfg TextConfig, completer Completer, countTokens func(string) int, logger *zap.Logger) *TextGenerator {
	return &TextGenerator{
		cfg:         cfg,
		completer:   completer,
		countTokens: countTokens,
		logger:      logger.Named("TextGenerator"),
	}
}

// Configured reports whether calls reach a provider.
func (g *TextGenerator) Configured() bool { return g.completer != nil }

// GenerateText never fails: missing credentials and provider errors yield the role's fallback.
func (g *TextGenerator) GenerateText(ctx context.Context, req models.TextRequest) string {
	role := string(req.Role)
	if g.completer == nil {
		textRequestsTotal.WithLabelValues("none", role, "unconfigured").Inc()
		return Fallback(req, false)
	}
	provider := g.completer.Provider()
	prompt := buildTextPrompt(req)

	if g.countTokens != nil {
		tokens := g.countTokens(systemPrompt) + g.countTokens(prompt)
		textPromptTokens.WithLabelValues(role).Observe(float64(tokens))
		g.logger.Debug("Prompt prepared", zap.String("role", role), zap.Int("promptTokens", tokens))
	}

	callCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.completer.Complete(callCtx, systemPrompt, prompt, g.cfg.maxTokens(req.Role))
	textRequestDuration.WithLabelValues(provider, role).Observe(time.Since(start).Seconds())
	if err != nil {
		textRequestsTotal.WithLabelValues(provider, role, "error").Inc()
		g.logger.Error("Text generation failed, using fallback",
			zap.String("provider", provider),
			zap.String("role", role),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Fallback(req, true)
	}

	textRequestsTotal.WithLabelValues(provider, role, "success").Inc()
	g.logger.Info("Text generated",
		zap.String("provider", provider),
		zap.String("role", role),
		zap.Int("length", len(text)),
		zap.Duration("duration", time.Since(start)),
	)
	return strings.TrimSpace(text)
}

// tiktokenCounter resolves the encoding lazily; unknown models fall back to cl100k_base.
func tiktokenCounter(model string, logger *zap.Logger) func(string) int {
	var (
		once sync.Once
		enc  *tiktoken.Tiktoken
	)
	return func(s string) int {
		once.Do(func() {
			var err error
			enc, err = tiktoken.EncodingForModel(model)
			if err != nil {
				enc, err = tiktoken.GetEncoding("cl100k_base")
			}
			if err != nil {
				logger.Warn("Tokenizer unavailable, prompt token metrics disabled", zap.Error(err))
			}
		})
		if enc == nil {
			return 0
		}
		return len(enc.Encode(s, nil, nil))
	}
}
