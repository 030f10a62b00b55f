package config

import (
	"fmt"
	"strings"
	"time"

	"story-wall/internal/dispatch"
	"story-wall/internal/generator"
	"story-wall/internal/service"
	"story-wall/pkg/database"
	"story-wall/shared/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the service configuration.
type Config struct {
	Env        string `env:"APP_ENV" env-default:"development"`
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string `env:"LOG_FORMAT" env-default:"json"`
	LogOutput  string `env:"LOG_OUTPUT"`

	DB         DBConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	JWT        JWTConfig
	Text       TextConfig
	Image      ImageConfig
	SMTP       SMTPConfig
	Completion CompletionConfig

	MediaRoot          string        `env:"MEDIA_ROOT" env-default:"./media"`
	TurnThreshold      int           `env:"TURN_THRESHOLD" env-default:"10"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	GenerationLimit    int           `env:"GENERATION_RATE_LIMIT" env-default:"10"` // requests per minute per IP
	ThemeCacheTTL      time.Duration `env:"THEME_CACHE_TTL" env-default:"10m"`
	TaskRetention      time.Duration `env:"TASK_RETENTION" env-default:"30m"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	SecretsDir         string        `env:"SECRETS_DIR" env-default:"/run/secrets"`
}

type DBConfig struct {
	Host        string        `env:"DB_HOST" env-default:"localhost"`
	Port        int           `env:"DB_PORT" env-default:"5432"`
	User        string        `env:"DB_USER" env-default:"postgres"`
	Password    string        `env:"DB_PASSWORD"`
	Name        string        `env:"DB_NAME" env-default:"story_wall"`
	SSLMode     string        `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns    int32         `env:"DB_MAX_CONNS" env-default:"10"`
	IdleTimeout time.Duration `env:"DB_IDLE_TIMEOUT" env-default:"5m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RabbitMQConfig is optional: an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" env-default:"story_wall.events"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
	Issuer string        `env:"JWT_ISSUER" env-default:"story-wall"`
}

type TextConfig struct {
	Provider              string        `env:"TEXT_PROVIDER" env-default:"openai"`
	APIKey                string        `env:"OPENAI_API_KEY"`
	BaseURL               string        `env:"TEXT_BASE_URL"`
	Model                 string        `env:"TEXT_MODEL" env-default:"gpt-3.5-turbo"`
	PlotMaxTokens         int           `env:"TEXT_PLOT_MAX_TOKENS" env-default:"500"`
	ContinuationMaxTokens int           `env:"TEXT_CONTINUATION_MAX_TOKENS" env-default:"300"`
	Temperature           float32       `env:"TEXT_TEMPERATURE" env-default:"0.7"`
	Timeout               time.Duration `env:"TEXT_TIMEOUT" env-default:"60s"`
}

type ImageConfig struct {
	APIToken          string        `env:"REPLICATE_API_TOKEN"`
	BaseURL           string        `env:"REPLICATE_BASE_URL" env-default:"https://api.replicate.com"`
	Model             string        `env:"REPLICATE_MODEL" env-default:"stability-ai/sdxl"`
	NegativePrompt    string        `env:"IMAGE_NEGATIVE_PROMPT"`
	Timeout           time.Duration `env:"IMAGE_TIMEOUT" env-default:"3m"`
	HTTPTimeout       time.Duration `env:"IMAGE_HTTP_TIMEOUT" env-default:"60s"`
	PollInterval      time.Duration `env:"IMAGE_POLL_INTERVAL" env-default:"2s"`
	RequestsPerSecond float64       `env:"IMAGE_RPS" env-default:"2"`
	Burst             int           `env:"IMAGE_BURST" env-default:"4"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" env-default:"587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM" env-default:"comics@story-wall.local"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" env-default:"30s"`
}

type CompletionConfig struct {
	Async        bool          `env:"COMPLETION_ASYNC" env-default:"true"`
	AwaitImages  bool          `env:"COMPLETION_AWAIT_IMAGES" env-default:"false"`
	AwaitTimeout time.Duration `env:"COMPLETION_AWAIT_TIMEOUT" env-default:"2m"`
}

// Load reads envFile (if present) into the environment and then the environment into Config.
// Secrets left empty are looked up in SecretsDir.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	secrets := []struct {
		name string
		dst  *string
	}{
		{"db_password", &cfg.DB.Password},
		{"redis_password", &cfg.Redis.Password},
		{"jwt_secret", &cfg.JWT.Secret},
		{"openai_api_key", &cfg.Text.APIKey},
		{"replicate_api_token", &cfg.Image.APIToken},
		{"smtp_password", &cfg.SMTP.Password},
	}
	for _, s := range secrets {
		if *s.dst != "" {
			continue
		}
		if v, err := ReadSecret(cfg.SecretsDir, s.name); err == nil {
			*s.dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values cleanenv cannot.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TurnThreshold < 1 {
		return fmt.Errorf("TURN_THRESHOLD must be positive, got %d", c.TurnThreshold)
	}
	if c.GenerationLimit < 1 {
		return fmt.Errorf("GENERATION_RATE_LIMIT must be positive, got %d", c.GenerationLimit)
	}
	if c.Completion.AwaitTimeout <= 0 {
		return fmt.Errorf("COMPLETION_AWAIT_TIMEOUT must be positive")
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins into a slice.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Encoding: c.LogFormat, OutputPath: c.LogOutput}
}

func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Host:        c.DB.Host,
		Port:        c.DB.Port,
		User:        c.DB.User,
		Password:    c.DB.Password,
		DBName:      c.DB.Name,
		SSLMode:     c.DB.SSLMode,
		MaxConns:    c.DB.MaxConns,
		IdleTimeout: c.DB.IdleTimeout,
	}
}

func (c *Config) TokenConfig() service.TokenConfig {
	return service.TokenConfig{Secret: c.JWT.Secret, TTL: c.JWT.TTL, Issuer: c.JWT.Issuer}
}

func (c *Config) TextGeneratorConfig() generator.TextConfig {
	return generator.TextConfig{
		Provider:              c.Text.Provider,
		APIKey:                c.Text.APIKey,
		BaseURL:               c.Text.BaseURL,
		Model:                 c.Text.Model,
		PlotMaxTokens:         c.Text.PlotMaxTokens,
		ContinuationMaxTokens: c.Text.ContinuationMaxTokens,
		Temperature:           c.Text.Temperature,
		Timeout:               c.Text.Timeout,
	}
}

func (c *Config) ImageGeneratorConfig() generator.ImageConfig {
	return generator.ImageConfig{
		APIToken:          c.Image.APIToken,
		BaseURL:           c.Image.BaseURL,
		Model:             c.Image.Model,
		NegativePrompt:    c.Image.NegativePrompt,
		Timeout:           c.Image.Timeout,
		HTTPTimeout:       c.Image.HTTPTimeout,
		PollInterval:      c.Image.PollInterval,
		RequestsPerSecond: c.Image.RequestsPerSecond,
		Burst:             c.Image.Burst,
	}
}

func (c *Config) MailerConfig() dispatch.SMTPConfig {
	return dispatch.SMTPConfig{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
		Timeout:  c.SMTP.Timeout,
	}
}

func (c *Config) CompletionServiceConfig() service.CompletionConfig {
	return service.CompletionConfig{
		Async:        c.Completion.Async,
		AwaitImages:  c.Completion.AwaitImages,
		AwaitTimeout: c.Completion.AwaitTimeout,
	}
}
