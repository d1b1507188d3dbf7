package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// The API rejects uploads over 25 MB. Chunks are targeted well below
	// that so bitrate estimation error never produces a rejected upload.
	DefaultChunkSizeLimit = 20 * 1024 * 1024
	DefaultSafetyMargin   = 0.1
	DefaultMaxRetries     = 5
	DefaultBackoffBase    = time.Second
	DefaultBitrate        = "12k"
	DefaultParallel       = 4
)

// Config carries every tunable of the pipeline. It is resolved once at
// startup and passed to each component at construction, nothing reads the
// environment after this point.
type Config struct {
	// OpenAI API key, resolved from OPENAI_API_KEY
	APIKey string `validate:"required"`

	// Per-chunk upload ceiling in bytes
	ChunkSizeLimit int64 `validate:"gt=0,lte=26214400"`

	// Fraction of the ceiling kept as headroom when planning chunk duration
	SafetyMargin float64 `validate:"gte=0,lt=1"`

	// Bounded retry policy for rate-limited requests
	MaxRetries  int           `validate:"gte=0,lte=10"`
	BackoffBase time.Duration `validate:"gt=0"`

	// Opus bitrate handed to ffmpeg, e.g. "12k"
	Bitrate string `validate:"required"`

	// Concurrent chunk uploads per file
	Parallel int `validate:"gt=0,lte=16"`

	// Whisper request options (model, language, prompt, ...)
	Whisper WhisperOptions

	// SQLite file recording per-file outcomes
	DBPath string `validate:"required"`
}

// NewConfig resolves the full runtime configuration: .env, API key and
// defaults, then validates. Returns a fatal startup error when anything
// required is missing.
func NewConfig(dbPath string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	apiKey, err := GetAPIKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         apiKey,
		ChunkSizeLimit: DefaultChunkSizeLimit,
		SafetyMargin:   DefaultSafetyMargin,
		MaxRetries:     DefaultMaxRetries,
		BackoffBase:    DefaultBackoffBase,
		Bitrate:        DefaultBitrate,
		Parallel:       DefaultParallel,
		Whisper:        DefaultWhisperOptions(),
		DBPath:         dbPath,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
