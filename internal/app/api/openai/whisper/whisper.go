package whisper

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
// Rate-limited requests are retried with exponential backoff up to a bounded
// attempt count; anything else fails the request immediately, since a partial
// transcript is not useful without all of its fragments.
type RemoteTranscriber struct {
	client      *openai.Client
	opts        config.WhisperOptions
	maxRetries  uint64
	backoffBase time.Duration
	logger      *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, opts config.WhisperOptions,
	maxRetries int, backoffBase time.Duration, logger *zap.Logger) *RemoteTranscriber {
	return &RemoteTranscriber{
		client:      client,
		opts:        opts,
		maxRetries:  uint64(maxRetries),
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Transcript uploads one audio file and returns its transcribed text.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	req := openai.AudioRequest{
		Model:       rt.opts.Model,
		FilePath:    inputFilePath,
		Language:    rt.opts.Language,
		Prompt:      rt.opts.Prompt,
		Temperature: rt.opts.Temperature,
		Format:      responseFormat(rt.opts.ResponseFormat),
	}

	var text string
	operation := func() error {
		resp, err := rt.client.CreateTranscription(ctx, req)
		if err != nil {
			classified := classifyAPIError(err)
			if errors.Retryable(classified) {
				rt.logger.Warn("rate limited, backing off",
					zap.String("file", inputFilePath))
				return classified
			}
			return backoff.Permanent(classified)
		}
		text = resp.Text
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = rt.backoffBase

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, rt.maxRetries), ctx))
	if err != nil {
		return "", err
	}

	return text, nil
}

// classifyAPIError maps an OpenAI client error to a pipeline error kind.
// Only HTTP 429 counts as throttling; auth failures, malformed files and
// network errors are non-transient.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			return errors.KindWrap(errors.ErrRateLimit, err, "API rate limit exceeded")
		}
		return errors.KindWrap(errors.ErrRequest, err, "API request rejected (HTTP %d)", apiErr.HTTPStatusCode)
	}
	return errors.KindWrap(errors.ErrRequest, err, "API request failed")
}

func responseFormat(format string) openai.AudioResponseFormat {
	switch strings.ToLower(format) {
	case "json":
		return openai.AudioResponseFormatJSON
	case "verbose_json":
		return openai.AudioResponseFormatVerboseJSON
	case "srt":
		return openai.AudioResponseFormatSRT
	case "vtt":
		return openai.AudioResponseFormatVTT
	default:
		return openai.AudioResponseFormatText
	}
}
