package app

import (
	"audio-whisper/internal/app/api"
	openaiapi "audio-whisper/internal/app/api/openai"
	"audio-whisper/internal/app/api/openai/whisper"
	"audio-whisper/internal/app/audio"
	"audio-whisper/internal/app/converter"
	"audio-whisper/internal/app/repository"
	"audio-whisper/internal/app/repository/sqlite"
	"audio-whisper/internal/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func provideClient(cfg *config.Config) *openai.Client {
	return openaiapi.NewClient(cfg.APIKey, "")
}

// provideTranscriber converts with OpenAI's remote service, requires OPENAI_API_KEY
func provideTranscriber(cfg *config.Config, client *openai.Client, logger *zap.Logger) api.Transcriber {
	return whisper.NewRemoteTranscriber(client, cfg.Whisper, cfg.MaxRetries, cfg.BackoffBase, logger)
}

func provideNormalizer(cfg *config.Config, logger *zap.Logger) converter.Normalizer {
	return audio.NewNormalizer(cfg.Bitrate, logger)
}

func provideSplitter(cfg *config.Config, logger *zap.Logger) converter.Splitter {
	return audio.NewChunker(cfg.ChunkSizeLimit, cfg.SafetyMargin, logger)
}

func provideTranscriptionDAO(cfg *config.Config) (repository.TranscriptionDAO, error) {
	return sqlite.NewSQLiteDB(cfg.DBPath)
}

func provideProgressManager() *converter.ProgressManager {
	return converter.NewProgressManager(converter.ProgressConfig{
		Enabled: converter.ShouldShowProgress(false),
	})
}
