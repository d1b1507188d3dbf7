//go:build wireinject
// +build wireinject

package app

import (
	"audio-whisper/internal/app/converter"
	"audio-whisper/internal/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

func InitializeConverter(cfg *config.Config, logger *zap.Logger) (*converter.Converter, error) {
	wire.Build(
		converter.NewConverter,
		provideClient,
		provideTranscriber,
		provideNormalizer,
		provideSplitter,
		provideTranscriptionDAO,
		provideProgressManager,
	)
	return nil, nil
}
