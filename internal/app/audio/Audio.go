package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/app/model"

	"go.uber.org/zap"
)

// Probe runs ffprobe against filePath and returns the container-level
// duration, bitrate and size. An unreadable file or one with no measurable
// duration is a decode failure.
func Probe(ctx context.Context, filePath string) (*model.FFProbeOutput, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.KindWrap(errors.ErrDecode, err, "ffprobe failed for %s", filePath)
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return nil, errors.KindWrap(errors.ErrDecode, err, "unparseable ffprobe output for %s", filePath)
	}

	if probeOutput.Format.Duration <= 0 {
		return nil, errors.Kind(errors.ErrDecode, "no decodable audio in %s", filePath)
	}

	return &probeOutput, nil
}

// Normalizer transcodes source audio into a compact, speech-optimized format
// before upload. ffmpeg is treated as a black box: explicit input, explicit
// output, exit status decides success.
type Normalizer struct {
	bitrate string
	logger  *zap.Logger
}

func NewNormalizer(bitrate string, logger *zap.Logger) *Normalizer {
	return &Normalizer{bitrate: bitrate, logger: logger}
}

// Normalize converts inputPath to mono ogg/opus at outputPath. A non-zero
// exit status or a missing/zero-byte output file is a conversion failure.
func (n *Normalizer) Normalize(ctx context.Context, inputPath, outputPath string) error {
	n.logger.Info("converting to ogg/opus",
		zap.String("input", inputPath),
		zap.String("output", outputPath))

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-vn",                // audio only
		"-map_metadata", "-1", // strip metadata
		"-ac", "1", // mono
		"-c:a", "libopus",
		"-b:a", n.bitrate,
		"-application", "voip",
		"-y",
		outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.KindWrap(errors.ErrConversion, err,
			"ffmpeg failed for %s: %s", inputPath, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return errors.KindWrap(errors.ErrConversion, err, "ffmpeg produced no output for %s", inputPath)
	}
	if info.Size() == 0 {
		return errors.Kind(errors.ErrConversion, "ffmpeg produced an empty file for %s", inputPath)
	}

	return nil
}
