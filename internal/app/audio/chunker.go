package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/app/model"

	"go.uber.org/zap"
)

// minChunkSeconds is the shortest slice worth extracting. If the planner
// needs chunks shorter than this to stay under the ceiling, the source
// bitrate is pathological and the file is rejected instead of silently
// dropping audio.
const minChunkSeconds = 1.0

// Chunker splits a normalized audio file into an ordered sequence of
// sub-files, each under the upload size ceiling. Slicing happens on time
// boundaries with stream copy, so every chunk stays an independently
// decodable file; concatenating the chunks in index order reproduces the
// source audio.
type Chunker struct {
	sizeLimit    int64
	safetyMargin float64
	logger       *zap.Logger
}

func NewChunker(sizeLimit int64, safetyMargin float64, logger *zap.Logger) *Chunker {
	return &Chunker{
		sizeLimit:    sizeLimit,
		safetyMargin: safetyMargin,
		logger:       logger,
	}
}

// planChunks computes the per-chunk duration and chunk count for a file of
// the given byte size and duration in seconds. The returned plan keeps the
// estimated chunk size under the ceiling with the configured headroom while
// producing the minimal number of chunks.
func (c *Chunker) planChunks(size int64, duration float64) (chunkDuration float64, count int, err error) {
	if duration <= 0 {
		return 0, 0, errors.Kind(errors.ErrDecode, "non-positive duration %.2fs", duration)
	}

	bytesPerSecond := float64(size) / duration
	budget := float64(c.sizeLimit) * (1 - c.safetyMargin)

	chunkDuration = budget / bytesPerSecond
	if chunkDuration < minChunkSeconds {
		return 0, 0, errors.Kind(errors.ErrChunkTooLarge,
			"cannot fit %.0f bytes/s under the %d byte limit", bytesPerSecond, c.sizeLimit)
	}
	if chunkDuration > duration {
		chunkDuration = duration
	}

	count = int(math.Ceil(duration / chunkDuration))
	return chunkDuration, count, nil
}

// Split produces the chunk sequence for inputPath. A file already under the
// ceiling yields exactly one chunk referencing the input itself, with no
// re-encoding. Larger files are sliced into scratchDir.
func (c *Chunker) Split(ctx context.Context, inputPath, scratchDir string) ([]model.Chunk, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, errors.KindWrap(errors.ErrIO, err, "cannot stat %s", inputPath)
	}

	probe, err := Probe(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	duration := probe.Format.Duration

	if info.Size() <= c.sizeLimit {
		return []model.Chunk{{
			Index:    0,
			Path:     inputPath,
			Size:     info.Size(),
			Start:    0,
			Duration: duration,
		}}, nil
	}

	chunkDuration, count, err := c.planChunks(info.Size(), duration)
	if err != nil {
		return nil, err
	}

	c.logger.Info("splitting oversized audio",
		zap.String("input", inputPath),
		zap.Int64("size", info.Size()),
		zap.Float64("duration", duration),
		zap.Int("chunks", count))

	chunks := make([]model.Chunk, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * chunkDuration
		chunkPath := filepath.Join(scratchDir, fmt.Sprintf("chunk_%03d%s", i, filepath.Ext(inputPath)))

		if err := c.extract(ctx, inputPath, chunkPath, start, chunkDuration); err != nil {
			return nil, err
		}

		chunkInfo, err := os.Stat(chunkPath)
		if err != nil || chunkInfo.Size() == 0 {
			return nil, errors.Kind(errors.ErrConversion, "chunk %d of %s is missing or empty", i, inputPath)
		}
		if chunkInfo.Size() > c.sizeLimit {
			return nil, errors.Kind(errors.ErrChunkTooLarge,
				"chunk %d of %s is %d bytes, over the %d byte limit", i, inputPath, chunkInfo.Size(), c.sizeLimit)
		}

		chunks = append(chunks, model.Chunk{
			Index:    i,
			Path:     chunkPath,
			Size:     chunkInfo.Size(),
			Start:    start,
			Duration: math.Min(chunkDuration, duration-start),
		})
	}

	return chunks, nil
}

// extract copies one time slice of inputPath into chunkPath. Stream copy
// keeps the container framing intact, raw byte slicing would corrupt it.
func (c *Chunker) extract(ctx context.Context, inputPath, chunkPath string, start, duration float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", duration),
		"-i", inputPath,
		"-c", "copy",
		"-y",
		chunkPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.KindWrap(errors.ErrConversion, err,
			"ffmpeg slice at %.1fs failed for %s: %s", start, inputPath, strings.TrimSpace(stderr.String()))
	}
	return nil
}
