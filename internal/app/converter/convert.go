package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"audio-whisper/internal/app/api"
	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/app/model"
	"audio-whisper/internal/app/repository"
	"audio-whisper/internal/app/util/files"
	"audio-whisper/internal/config"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// scratchDirName is the staging subdirectory owned by this pipeline under
// the input and output trees. It never holds anything the user must keep.
const scratchDirName = "chunks"

// Normalizer transcodes one source file into the upload format.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputPath string) error
}

// Splitter slices a normalized file into ordered chunks under the size limit.
type Splitter interface {
	Split(ctx context.Context, inputPath, scratchDir string) ([]model.Chunk, error)
}

// FileResult is the outcome of one source file in a batch.
type FileResult struct {
	FileName string
	Err      error
}

// Converter drives the per-file pipeline: normalize, chunk, transcribe every
// chunk, reassemble. Files are processed one at a time; chunk uploads within
// a file run on a bounded worker pool. A failure in one file never stops the
// rest of the batch.
type Converter struct {
	transcriber api.Transcriber
	db          repository.TranscriptionDAO
	normalizer  Normalizer
	splitter    Splitter
	reassembler *Reassembler
	progress    *ProgressManager
	parallel    int
	logger      *zap.Logger
}

func NewConverter(transcriber api.Transcriber, db repository.TranscriptionDAO,
	normalizer Normalizer, splitter Splitter, progress *ProgressManager,
	cfg *config.Config, logger *zap.Logger) *Converter {
	return &Converter{
		transcriber: transcriber,
		db:          db,
		normalizer:  normalizer,
		splitter:    splitter,
		reassembler: NewReassembler(),
		progress:    progress,
		parallel:    cfg.Parallel,
		logger:      logger,
	}
}

func (c *Converter) Close() error {
	if c.progress != nil {
		c.progress.Shutdown()
	}
	return c.db.Close()
}

// Do processes every unprocessed audio file in inputDir, writing one
// transcript per file into outputDir. It returns an error when at least one
// file failed, so callers can exit non-zero for scripted detection.
func (c *Converter) Do(ctx context.Context, inputDir, outputDir string) error {
	inputDir, err := filepath.Abs(inputDir)
	if err != nil {
		return errors.KindWrap(errors.ErrIO, err, "cannot resolve input directory")
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return errors.KindWrap(errors.ErrIO, err, "cannot resolve output directory")
	}
	if err := files.EnsureDirectory(outputDir); err != nil {
		return errors.KindWrap(errors.ErrIO, err, "cannot create output directory")
	}

	// Scratch trees are fully owned by the pipeline: wipe leftovers from
	// interrupted runs before starting.
	inputScratch := filepath.Join(inputDir, scratchDirName)
	outputScratch := filepath.Join(outputDir, scratchDirName)
	for _, dir := range []string{inputScratch, outputScratch} {
		if err := files.WipeDirectory(dir); err != nil {
			return errors.KindWrap(errors.ErrIO, err, "cannot wipe scratch directory")
		}
	}

	fileInfos, err := files.GetAllAudioFiles(inputDir)
	if err != nil {
		return errors.KindWrap(errors.ErrIO, err, "cannot list input directory")
	}

	filesToProcess := c.filterUnProcessedFiles(fileInfos)
	if len(filesToProcess) == 0 {
		c.logger.Info("nothing to do", zap.String("inputDir", inputDir))
		return nil
	}

	bar := c.createBar(len(filesToProcess), "Transcribing")
	results := make([]FileResult, 0, len(filesToProcess))

	for _, file := range filesToProcess {
		err := c.processFile(ctx, file, inputScratch, outputScratch, outputDir)
		if err != nil {
			c.logger.Error("file failed", zap.String("file", file.Name), zap.Error(err))
		}
		results = append(results, FileResult{FileName: file.Name, Err: err})
		bar.Increment()

		if ctx.Err() != nil {
			break
		}
	}
	bar.Complete()
	c.waitForProgress()

	return c.summarize(results)
}

// filterUnProcessedFiles drops files recorded as successfully transcribed in
// an earlier run, which makes repeated batch runs idempotent.
func (c *Converter) filterUnProcessedFiles(fileInfos []model.FileInfo) []model.FileInfo {
	return lo.Filter(fileInfos, func(fileInfo model.FileInfo, _ int) bool {
		id, err := c.db.CheckIfFileProcessed(fileInfo.Name)
		if err == nil {
			c.logger.Info("already processed, skipping",
				zap.String("file", fileInfo.Name), zap.Int("record", id))
			return false
		}
		return true
	})
}

// processFile runs the full pipeline for one source file and records the
// outcome. The returned error is file-scoped; the caller keeps going.
func (c *Converter) processFile(ctx context.Context, file model.FileInfo,
	inputScratch, outputScratch, outputDir string) error {
	rec := model.Transcription{
		FileName:           file.Name,
		InputPath:          file.FullPath,
		LastConversionTime: time.Now(),
	}

	err := c.runPipeline(ctx, file, inputScratch, outputScratch, outputDir, &rec)
	if err != nil {
		rec.HasError = 1
		rec.ErrorMessage = err.Error()
	}

	if dbErr := c.db.Record(rec); dbErr != nil {
		c.logger.Warn("failed to record outcome", zap.String("file", file.Name), zap.Error(dbErr))
	}
	return err
}

func (c *Converter) runPipeline(ctx context.Context, file model.FileInfo,
	inputScratch, outputScratch, outputDir string, rec *model.Transcription) error {
	c.logger.Info("processing", zap.String("file", file.Name))

	normDir := files.ScratchDir(inputScratch, file.Name)
	chunkDir := files.ScratchDir(outputScratch, file.Name)
	for _, dir := range []string{normDir, chunkDir} {
		if err := files.EnsureDirectory(dir); err != nil {
			return errors.KindWrap(errors.ErrIO, err, "cannot create scratch directory")
		}
	}

	base := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
	normalizedPath := filepath.Join(normDir, base+".ogg")
	if err := c.normalizer.Normalize(ctx, file.FullPath, normalizedPath); err != nil {
		return err
	}

	chunks, err := c.splitter.Split(ctx, normalizedPath, chunkDir)
	if err != nil {
		return err
	}

	last := chunks[len(chunks)-1]
	rec.AudioDuration = int(last.Start + last.Duration + 0.5)
	rec.ChunkCount = len(chunks)

	fragments, err := c.transcribeChunks(ctx, chunks)
	if err != nil {
		return err
	}

	transcript, err := c.reassembler.Assemble(fragments, len(chunks))
	if err != nil {
		return err
	}

	outputPath := files.TranscriptPath(outputDir, file.Name)
	if err := c.reassembler.Write(transcript, outputPath); err != nil {
		return err
	}

	rec.Transcription = transcript
	rec.TranscriptPath = outputPath

	// Chunk artifacts are transient; the original source is never touched.
	for _, dir := range []string{normDir, chunkDir} {
		if err := files.WipeDirectory(dir); err != nil {
			c.logger.Warn("failed to clean scratch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	c.logger.Info("transcription completed",
		zap.String("file", file.Name),
		zap.String("transcript", outputPath),
		zap.Int("chunks", len(chunks)))
	return nil
}

// transcribeChunks uploads chunks on a bounded worker pool. Fragments are
// merged by chunk index, never by completion order. The first non-retryable
// failure cancels the remaining uploads for this file.
func (c *Converter) transcribeChunks(ctx context.Context, chunks []model.Chunk) ([]model.TranscriptFragment, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments := make([]model.TranscriptFragment, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan bool, c.parallel)
	var mu sync.Mutex
	var firstErr error

	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk model.Chunk) {
			defer wg.Done()

			sem <- true
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			text, err := c.transcriber.Transcript(ctx, chunk.Path)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "chunk %d failed", chunk.Index)
					cancel()
				}
				mu.Unlock()
				return
			}

			fragments[chunk.Index] = model.TranscriptFragment{Index: chunk.Index, Text: text}
		}(chunk)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return fragments, nil
}

func (c *Converter) summarize(results []FileResult) error {
	failed := lo.Filter(results, func(r FileResult, _ int) bool { return r.Err != nil })

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", r.FileName, r.Err)
		} else {
			fmt.Printf("OK      %s\n", r.FileName)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(failed), len(results))
	}
	return nil
}

func (c *Converter) createBar(total int, description string) *ProgressBar {
	if c.progress == nil {
		return &ProgressBar{enabled: false}
	}
	return c.progress.CreateBar(total, description)
}

func (c *Converter) waitForProgress() {
	if c.progress != nil {
		c.progress.Wait()
	}
}
