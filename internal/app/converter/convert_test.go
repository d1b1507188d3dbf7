package converter

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/app/model"
	"audio-whisper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDAO is an in-memory TranscriptionDAO.
type fakeDAO struct {
	mu        sync.Mutex
	records   []model.Transcription
	processed map[string]int
}

func newFakeDAO() *fakeDAO {
	return &fakeDAO{processed: make(map[string]int)}
}

func (f *fakeDAO) Close() error { return nil }

func (f *fakeDAO) GetAll() ([]model.Transcription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Transcription(nil), f.records...), nil
}

func (f *fakeDAO) CheckIfFileProcessed(fileName string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.processed[fileName]; ok {
		return id, nil
	}
	return 0, sql.ErrNoRows
}

func (f *fakeDAO) Record(t model.Transcription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, t)
	if t.HasError == 0 {
		f.processed[t.FileName] = len(f.records)
	}
	return nil
}

func (f *fakeDAO) lastRecord() model.Transcription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[len(f.records)-1]
}

// fakeNormalizer prefixes the file content instead of calling ffmpeg.
type fakeNormalizer struct {
	fail bool
}

func (f *fakeNormalizer) Normalize(ctx context.Context, inputPath, outputPath string) error {
	if f.fail {
		return errors.Kind(errors.ErrConversion, "normalizer down")
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append([]byte("norm:"), data...), 0o644)
}

// splitText cuts s into n contiguous pieces covering all of s.
func splitText(s string, n int) []string {
	parts := make([]string, 0, n)
	size := (len(s) + n - 1) / n
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		parts = append(parts, s[i:end])
	}
	for len(parts) < n {
		parts = append(parts, "")
	}
	return parts
}

// fakeSplitter writes n chunk files containing contiguous slices of the
// normalized content.
type fakeSplitter struct {
	n   int
	err error
}

func (f *fakeSplitter) Split(ctx context.Context, inputPath, scratchDir string) ([]model.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	parts := splitText(string(data), f.n)
	chunks := make([]model.Chunk, len(parts))
	for i, part := range parts {
		path := filepath.Join(scratchDir, fmt.Sprintf("chunk_%03d.ogg", i))
		if err := os.WriteFile(path, []byte(part), 0o644); err != nil {
			return nil, err
		}
		chunks[i] = model.Chunk{Index: i, Path: path, Size: int64(len(part)), Start: float64(i), Duration: 1}
	}
	return chunks, nil
}

// fakeTranscriber echoes chunk file content, optionally failing on matching
// paths and adding jitter to shuffle completion order.
type fakeTranscriber struct {
	failOn string
	jitter bool

	mu    sync.Mutex
	calls int
}

func (f *fakeTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
	}
	if f.failOn != "" && strings.Contains(inputFilePath, f.failOn) {
		return "", errors.Kind(errors.ErrRequest, "API rejected the file")
	}
	data, err := os.ReadFile(inputFilePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newTestConverter(transcriber *fakeTranscriber, db *fakeDAO, splitter *fakeSplitter) *Converter {
	return NewConverter(
		transcriber, db,
		&fakeNormalizer{}, splitter,
		nil,
		&config.Config{Parallel: 2},
		zap.NewNop(),
	)
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDo_SingleFileProducesOrderedTranscript(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "meeting.mp3", "hello from the meeting")

	db := newFakeDAO()
	c := newTestConverter(&fakeTranscriber{jitter: true}, db, &fakeSplitter{n: 3})

	require.NoError(t, c.Do(context.Background(), inputDir, outputDir))

	want := strings.Join(splitText("norm:hello from the meeting", 3), FragmentSeparator)
	content, err := os.ReadFile(filepath.Join(outputDir, "meeting Transcription.txt"))
	require.NoError(t, err)
	assert.Equal(t, want, string(content))

	rec := db.lastRecord()
	assert.Equal(t, "meeting.mp3", rec.FileName)
	assert.Equal(t, 3, rec.ChunkCount)
	assert.Equal(t, 0, rec.HasError)
}

func TestDo_ScratchIsEmptyAfterSuccess(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "talk.wav", "some speech")

	c := newTestConverter(&fakeTranscriber{}, newFakeDAO(), &fakeSplitter{n: 2})
	require.NoError(t, c.Do(context.Background(), inputDir, outputDir))

	for _, scratch := range []string{
		filepath.Join(inputDir, scratchDirName),
		filepath.Join(outputDir, scratchDirName),
	} {
		entries, err := os.ReadDir(scratch)
		if os.IsNotExist(err) {
			continue
		}
		require.NoError(t, err)
		assert.Empty(t, entries, "leftover scratch in %s", scratch)
	}
}

func TestDo_FailureIsolation(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "bad.mp3", "will fail")
	writeSource(t, inputDir, "good.mp3", "will pass")

	db := newFakeDAO()
	// chunk paths live under a scratch dir named after the source base
	c := newTestConverter(&fakeTranscriber{failOn: "bad-"}, db, &fakeSplitter{n: 2})

	err := c.Do(context.Background(), inputDir, outputDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")

	// the healthy file still completed
	_, statErr := os.Stat(filepath.Join(outputDir, "good Transcription.txt"))
	assert.NoError(t, statErr)

	// no partial transcript for the failed file
	_, statErr = os.Stat(filepath.Join(outputDir, "bad Transcription.txt"))
	assert.True(t, os.IsNotExist(statErr))

	records, _ := db.GetAll()
	require.Len(t, records, 2)
	byName := map[string]model.Transcription{}
	for _, r := range records {
		byName[r.FileName] = r
	}
	assert.Equal(t, 1, byName["bad.mp3"].HasError)
	assert.Equal(t, 0, byName["good.mp3"].HasError)
}

func TestDo_SkipsAlreadyProcessedFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "done.mp3", "already handled")

	db := newFakeDAO()
	db.processed["done.mp3"] = 7

	transcriber := &fakeTranscriber{}
	c := newTestConverter(transcriber, db, &fakeSplitter{n: 1})

	require.NoError(t, c.Do(context.Background(), inputDir, outputDir))
	assert.Zero(t, transcriber.calls)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDo_RepeatedRunsAreIdempotent(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "note.m4a", "repeatable")

	db := newFakeDAO()
	c := newTestConverter(&fakeTranscriber{}, db, &fakeSplitter{n: 2})

	require.NoError(t, c.Do(context.Background(), inputDir, outputDir))
	first, err := os.ReadFile(filepath.Join(outputDir, "note Transcription.txt"))
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), inputDir, outputDir))
	second, err := os.ReadFile(filepath.Join(outputDir, "note Transcription.txt"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))

	// no "note Transcription 2.txt" from the second run
	_, statErr := os.Stat(filepath.Join(outputDir, "note Transcription 2.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDo_NormalizerFailureIsRecorded(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeSource(t, inputDir, "broken.mp3", "x")

	db := newFakeDAO()
	c := NewConverter(&fakeTranscriber{}, db, &fakeNormalizer{fail: true},
		&fakeSplitter{n: 1}, nil, &config.Config{Parallel: 1}, zap.NewNop())

	err := c.Do(context.Background(), inputDir, outputDir)
	require.Error(t, err)

	rec := db.lastRecord()
	assert.Equal(t, 1, rec.HasError)
	assert.Contains(t, rec.ErrorMessage, "normalizer down")
}

func TestTranscribeChunks_MergesByIndexNotCompletionOrder(t *testing.T) {
	dir := t.TempDir()
	chunks := make([]model.Chunk, 6)
	for i := range chunks {
		path := filepath.Join(dir, fmt.Sprintf("chunk_%03d.ogg", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("part-%d", i)), 0o644))
		chunks[i] = model.Chunk{Index: i, Path: path}
	}

	c := newTestConverter(&fakeTranscriber{jitter: true}, newFakeDAO(), &fakeSplitter{n: 1})

	fragments, err := c.transcribeChunks(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, fragments, 6)
	for i, f := range fragments {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, fmt.Sprintf("part-%d", i), f.Text)
	}
}

func TestTranscribeChunks_AbortsOnPermanentFailure(t *testing.T) {
	dir := t.TempDir()
	chunks := make([]model.Chunk, 3)
	for i := range chunks {
		path := filepath.Join(dir, fmt.Sprintf("chunk_%03d.ogg", i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		chunks[i] = model.Chunk{Index: i, Path: path}
	}

	c := newTestConverter(&fakeTranscriber{failOn: "chunk_001"}, newFakeDAO(), &fakeSplitter{n: 1})

	_, err := c.transcribeChunks(context.Background(), chunks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRequest))
}
