package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"audio-whisper/internal/app/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// audioExtensions lists the container/codec formats the API accepts.
var audioExtensions = []string{
	".mp3", ".mp4", ".m4a", ".wav", ".aac", ".webm",
	".mpeg", ".mpga", ".flac", ".ogg", ".oga", ".opus", ".amr",
}

// IsAudioFile reports whether the file name has a recognized audio extension.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return lo.Contains(audioExtensions, ext)
}

// GetAllAudioFiles lists the audio files in inputDir sorted oldest first.
// Subdirectories (including the scratch tree) are not descended into.
func GetAllAudioFiles(inputDir string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	candidates := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && IsAudioFile(e.Name())
	})

	fileInfos := make([]model.FileInfo, 0, len(candidates))
	for _, entry := range candidates {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: filepath.Join(inputDir, entry.Name()),
			ModTime:  info.ModTime(),
			Name:     entry.Name(),
		})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

// EnsureDirectory creates dir and its parents when missing.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WipeDirectory removes dir and everything under it. A missing dir is fine.
func WipeDirectory(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", dir, err)
	}
	return nil
}

// ScratchDir returns a fresh, collision-free staging directory for one
// source file under root. The uuid suffix keeps per-file scratch space
// disjoint even for identically named sources.
func ScratchDir(root, sourceName string) string {
	base := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return filepath.Join(root, base+"-"+uuid.NewString()[:8])
}

// TranscriptPath returns the output path for a source file's transcript:
// "<base> Transcription.txt", with a sequential counter appended when the
// name is already taken.
func TranscriptPath(outputDir, sourceName string) string {
	base := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	path := filepath.Join(outputDir, base+" Transcription.txt")

	counter := 2
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(outputDir, fmt.Sprintf("%s Transcription %d.txt", base, counter))
		counter++
	}
}

// WriteFileAtomic writes content to path via a temp file and rename, so a
// crash mid-write never leaves a truncated file at the final path.
func WriteFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := EnsureDirectory(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-transcript-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
