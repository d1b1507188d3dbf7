package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WhisperOptions are request settings passed through to the API unchanged.
type WhisperOptions struct {
	Model          string  `yaml:"model"`
	Language       string  `yaml:"language"`
	Prompt         string  `yaml:"prompt"`
	Temperature    float32 `yaml:"temperature"`
	ResponseFormat string  `yaml:"response_format"`
}

// DefaultWhisperOptions returns the speech transcription defaults.
func DefaultWhisperOptions() WhisperOptions {
	return WhisperOptions{
		Model:          "whisper-1",
		Language:       "en",
		Temperature:    0,
		ResponseFormat: "text",
	}
}

// LoadWhisperOptions reads options from a YAML file. A missing file yields
// the defaults; a malformed file is an error rather than a silent fallback.
func LoadWhisperOptions(path string) (WhisperOptions, error) {
	opts := DefaultWhisperOptions()

	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options YAML: %w", err)
	}
	return opts, nil
}
