package model

import "time"

type Transcription struct {
	ID                 int
	FileName           string
	InputPath          string
	AudioDuration      int
	ChunkCount         int
	Transcription      string
	TranscriptPath     string
	LastConversionTime time.Time
	HasError           int
	ErrorMessage       string
}
