package repository

import (
	"audio-whisper/internal/app/model"
)

// TranscriptionDAO records per-file pipeline outcomes. Successful records
// make re-runs idempotent: a file recorded without error is skipped the next
// time the batch sees it.
type TranscriptionDAO interface {
	Close() error

	GetAll() ([]model.Transcription, error)

	// CheckIfFileProcessed returns the record id for a file already
	// transcribed without error, or an error when no such record exists.
	CheckIfFileProcessed(fileName string) (int, error)

	Record(t model.Transcription) error
}
