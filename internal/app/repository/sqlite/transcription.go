package sqlite

import (
	"database/sql"
	"fmt"

	"audio-whisper/internal/app/model"

	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name TEXT NOT NULL,
	input_path TEXT NOT NULL,
	audio_duration INTEGER NOT NULL DEFAULT 0,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	transcription TEXT NOT NULL DEFAULT '',
	transcript_path TEXT NOT NULL DEFAULT '',
	last_conversion_time TIMESTAMP NOT NULL,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
);`

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the record store at dbFilePath.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbFilePath, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create transcriptions table: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) CheckIfFileProcessed(fileName string) (int, error) {
	query := `SELECT id FROM transcriptions WHERE file_name = ? AND has_error = 0`
	row := sdb.db.QueryRow(query, fileName)
	var id int
	err := row.Scan(&id)
	return id, err
}

func (sdb *SQLiteDB) Record(t model.Transcription) error {
	insertSQL := `INSERT INTO transcriptions
		(file_name, input_path, audio_duration, chunk_count, transcription, transcript_path, last_conversion_time, has_error, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.Exec(insertSQL,
		t.FileName, t.InputPath, t.AudioDuration, t.ChunkCount,
		t.Transcription, t.TranscriptPath, t.LastConversionTime, t.HasError, t.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert transcription record: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetAll() ([]model.Transcription, error) {
	sqlStr := `
		SELECT id, file_name, input_path, audio_duration, chunk_count, transcription, transcript_path, last_conversion_time, has_error, error_message
		FROM transcriptions
		ORDER BY last_conversion_time DESC;`
	rows, err := sdb.db.Query(sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	transcriptions := make([]model.Transcription, 0)

	for rows.Next() {
		var t model.Transcription
		err = rows.Scan(&t.ID, &t.FileName, &t.InputPath, &t.AudioDuration, &t.ChunkCount,
			&t.Transcription, &t.TranscriptPath, &t.LastConversionTime, &t.HasError, &t.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}

		transcriptions = append(transcriptions, t)
	}
	return transcriptions, rows.Err()
}
