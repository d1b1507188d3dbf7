package export

import (
	"fmt"
	"time"

	"audio-whisper/internal/app/model"

	"github.com/tealeg/xlsx"
)

// ToExcel writes the transcription records to an xlsx spreadsheet.
func ToExcel(transcriptions []model.Transcription, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "File Name"
	headerRow.AddCell().Value = "Input Path"
	headerRow.AddCell().Value = "Audio Duration (s)"
	headerRow.AddCell().Value = "Chunks"
	headerRow.AddCell().Value = "Transcript Path"
	headerRow.AddCell().Value = "Converted At"
	headerRow.AddCell().Value = "Error Message"

	for _, t := range transcriptions {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.FileName
		row.AddCell().Value = t.InputPath
		row.AddCell().Value = fmt.Sprint(t.AudioDuration)
		row.AddCell().Value = fmt.Sprint(t.ChunkCount)
		row.AddCell().Value = t.TranscriptPath
		row.AddCell().Value = t.LastConversionTime.Format(time.RFC3339)
		row.AddCell().Value = t.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
