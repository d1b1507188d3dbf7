package export

import (
	"fmt"

	"github.com/spf13/cobra"

	xlsxexport "audio-whisper/internal/app/converter/export"
	"audio-whisper/internal/app/repository/sqlite"
)

var (
	dbPath     string
	outputFile string
)

func init() {
	Cmd.Flags().StringVar(&dbPath, "db", "data/transcription.db",
		"sqlite file recording processed files")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "transcriptions.xlsx",
		"path of the xlsx file to write")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded transcriptions to an xlsx spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sqlite.NewSQLiteDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		transcriptions, err := db.GetAll()
		if err != nil {
			return err
		}

		if err := xlsxexport.ToExcel(transcriptions, outputFile); err != nil {
			return err
		}

		fmt.Printf("Exported %d records to %s\n", len(transcriptions), outputFile)
		return nil
	},
}
