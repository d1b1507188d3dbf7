package transcribe

import (
	"github.com/spf13/cobra"

	"audio-whisper/internal/app"
	"audio-whisper/internal/app/logger"
	"audio-whisper/internal/config"
)

var (
	inputDir    string
	outputDir   string
	dbPath      string
	optionsFile string
	language    string
	parallel    int
)

func init() {
	Cmd.Flags().StringVarP(&inputDir, "inputDir", "i", "",
		"directory containing the audio files to transcribe")
	Cmd.Flags().StringVarP(&outputDir, "outputDir", "o", "",
		"directory for transcript output, defaults to the input directory")
	Cmd.Flags().StringVar(&dbPath, "db", "data/transcription.db",
		"sqlite file recording processed files")
	Cmd.Flags().StringVar(&optionsFile, "options", "",
		"YAML file with Whisper request options (model, language, prompt, ...)")
	Cmd.Flags().StringVarP(&language, "language", "l", "",
		"language hint passed through to the API, overrides the options file")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 0,
		"concurrent chunk uploads per file")

	Cmd.MarkFlagRequired("inputDir")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe every audio file in the specified directory",
	Long: `Transcribe every audio file in the specified directory

- Convert each file to mono ogg/opus with ffmpeg
- Split files over the upload limit into time-contiguous chunks
- Upload chunks to the Whisper API and reassemble the text in order
- Write one "<name> Transcription.txt" per source file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := config.NewConfig(dbPath)
		if err != nil {
			return err
		}

		opts, err := config.LoadWhisperOptions(optionsFile)
		if err != nil {
			return err
		}
		cfg.Whisper = opts
		if language != "" {
			cfg.Whisper.Language = language
		}
		if parallel > 0 {
			cfg.Parallel = parallel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.MustNewLogger(verbose)
		defer log.Sync()

		converter, err := app.InitializeConverter(cfg, log)
		if err != nil {
			return err
		}
		defer converter.Close()

		out := outputDir
		if out == "" {
			out = inputDir
		}

		return converter.Do(cmd.Context(), inputDir, out)
	},
}
