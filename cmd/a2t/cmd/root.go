package cmd

import (
	"os"

	"audio-whisper/cmd/a2t/cmd/export"
	"audio-whisper/cmd/a2t/cmd/transcribe"
	"audio-whisper/cmd/a2t/cmd/version"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Batch convert local audio files to text transcripts",
	Long: `Batch convert local audio files to text transcripts.
- Audio is converted to a compact speech format with ffmpeg
- Oversized files are split into chunks under the API upload limit
- Each chunk is transcribed remotely and the pieces are reassembled in order
- Processed records are saved to sqlite so re-runs skip finished files.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}
