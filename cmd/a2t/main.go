package main

import (
	"audio-whisper/cmd/a2t/cmd"
)

func main() {
	cmd.Execute()
}
