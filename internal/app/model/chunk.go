package model

// Chunk is one time-contiguous slice of a normalized audio file, small enough
// to upload in a single transcription request. Index is 0-based and gapless;
// slicing a file and concatenating its chunks in index order reproduces the
// original audio.
type Chunk struct {
	Index    int
	Path     string
	Size     int64
	Start    float64 // seconds from the beginning of the source
	Duration float64 // seconds
}

// TranscriptFragment is the text returned for one chunk, tagged with that
// chunk's index so fragments can be merged regardless of completion order.
type TranscriptFragment struct {
	Index int
	Text  string
}
