package converter

import (
	"strings"

	"audio-whisper/internal/app/errors"
	"audio-whisper/internal/app/model"
	"audio-whisper/internal/app/util/files"
)

// FragmentSeparator joins fragment texts at chunk boundaries.
const FragmentSeparator = "\n"

// Reassembler turns the complete set of per-chunk transcript fragments into
// one transcript. It is insensitive to fragment arrival order: output depends
// only on fragment indices.
type Reassembler struct{}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Assemble concatenates fragment texts in index order. It refuses to proceed
// unless every index 0..expected-1 is present exactly once.
func (r *Reassembler) Assemble(fragments []model.TranscriptFragment, expected int) (string, error) {
	if expected < 1 {
		return "", errors.Kind(errors.ErrIncompleteTranscript, "expected at least one fragment")
	}

	texts := make([]string, expected)
	seen := make([]bool, expected)

	for _, f := range fragments {
		if f.Index < 0 || f.Index >= expected {
			return "", errors.Kind(errors.ErrIncompleteTranscript,
				"fragment index %d outside 0..%d", f.Index, expected-1)
		}
		if seen[f.Index] {
			return "", errors.Kind(errors.ErrIncompleteTranscript,
				"duplicate fragment for index %d", f.Index)
		}
		seen[f.Index] = true
		texts[f.Index] = f.Text
	}

	for i, ok := range seen {
		if !ok {
			return "", errors.Kind(errors.ErrIncompleteTranscript,
				"missing fragment %d of %d", i, expected)
		}
	}

	return strings.Join(texts, FragmentSeparator), nil
}

// Write persists the transcript atomically, so a crash mid-write never
// leaves a truncated transcript at the final path.
func (r *Reassembler) Write(transcript, outputPath string) error {
	if err := files.WriteFileAtomic(outputPath, transcript); err != nil {
		return errors.KindWrap(errors.ErrIO, err, "failed to write transcript %s", outputPath)
	}
	return nil
}
