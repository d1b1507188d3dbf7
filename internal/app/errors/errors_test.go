package errors

import (
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := Kind(ErrRateLimit, "429 after %d attempts", 3)

	if !Is(err, ErrRateLimit) {
		t.Error("kind error should match its kind")
	}
	if Is(err, ErrRequest) {
		t.Error("kind error must not match a different kind")
	}
	if KindOf(err) != ErrRateLimit {
		t.Errorf("KindOf = %v, want ErrRateLimit", KindOf(err))
	}
}

func TestKindWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := KindWrap(ErrConversion, cause, "ffmpeg failed for %s", "a.mp3")

	if !Is(err, ErrConversion) {
		t.Error("wrapped error should match its kind")
	}
	if got := err.Error(); got != "ffmpeg failed for a.mp3: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := Kind(ErrChunkTooLarge, "chunk 2 is 25MB")
	outer := Wrapf(inner, "processing %s", "big.wav")

	if !Is(outer, ErrChunkTooLarge) {
		t.Error("kind should be found through wrapping layers")
	}
	if KindOf(outer) != ErrChunkTooLarge {
		t.Error("KindOf should walk the chain")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("wrapping nil must return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{Kind(ErrRateLimit, "throttled"), true},
		{Wrapf(Kind(ErrRateLimit, "throttled"), "chunk 3"), true},
		{Kind(ErrRequest, "401 unauthorized"), false},
		{Kind(ErrChunkTooLarge, "too big"), false},
		{fmt.Errorf("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(fmt.Errorf("plain")) != nil {
		t.Error("plain errors have no kind")
	}
	if KindOf(nil) != nil {
		t.Error("nil has no kind")
	}
}
