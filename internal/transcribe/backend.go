package transcribe

import (
	"context"
	"time"
)

// Segment represents a portion of transcribed audio.
// Text is kept exactly as the engine produced it.
type Segment struct {
	StartSec float64
	EndSec   float64
	Text     string
}

// Transcript bundles the engine's full text and its segments.
type Transcript struct {
	Text     string
	Language string
	Segments []Segment
	Duration time.Duration
}

// Backend is a pluggable transcription backend.
type Backend interface {
	Transcribe(ctx context.Context, mediaPath string) (Transcript, error)
}
