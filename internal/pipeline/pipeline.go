// Package pipeline runs one invocation end to end: resolve the input,
// transcribe it and render the transcript. Every staged file is released
// before Run returns, whatever the outcome.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/zudsniper/vidscribe/internal/config"
	"github.com/zudsniper/vidscribe/internal/output"
	"github.com/zudsniper/vidscribe/internal/source"
	"github.com/zudsniper/vidscribe/internal/transcribe"
)

// Resolver turns user input into a local media file.
type Resolver interface {
	Resolve(ctx context.Context, input string) (*source.Source, error)
}

// AudioExtractor produces an audio-only file from src inside dir.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, src, dir string) (string, error)
}

// Runner wires the stages together.
type Runner struct {
	Config    config.Config
	Resolver  Resolver
	Backend   transcribe.Backend
	Extractor AudioExtractor
	Log       zerolog.Logger
	// Now stamps markdown documents; defaults to time.Now.
	Now func() time.Time
}

// Result is a finished transcription.
type Result struct {
	// Document is the rendered output, ready for the sink.
	Document   string
	Transcript transcribe.Transcript
	Source     string
}

// Run processes one input. On error no document is produced.
func (r *Runner) Run(ctx context.Context, input string) (Result, error) {
	src, err := r.Resolver.Resolve(ctx, input)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := src.Release(); err != nil {
			r.Log.Warn().Err(err).Msg("release staged media")
		}
	}()

	mediaPath := src.Path
	if r.Config.ExtractAudio && r.Extractor != nil {
		dir, err := os.MkdirTemp(r.Config.TmpDir, "vidscribe-audio-*")
		if err != nil {
			return Result{}, fmt.Errorf("create audio dir: %w", err)
		}
		defer os.RemoveAll(dir)

		r.Log.Info().Msg("Extracting audio via ffmpeg...")
		mediaPath, err = r.Extractor.ExtractAudio(ctx, src.Path, dir)
		if err != nil {
			return Result{}, fmt.Errorf("audio extraction failed: %w", err)
		}
		r.Log.Info().Str("path", mediaPath).Msg("Audio ready")
	}

	r.Log.Info().
		Str("backend", r.Config.Backend).
		Str("model", r.Config.ModelName()).
		Msg("Transcribing audio...")
	tr, err := r.Backend.Transcribe(ctx, mediaPath)
	if err != nil {
		return Result{}, fmt.Errorf("transcription failed: %w", err)
	}
	r.Log.Info().Int("segments", len(tr.Segments)).Msg("Transcription done")

	return Result{
		Document:   r.render(src, tr),
		Transcript: tr,
		Source:     src.Input,
	}, nil
}

// Body builds the transcript text for the configured timestamp mode.
func Body(cfg config.Config, tr transcribe.Transcript) string {
	if cfg.NoTimestamps {
		if len(tr.Segments) == 0 {
			return strings.TrimLeftFunc(tr.Text, unicode.IsSpace)
		}
		return output.Plain(tr.Segments)
	}
	return output.Timestamped(tr.Segments, output.Options{
		Interval:    cfg.Interval,
		AllSegments: cfg.AllSegments,
	})
}

func (r *Runner) render(src *source.Source, tr transcribe.Transcript) string {
	body := Body(r.Config, tr)
	if r.Config.Format != config.FormatMarkdown {
		return body
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return output.RenderMarkdown(output.Metadata{
		Title:     r.Config.Title,
		Source:    src.Input,
		Backend:   r.Config.Backend,
		Model:     r.Config.ModelName(),
		Language:  tr.Language,
		Duration:  tr.Duration,
		Generated: now().Format(time.RFC3339),
	}, body)
}
