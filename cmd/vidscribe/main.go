package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zudsniper/vidscribe/internal/config"
	"github.com/zudsniper/vidscribe/internal/logging"
	"github.com/zudsniper/vidscribe/internal/media"
	"github.com/zudsniper/vidscribe/internal/output"
	"github.com/zudsniper/vidscribe/internal/pipeline"
	"github.com/zudsniper/vidscribe/internal/source"
	"github.com/zudsniper/vidscribe/internal/transcribe"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit status for an error that was already logged.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error { return &exitError{code: code, err: err} }

func main() {
	config.LoadDefaultEnv()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidscribe [flags] <file-or-url>",
		Short: "Transcribe a local media file or a video URL with Whisper",
		Long: `vidscribe transcribes audio from a local file, or downloads a video from a URL
with yt-dlp and transcribes it. The transcript is printed to stdout with a
[HH:MM:SS] marker at most every --interval seconds.`,
		Example: `  vidscribe talk.mp4
  vidscribe --model small --interval 60 https://youtu.be/dQw4w9WgXcQ
  vidscribe --all-segments --save-transcript talk.txt talk.mp4
  vidscribe --backend openai --format markdown --title "Keynote" talk.mp4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, input string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	runID := logging.NewRunID()
	log := logging.New(logging.Config{Level: cfg.LogLevel, NoColor: cfg.NoColor, Output: stderr}, runID)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitWith(exitUsage, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	backend, err := transcribe.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("backend setup failed")
		return exitWith(exitUsage, err)
	}

	runner := &pipeline.Runner{
		Config: cfg,
		Resolver: &source.Resolver{
			Downloader: source.YTDLP{Binary: cfg.Downloader, Stdout: stderr, Stderr: stderr},
			TmpDir:     cfg.TmpDir,
			SaveVideo:  cfg.SaveVideo,
			RunID:      runID,
			Log:        logging.Component(log, "source"),
		},
		Backend:   backend,
		Extractor: media.Extractor{Output: stderr},
		Log:       logging.Component(log, "pipeline"),
	}

	res, err := runner.Run(ctx, input)
	if err != nil {
		var derr *source.DownloadError
		switch {
		case errors.Is(err, source.ErrInvalidInput):
			log.Error().Str("input", input).Msg("not a valid file path or URL")
			return exitWith(exitOK, err)
		case errors.As(err, &derr):
			log.Error().Err(derr.Err).Str("url", derr.URL).Msg("Failed to download the video. Exiting.")
		default:
			log.Error().Err(err).Msg("transcription aborted")
		}
		return exitWith(exitFailure, err)
	}

	if err := output.Emit(stdout, cfg.SaveTranscript, res.Document); err != nil {
		log.Error().Err(err).Msg("writing output")
		return exitWith(exitFailure, err)
	}
	if cfg.SaveTranscript != "" {
		log.Info().Str("path", cfg.SaveTranscript).Msg("Transcription saved")
	}
	return nil
}
