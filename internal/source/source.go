// Package source turns a user-supplied input into a local media file,
// downloading remote URLs into a staging directory when needed.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ErrInvalidInput is returned when the input is neither an existing file nor a URL.
var ErrInvalidInput = errors.New("not a valid file path or URL")

// DownloadError reports a failed fetch of a remote URL.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Downloader fetches a remote media URL into destPath.
type Downloader interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Kind tells where a Source came from.
type Kind int

const (
	Local Kind = iota
	Remote
)

func (k Kind) String() string {
	if k == Remote {
		return "remote"
	}
	return "local"
}

// Source is a media file ready to transcribe.
type Source struct {
	Path  string
	Kind  Kind
	Input string

	stagingDir string
}

// StagingDir is the temporary directory holding the download, if any.
func (s *Source) StagingDir() string { return s.stagingDir }

// Release removes the staging directory. It is safe to call more than once
// and on sources that never had one.
func (s *Source) Release() error {
	if s == nil || s.stagingDir == "" {
		return nil
	}
	dir := s.stagingDir
	s.stagingDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove staging dir %s: %w", dir, err)
	}
	return nil
}

var urlPrefixes = []string{"http://", "https://", "www.", "youtube.com", "youtu.be"}

// IsLikelyURL is a simple check to determine if the input is likely a URL.
func IsLikelyURL(s string) bool {
	for _, p := range urlPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Resolver classifies inputs and stages remote downloads.
type Resolver struct {
	Downloader Downloader
	// TmpDir is the parent of staging directories. Empty means os.TempDir().
	TmpDir string
	// SaveVideo, when set, is where downloads are kept instead of a staging dir.
	SaveVideo string
	// RunID names the staging directory.
	RunID string
	Log   zerolog.Logger
}

// Resolve returns a local file for input. Callers must Release the Source.
// On error nothing is left staged.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Source, error) {
	if _, err := os.Stat(input); err == nil {
		r.Log.Info().Str("path", input).Msg("Using local file")
		if r.SaveVideo != "" {
			r.Log.Warn().Str("save_video", r.SaveVideo).Msg("--save-video only applies to URLs; ignoring")
		}
		return &Source{Path: input, Kind: Local, Input: input}, nil
	}
	if !IsLikelyURL(input) {
		return nil, fmt.Errorf("%q: %w", input, ErrInvalidInput)
	}
	if r.Downloader == nil {
		return nil, &DownloadError{URL: input, Err: errors.New("no downloader configured")}
	}

	r.Log.Info().Str("url", input).Msg("Detected URL input")
	src := &Source{Kind: Remote, Input: input}
	if r.SaveVideo != "" {
		src.Path = r.SaveVideo
	} else {
		dir, err := os.MkdirTemp(r.TmpDir, stagingPattern(r.RunID))
		if err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
		src.stagingDir = dir
		src.Path = filepath.Join(dir, "video.mp4")
	}

	r.Log.Info().Str("dest", src.Path).Msg("Downloading video...")
	if err := r.Downloader.Fetch(ctx, input, src.Path); err != nil {
		if rerr := src.Release(); rerr != nil {
			r.Log.Warn().Err(rerr).Msg("cleanup after failed download")
		}
		var derr *DownloadError
		if errors.As(err, &derr) {
			return nil, derr
		}
		return nil, &DownloadError{URL: input, Err: err}
	}
	r.Log.Info().Str("path", src.Path).Msg("Video downloaded successfully")
	return src, nil
}

func stagingPattern(runID string) string {
	if runID == "" {
		return "vidscribe-*"
	}
	return "vidscribe-" + runID + "-*"
}
