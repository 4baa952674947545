package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zudsniper/vidscribe/internal/config"
	"github.com/zudsniper/vidscribe/internal/source"
	"github.com/zudsniper/vidscribe/internal/transcribe"
)

type writingDownloader struct{ err error }

func (d writingDownloader) Fetch(_ context.Context, _, dest string) error {
	if err := os.WriteFile(dest, []byte("media"), 0o644); err != nil {
		return err
	}
	return d.err
}

type fakeBackend struct {
	tr      transcribe.Transcript
	err     error
	gotPath string
	existed bool
}

func (b *fakeBackend) Transcribe(_ context.Context, path string) (transcribe.Transcript, error) {
	b.gotPath = path
	_, statErr := os.Stat(path)
	b.existed = statErr == nil
	return b.tr, b.err
}

type fakeExtractor struct {
	dir string
	err error
}

func (e *fakeExtractor) ExtractAudio(_ context.Context, _, dir string) (string, error) {
	e.dir = dir
	if e.err != nil {
		if err := os.WriteFile(filepath.Join(dir, "partial.wav"), []byte("wa"), 0o644); err != nil {
			return "", err
		}
		return "", e.err
	}
	out := filepath.Join(dir, "audio.wav")
	return out, os.WriteFile(out, []byte("wav"), 0o644)
}

var helloWorld = transcribe.Transcript{
	Text:     " Hello world Next line",
	Language: "en",
	Segments: []transcribe.Segment{
		{StartSec: 0, Text: " Hello"},
		{StartSec: 5, Text: " world"},
		{StartSec: 35, Text: " Next line"},
	},
}

func baseConfig(tmp string) config.Config {
	return config.Config{
		Model:    "base",
		Backend:  config.BackendLocal,
		Interval: 30,
		Format:   config.FormatText,
		TmpDir:   tmp,
	}
}

func newRunner(t *testing.T, cfg config.Config, d source.Downloader, b transcribe.Backend) *Runner {
	t.Helper()
	log := zerolog.New(io.Discard)
	return &Runner{
		Config:   cfg,
		Resolver: &source.Resolver{Downloader: d, TmpDir: cfg.TmpDir, RunID: "test", Log: log},
		Backend:  b,
		Log:      log,
	}
}

func TestRun_RemoteInput(t *testing.T) {
	tmp := t.TempDir()
	b := &fakeBackend{tr: helloWorld}
	r := newRunner(t, baseConfig(tmp), writingDownloader{}, b)

	res, err := r.Run(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Document != "[00:00:00] Hello world\n[00:00:35] Next line" {
		t.Fatalf("document = %q", res.Document)
	}
	if !b.existed || !strings.HasPrefix(b.gotPath, tmp) {
		t.Fatalf("backend saw %q (exists=%v)", b.gotPath, b.existed)
	}
	assertEmpty(t, tmp)
}

func TestRun_TranscriptionFailureReleasesStaging(t *testing.T) {
	tmp := t.TempDir()
	boom := errors.New("model exploded")
	b := &fakeBackend{err: boom}
	r := newRunner(t, baseConfig(tmp), writingDownloader{}, b)

	res, err := r.Run(context.Background(), "https://youtu.be/abc")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if res.Document != "" {
		t.Fatalf("no document on failure, got %q", res.Document)
	}
	if !b.existed {
		t.Fatal("download should exist while transcribing")
	}
	assertEmpty(t, tmp)
}

func TestRun_DownloadFailure(t *testing.T) {
	tmp := t.TempDir()
	b := &fakeBackend{}
	r := newRunner(t, baseConfig(tmp), writingDownloader{err: errors.New("exit status 1")}, b)

	_, err := r.Run(context.Background(), "https://youtu.be/abc")
	var derr *source.DownloadError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}
	if b.gotPath != "" {
		t.Fatal("backend must not run after a failed download")
	}
	assertEmpty(t, tmp)
}

func TestRun_InvalidInput(t *testing.T) {
	b := &fakeBackend{}
	r := newRunner(t, baseConfig(t.TempDir()), writingDownloader{}, b)
	_, err := r.Run(context.Background(), "no-such-file.mp4")
	if !errors.Is(err, source.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if b.gotPath != "" {
		t.Fatal("backend must not run on invalid input")
	}
}

func TestRun_LocalWithExtraction(t *testing.T) {
	tmp := t.TempDir()
	local := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(local, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig(tmp)
	cfg.ExtractAudio = true
	cfg.AllSegments = true
	b := &fakeBackend{tr: helloWorld}
	ex := &fakeExtractor{}
	r := newRunner(t, cfg, nil, b)
	r.Extractor = ex

	res, err := r.Run(context.Background(), local)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.gotPath != filepath.Join(ex.dir, "audio.wav") || !b.existed {
		t.Fatalf("backend saw %q", b.gotPath)
	}
	if res.Document != "[00:00:00] Hello\n[00:00:05] world\n[00:00:35] Next line" {
		t.Fatalf("document = %q", res.Document)
	}
	if _, err := os.Stat(local); err != nil {
		t.Fatalf("local input must be kept: %v", err)
	}
	assertEmpty(t, tmp)
}

func TestRun_ExtractionFailureReleasesEverything(t *testing.T) {
	tmp := t.TempDir()
	cfg := baseConfig(tmp)
	cfg.ExtractAudio = true
	ffmpegErr := errors.New("ffmpeg: exit status 1")
	b := &fakeBackend{tr: helloWorld}
	ex := &fakeExtractor{err: ffmpegErr}
	r := newRunner(t, cfg, writingDownloader{}, b)
	r.Extractor = ex

	res, err := r.Run(context.Background(), "https://youtu.be/abc")
	if !errors.Is(err, ffmpegErr) {
		t.Fatalf("expected wrapped extraction error, got %v", err)
	}
	if res.Document != "" {
		t.Fatalf("no document on failure, got %q", res.Document)
	}
	if b.gotPath != "" {
		t.Fatal("backend must not run after a failed extraction")
	}
	if ex.dir == "" {
		t.Fatal("extractor was not called")
	}
	if _, err := os.Stat(ex.dir); !os.IsNotExist(err) {
		t.Fatalf("audio dir should be removed, stat err = %v", err)
	}
	assertEmpty(t, tmp)
}

func TestRun_Markdown(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	cfg.Format = config.FormatMarkdown
	cfg.Title = "Keynote"
	r := newRunner(t, cfg, writingDownloader{}, &fakeBackend{tr: helloWorld})
	r.Now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }

	res, err := r.Run(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		"# Keynote\n",
		"- Source: `https://youtu.be/abc`\n",
		"- Model: `base`\n",
		"- Generated: 2026-10-17T09:00:00Z\n",
		"---\n\n[00:00:00] Hello world\n[00:00:35] Next line",
	} {
		if !strings.Contains(res.Document, want) {
			t.Errorf("missing %q in %q", want, res.Document)
		}
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		tr   transcribe.Transcript
		want string
	}{
		{"interval", config.Config{Interval: 30}, helloWorld, "[00:00:00] Hello world\n[00:00:35] Next line"},
		{"no timestamps", config.Config{Interval: 30, NoTimestamps: true}, helloWorld, "Hello world Next line"},
		{"no timestamps text fallback", config.Config{NoTimestamps: true}, transcribe.Transcript{Text: "  only text"}, "only text"},
		{"empty", config.Config{Interval: 30}, transcribe.Transcript{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Body(tt.cfg, tt.tr); got != tt.want {
				t.Fatalf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func assertEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("%s not cleaned up: %v", dir, names)
	}
}
