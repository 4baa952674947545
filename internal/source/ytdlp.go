package source

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// YTDLP downloads media by shelling out to yt-dlp.
type YTDLP struct {
	// Binary defaults to "yt-dlp".
	Binary string
	// Stdout and Stderr receive the tool's progress output. Both default to
	// os.Stderr so stdout stays reserved for the transcript.
	Stdout io.Writer
	Stderr io.Writer
}

func (y YTDLP) args(url, destPath string) []string {
	// yt-dlp -f mp4 -o <dest> <url>
	return []string{"-f", "mp4", "-o", destPath, url}
}

// Fetch runs the downloader and fails with a *DownloadError on a non-zero exit.
func (y YTDLP) Fetch(ctx context.Context, url, destPath string) error {
	bin := y.Binary
	if bin == "" {
		bin = "yt-dlp"
	}
	cmd := exec.CommandContext(ctx, bin, y.args(url, destPath)...)
	cmd.Stdout = orStderr(y.Stdout)
	cmd.Stderr = orStderr(y.Stderr)
	if err := cmd.Run(); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	return nil
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}
