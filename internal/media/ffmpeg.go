package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor pulls a mono 16kHz WAV track out of a media file with ffmpeg.
type Extractor struct {
	// Binary defaults to "ffmpeg".
	Binary string
	// Output receives ffmpeg's own logging; defaults to os.Stderr.
	Output io.Writer
}

// AudioPath is where ExtractAudio writes the track for src inside dir.
func AudioPath(src, dir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(dir, base+"_audio_16k.wav")
}

func ffmpegArgs(src, out string) []string {
	// ffmpeg -y -i input -ac 1 -ar 16000 -f wav output
	return []string{
		"-y", "-i", src,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	}
}

// ExtractAudio writes the extracted track into dir and returns its path.
func (e Extractor) ExtractAudio(ctx context.Context, src, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	out := AudioPath(src, dir)

	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(src, out)...)
	w := e.Output
	if w == nil {
		w = os.Stderr
	}
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w", err)
	}
	return out, nil
}
