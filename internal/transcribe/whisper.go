package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

//go:embed assets/whisper_helper.py
var whisperScript []byte

type whisperBackend struct {
	model  string
	python string
	tmpDir string
	// stderr receives the helper's progress lines.
	stderr io.Writer
}

// NewWhisperBackend runs openai-whisper locally through an embedded python helper.
func NewWhisperBackend(model, python, tmpDir string) Backend {
	return &whisperBackend{model: model, python: python, tmpDir: tmpDir, stderr: os.Stderr}
}

type helperOut struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *whisperBackend) Transcribe(ctx context.Context, mediaPath string) (Transcript, error) {
	script, err := os.CreateTemp(w.tmpDir, "vidscribe_whisper_*.py")
	if err != nil {
		return Transcript{}, fmt.Errorf("whisper: write helper script: %w", err)
	}
	defer os.Remove(script.Name())
	if _, err := script.Write(whisperScript); err != nil {
		script.Close()
		return Transcript{}, fmt.Errorf("whisper: write helper script: %w", err)
	}
	if err := script.Close(); err != nil {
		return Transcript{}, fmt.Errorf("whisper: write helper script: %w", err)
	}

	py := w.python
	if py == "" {
		py = "python3"
	}
	cmd := exec.CommandContext(ctx, py, script.Name(), "--media", mediaPath, "--model", w.model)
	var stderr strings.Builder
	if w.stderr != nil {
		cmd.Stderr = io.MultiWriter(w.stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return Transcript{}, fmt.Errorf("whisper: helper failed: %s: %w", lastLine(stderr.String()), err)
		}
		return Transcript{}, fmt.Errorf("whisper: run helper: %w", err)
	}
	return parseHelperOutput(out)
}

func parseHelperOutput(out []byte) (Transcript, error) {
	var parsed helperOut
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Transcript{}, fmt.Errorf("whisper: parse helper output: %w", err)
	}
	tr := Transcript{
		Text:     parsed.Text,
		Language: parsed.Language,
		Duration: time.Duration(parsed.Duration * float64(time.Second)),
		Segments: make([]Segment, 0, len(parsed.Segments)),
	}
	for _, s := range parsed.Segments {
		tr.Segments = append(tr.Segments, Segment{StartSec: s.Start, EndSec: s.End, Text: s.Text})
	}
	return tr, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
