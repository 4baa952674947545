package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultOpenAIURL = "https://api.openai.com"

// OpenAI speech-to-text via audio.transcriptions with segment timestamps.
type openAIBackend struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIBackend(apiKey, model, baseURL string) Backend {
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	return &openAIBackend{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Minute},
	}
}

type openAIResp struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (o *openAIBackend) Transcribe(ctx context.Context, mediaPath string) (Transcript, error) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"model", o.model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return Transcript{}, fmt.Errorf("openai: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(mediaPath))
	if err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return Transcript{}, fmt.Errorf("openai http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var or openAIResp
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return Transcript{}, fmt.Errorf("openai: decode response: %w", err)
	}

	tr := Transcript{
		Text:     or.Text,
		Language: or.Language,
		Duration: time.Duration(or.Duration * float64(time.Second)),
	}
	for _, s := range or.Segments {
		tr.Segments = append(tr.Segments, Segment{StartSec: s.Start, EndSec: s.End, Text: s.Text})
	}
	if len(tr.Segments) == 0 && or.Text != "" {
		// Models without segment timings: one segment covering everything.
		tr.Segments = []Segment{{StartSec: 0, EndSec: or.Duration, Text: or.Text}}
	}
	return tr, nil
}
