package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultCloudflareURL = "https://api.cloudflare.com"

// Cloudflare Workers AI backend.
// POST {base}/client/v4/accounts/{account_id}/ai/run/{model}
// with the raw audio as body and a bearer API token.
type cloudflareBackend struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	client    *http.Client
}

func NewCloudflareBackend(accountID, apiToken, model, baseURL string) Backend {
	if baseURL == "" {
		baseURL = defaultCloudflareURL
	}
	return &cloudflareBackend{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 60 * time.Minute},
	}
}

type cfResp struct {
	Success bool            `json:"success"`
	Errors  []any           `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type cfWhisperResult struct {
	Text  string `json:"text"`
	Words []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func (c *cloudflareBackend) Transcribe(ctx context.Context, mediaPath string) (Transcript, error) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return Transcript{}, fmt.Errorf("cloudflare: %w", err)
	}
	defer f.Close()

	url := fmt.Sprintf("%s/client/v4/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return Transcript{}, fmt.Errorf("cloudflare: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("cloudflare: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return Transcript{}, fmt.Errorf("cloudflare http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var cr cfResp
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Transcript{}, fmt.Errorf("cloudflare: decode response: %w", err)
	}
	if !cr.Success {
		return Transcript{}, fmt.Errorf("cloudflare response not successful: %v", cr.Errors)
	}
	var wr cfWhisperResult
	if err := json.Unmarshal(cr.Result, &wr); err != nil {
		return Transcript{}, fmt.Errorf("cloudflare unexpected result: %w", err)
	}

	tr := Transcript{Text: wr.Text}
	for _, w := range wr.Words {
		tr.Segments = append(tr.Segments, Segment{StartSec: w.Start, EndSec: w.End, Text: w.Word})
	}
	if len(tr.Segments) == 0 && wr.Text != "" {
		tr.Segments = []Segment{{Text: wr.Text}}
	}
	if n := len(tr.Segments); n > 0 {
		tr.Duration = time.Duration(tr.Segments[n-1].EndSec * float64(time.Second))
	}
	return tr, nil
}
