package transcribe

import (
	"fmt"

	"github.com/zudsniper/vidscribe/internal/config"
)

// New picks the backend named by cfg.Backend.
func New(cfg config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendLocal, "":
		return NewWhisperBackend(cfg.Model, cfg.Python, cfg.TmpDir), nil
	case config.BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai backend selected but API key is missing")
		}
		return NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), nil
	case config.BackendCloudflare:
		if cfg.CFAccountID == "" || cfg.CFAPIToken == "" {
			return nil, fmt.Errorf("cloudflare backend requires cf-account-id and cf-api-token")
		}
		return NewCloudflareBackend(cfg.CFAccountID, cfg.CFAPIToken, cfg.CFModel, cfg.CFBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
