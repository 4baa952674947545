// Package config holds the vidscribe run configuration. Values come from
// command-line flags, VIDSCRIBE_* environment variables and env files, in
// that order of precedence, with the flag defaults last.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VIDSCRIBE"

const (
	BackendLocal      = "local"
	BackendOpenAI     = "openai"
	BackendCloudflare = "cloudflare"

	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Models lists the accepted local whisper model sizes.
var Models = []string{"tiny", "base", "small", "medium", "large"}

type Config struct {
	Model   string `mapstructure:"model" validate:"required,oneof=tiny base small medium large"`
	Backend string `mapstructure:"backend" validate:"required,oneof=local openai cloudflare"`

	Interval     float64 `mapstructure:"interval" validate:"notnan"`
	AllSegments  bool    `mapstructure:"all-segments"`
	NoTimestamps bool    `mapstructure:"no-timestamps"`
	Format       string  `mapstructure:"format" validate:"required,oneof=text markdown"`
	Title        string  `mapstructure:"title"`

	SaveVideo      string `mapstructure:"save-video"`
	SaveTranscript string `mapstructure:"save-transcript"`
	TmpDir         string `mapstructure:"tmpdir"`
	ExtractAudio   bool   `mapstructure:"extract-audio"`
	Downloader     string `mapstructure:"downloader" validate:"required"`
	Python         string `mapstructure:"python" validate:"required"`

	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	LogLevel string        `mapstructure:"log-level" validate:"required,oneof=trace debug info warn error"`
	NoColor  bool          `mapstructure:"no-color"`

	OpenAIAPIKey  string `mapstructure:"openai-api-key" validate:"required_if=Backend openai"`
	OpenAIModel   string `mapstructure:"openai-model" validate:"required_if=Backend openai"`
	OpenAIBaseURL string `mapstructure:"openai-base-url" validate:"omitempty,url"`

	CFAccountID string `mapstructure:"cf-account-id" validate:"required_if=Backend cloudflare"`
	CFAPIToken  string `mapstructure:"cf-api-token" validate:"required_if=Backend cloudflare"`
	CFModel     string `mapstructure:"cf-model" validate:"required_if=Backend cloudflare"`
	CFBaseURL   string `mapstructure:"cf-base-url" validate:"omitempty,url"`
}

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("model", "base", "Whisper model to use: "+strings.Join(Models, "|"))
	fs.String("backend", BackendLocal, "Transcription backend: local|openai|cloudflare")

	fs.Float64("interval", 30.0, "Minimum seconds between timestamp markers")
	fs.Bool("all-segments", false, "Put a timestamp on every segment")
	fs.Bool("no-timestamps", false, "Print plain text without timestamp markers")
	fs.String("format", FormatText, "Transcript format: text|markdown")
	fs.String("title", "", "Document title (markdown format)")

	fs.String("save-video", "", "Path to save the downloaded video (URL mode only)")
	fs.String("save-transcript", "", "Path to save the transcription text")
	fs.String("tmpdir", "", "Temporary working directory (default system temp)")
	fs.Bool("extract-audio", false, "Extract mono 16kHz audio with ffmpeg before transcribing")
	fs.String("downloader", "yt-dlp", "Downloader binary used for URLs")
	fs.String("python", "python3", "Python interpreter for the local whisper backend")

	fs.Duration("timeout", 2*time.Hour, "Deadline for the whole run (0 disables)")
	fs.String("log-level", "info", "Log level: trace|debug|info|warn|error")
	fs.Bool("no-color", false, "Disable colored log output")

	fs.String("openai-api-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	fs.String("openai-model", "whisper-1", "OpenAI transcription model")
	fs.String("openai-base-url", "", "OpenAI API base URL override")

	fs.String("cf-account-id", "", "Cloudflare Account ID (or CF_ACCOUNT_ID)")
	fs.String("cf-api-token", "", "Cloudflare API Token (or CF_API_TOKEN)")
	fs.String("cf-model", "@cf/openai/whisper", "Cloudflare AI model identifier")
	fs.String("cf-base-url", "", "Cloudflare API base URL override")
}

// wellKnownEnv maps keys to the unprefixed variables other tools already use.
var wellKnownEnv = map[string]string{
	"openai-api-key": "OPENAI_API_KEY",
	"cf-account-id":  "CF_ACCOUNT_ID",
	"cf-api-token":   "CF_API_TOKEN",
}

// Load resolves the configuration from flags previously registered with
// RegisterFlags and the environment. It does not validate.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	for key, name := range wellKnownEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ModelName reports the model the selected backend will actually use.
func (c Config) ModelName() string {
	switch c.Backend {
	case BackendOpenAI:
		return c.OpenAIModel
	case BackendCloudflare:
		return c.CFModel
	default:
		return c.Model
	}
}
