// Package llm seats a language model through an OpenAI-compatible chat
// completions API. Gemini is reached through Google's OpenAI-compatible
// endpoint.
package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Role is the job a model call performs. Each role has its own temperature
// and may use its own model.
type Role string

const (
	RoleSpeaker    Role = "speaker"
	RoleEstimator  Role = "estimator"
	RoleDiscussion Role = "discussion"
)

// Temperature returns the sampling temperature for the role.
func (r Role) Temperature() float64 {
	switch r {
	case RoleSpeaker:
		return 0.7
	case RoleDiscussion:
		return 0.2
	}
	return 0
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.5-flash-lite"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultGeminiBase  = "https://generativelanguage.googleapis.com/v1beta/openai"

	placeholderKey = "your-api-key-here"
)

// Flag is a boolean that also accepts yes/on, case-insensitively.
type Flag bool

func (f *Flag) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Config is read from the environment.
type Config struct {
	Provider        string        `env:"ITO_PROVIDER" envDefault:"openai"`
	Model           string        `env:"ITO_MODEL"`
	SpeakerModel    string        `env:"ITO_SPEAKER_MODEL"`
	EstimatorModel  string        `env:"ITO_ESTIMATOR_MODEL"`
	DiscussionModel string        `env:"ITO_DISCUSSION_MODEL"`
	OpenAIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBase      string        `env:"OPENAI_API_BASE"`
	GeminiKey       string        `env:"GEMINI_API_KEY"`
	GoogleKey       string        `env:"GOOGLE_API_KEY"`
	ForceMock       Flag          `env:"ITO_FORCE_MOCK"`
	Timeout         time.Duration `env:"ITO_LLM_TIMEOUT" envDefault:"60s"`
}

// LoadConfig loads the given dotenv files (".env" when none are named) and
// parses the environment. Missing dotenv files are ignored; variables
// already set in the environment win.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ProviderName normalises Provider. Anything but gemini is openai.
func (c Config) ProviderName() string {
	if strings.EqualFold(strings.TrimSpace(c.Provider), ProviderGemini) {
		return ProviderGemini
	}
	return ProviderOpenAI
}

// ModelFor returns the model for role: the role override, then ITO_MODEL,
// then the provider default.
func (c Config) ModelFor(role Role) string {
	var override string
	switch role {
	case RoleSpeaker:
		override = c.SpeakerModel
	case RoleEstimator:
		override = c.EstimatorModel
	case RoleDiscussion:
		override = c.DiscussionModel
	}
	switch {
	case override != "":
		return override
	case c.Model != "":
		return c.Model
	case c.ProviderName() == ProviderGemini:
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

// APIKey returns the credential for the provider, or "" when none is set.
func (c Config) APIKey() string {
	candidates := []string{c.OpenAIKey}
	if c.ProviderName() == ProviderGemini {
		candidates = []string{c.GoogleKey, c.GeminiKey, c.OpenAIKey}
	}
	for _, k := range candidates {
		k = strings.TrimSpace(k)
		if k != "" && k != placeholderKey {
			return k
		}
	}
	return ""
}

// BaseURL returns the chat completions base URL without a trailing slash.
func (c Config) BaseURL() string {
	if c.ProviderName() == ProviderGemini {
		return defaultGeminiBase
	}
	if base := strings.TrimSpace(c.OpenAIBase); base != "" {
		return strings.TrimRight(base, "/")
	}
	return defaultOpenAIBase
}

// Mock reports whether model calls should be replaced by the scripted
// policy: forced, or no usable credential.
func (c Config) Mock() bool {
	return bool(c.ForceMock) || c.APIKey() == ""
}
