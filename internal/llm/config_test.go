package llm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ITO_PROVIDER", "ITO_MODEL", "ITO_SPEAKER_MODEL", "ITO_ESTIMATOR_MODEL",
		"ITO_DISCUSSION_MODEL", "OPENAI_API_KEY", "OPENAI_API_BASE", "GEMINI_API_KEY",
		"GOOGLE_API_KEY", "ITO_FORCE_MOCK", "ITO_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.ProviderName())
	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor(RoleSpeaker))
	assert.Equal(t, defaultOpenAIBase, cfg.BaseURL())
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.True(t, cfg.Mock(), "no key means scripted play")
}

func TestLoadConfigFromDotenv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_API_KEY=sk-test\nITO_MODEL=gpt-x\nITO_ESTIMATOR_MODEL=gpt-judge\nOPENAI_API_BASE=http://localhost:8080/v1/\n"), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"OPENAI_API_KEY", "ITO_MODEL", "ITO_ESTIMATOR_MODEL", "OPENAI_API_BASE"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.False(t, cfg.Mock())
	assert.Equal(t, "gpt-x", cfg.ModelFor(RoleSpeaker))
	assert.Equal(t, "gpt-judge", cfg.ModelFor(RoleEstimator))
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL())
}

func TestForceMockAcceptsYes(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ITO_FORCE_MOCK", "Yes")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.True(t, bool(cfg.ForceMock))
	assert.True(t, cfg.Mock())
}

func TestGeminiConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{Provider: " Gemini ", OpenAIKey: "sk-fallback", GeminiKey: "gm-key"}
	assert.Equal(t, ProviderGemini, cfg.ProviderName())
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.ModelFor(RoleDiscussion))
	assert.Equal(t, "gm-key", cfg.APIKey())
	assert.Equal(t, defaultGeminiBase, cfg.BaseURL())

	cfg.GeminiKey = placeholderKey
	assert.Equal(t, "sk-fallback", cfg.APIKey())
}

func TestPlaceholderKeyIsMock(t *testing.T) {
	t.Parallel()

	assert.True(t, Config{OpenAIKey: placeholderKey}.Mock())
}

func TestRoleTemperatures(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.7, RoleSpeaker.Temperature())
	assert.Equal(t, 0.0, RoleEstimator.Temperature())
	assert.Equal(t, 0.2, RoleDiscussion.Temperature())
}
