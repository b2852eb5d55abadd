package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaultMatchesDomainPlans(t *testing.T) {
	cfg := Default()
	assert.Equal(t, domain.DefaultPlans(), cfg.Plans.DomainPlans())
	assert.Equal(t, 4, cfg.Chat.TopK)
	assert.Equal(t, 6, cfg.Chat.HistoryTurns)
	assert.Equal(t, 15*time.Minute, cfg.Ingestion.StaleAfter.Std())
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth secret")

	cfg.Auth.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.Secret = ""
	cfg.RunMode = RunModeWorker
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Auth.Secret = "x"
	cfg.RunMode = "batch"
	cfg.Vector.Backend = "faiss"
	cfg.Embedding.Provider = "cohere"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `run_mode "batch"`)
	assert.Contains(t, msg, `vector backend "faiss"`)
	assert.Contains(t, msg, "invalid AI provider")
	assert.Contains(t, msg, `log level "loud"`)
	assert.ErrorIs(t, err, domain.ErrInvalidProvider)
}

func TestLoadFile(t *testing.T) {
	unsetEnv(t, "AUTH_SECRET")
	unsetEnv(t, "JWT_SECRET")
	unsetEnv(t, "STALE_PROCESSING_AFTER")
	path := writeFile(t, "documentor.toml", `
run_mode = "api"

[auth]
secret = "from-file"

[vector]
backend = "memory"

[ingestion]
stale_after = "5m"

[plans.free]
name = "Starter"
pages_per_pdf = 3
max_file_size = "2MB"

[plans.pro]
name = "Pro"
pages_per_pdf = 50
max_file_size = "32MiB"

[embedding]
provider = "ollama"
model = "nomic-embed-text"
`)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, RunModeAPI, cfg.RunMode)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, VectorBackendMemory, cfg.Vector.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Ingestion.StaleAfter.Std())
	assert.Equal(t, domain.AIProviderOllama, cfg.Embedding.Provider)

	plans := cfg.Plans.DomainPlans()
	assert.Equal(t, "Starter", plans.Free.Name)
	assert.Equal(t, int64(2<<20), plans.Free.MaxFileSize)
	assert.Equal(t, int64(32<<20), plans.Pro.MaxFileSize)
	assert.Equal(t, 50, plans.Pro.PagesPerPDF)

	// untouched sections keep defaults
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 32, cfg.Ingestion.EmbedBatchSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "documentor.toml", `
[auth]
secret = "from-file"
[server]
port = 9000
`)
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MAX_UPLOAD_SIZE", "8MB")
	t.Setenv("STALE_PROCESSING_AFTER", "90s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, int64(8<<20), cfg.Server.MaxUploadSize.Bytes())
	assert.Equal(t, 90*time.Second, cfg.Ingestion.StaleAfter.Std())
	assert.True(t, cfg.Storage.UseSSL)
}

func TestLoadEnvFile(t *testing.T) {
	unsetEnv(t, "AUTH_SECRET")
	unsetEnv(t, "JWT_SECRET")
	unsetEnv(t, "LLM_MODEL")
	envFile := writeFile(t, ".env", "AUTH_SECRET=dotenv-secret\nLLM_MODEL=gpt-4o-mini\n")

	cfg, err := Load(writeFile(t, "empty.toml", ""), envFile)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-secret", cfg.Auth.Secret)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadOpenAIKeyFallback(t *testing.T) {
	t.Setenv("AUTH_SECRET", "x")
	t.Setenv("OPENAI_API_KEY", "sk-shared")
	unsetEnv(t, "EMBEDDING_API_KEY")
	t.Setenv("LLM_API_KEY", "sk-llm")

	cfg, err := Load(writeFile(t, "empty.toml", ""), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sk-shared", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-llm", cfg.LLM.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "x")

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// The default file is optional
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Auth.Secret)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "x")

	_, err := Load(writeFile(t, "bad.toml", "[plans.free]\nmax_file_size = \"lots\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size")

	_, err = Load(writeFile(t, "bad.toml", "[worker]\nsweep_interval = \"often\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestSize(t *testing.T) {
	var s Size
	require.NoError(t, s.UnmarshalText([]byte("4MB")))
	assert.Equal(t, int64(4<<20), s.Bytes())
	assert.Equal(t, "4MiB", s.String())

	text, err := s.MarshalText()
	require.NoError(t, err)
	var back Size
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, s, back)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")

	buf.Reset()
	LoggingConfig{Level: "debug"}.NewLogger(&buf).Debug("json line")
	assert.Contains(t, buf.String(), `"msg":"json line"`)
}
