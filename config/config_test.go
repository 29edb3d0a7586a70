// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, corpus.StrategyAIDescription, cfg.TextStrategy)
	assert.Equal(t, "text-embedding-3-small", cfg.AI.EmbeddingModel)
	assert.Equal(t, 256, cfg.AI.Dimensions)
	assert.Equal(t, "OPENAI_API_KEY", cfg.AI.APIKeyEnv)
	assert.Equal(t, core.Calibration{MinSim: 0.3, MaxSim: 0.8, DisplayFloor: 0.55, DisplayCeiling: 0.98}, cfg.Calibration)
	assert.Equal(t, 16, cfg.Batch.BatchSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*24*time.Hour, cfg.CacheTTL())
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	data := []byte(`
ai:
  embedding_host: http://localhost:11434
  embedding_model: nomic-embed-text
  dimensions: 768
  api_key_env: VIBEMATCH_TEST_KEY
text_strategy: Hybrid
calibration:
  min_sim: 0.25
  max_sim: 0.85
batch:
  workers: 8
  max_retries: 5
cache:
  enabled: false
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.AI.DescriberHost, "describer host follows embedding host")
	assert.Equal(t, 768, cfg.AI.Dimensions)
	assert.Equal(t, "Hybrid", cfg.TextStrategy)
	assert.InDelta(t, 0.25, cfg.Calibration.MinSim, 1e-9)
	assert.InDelta(t, core.DefaultDisplayFloor, cfg.Calibration.DisplayFloor, 1e-9)
	assert.False(t, cfg.Cache.Enabled)

	job := cfg.JobConfig()
	assert.Equal(t, 8, job.PoolSize)
	assert.Equal(t, 5, job.MaxRetries)
	assert.Equal(t, 16, job.BatchSize)
	assert.Equal(t, 30*time.Second, job.ItemTimeout)

	t.Setenv("VIBEMATCH_TEST_KEY", "sk-test")
	provider, err := cfg.ProviderConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", provider.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", provider.EmbeddingHost)
	assert.Equal(t, "nomic-embed-text", provider.EmbeddingModel)
	assert.Equal(t, 768, provider.Dimensions)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "ai: ["},
		{name: "unknown strategy", data: "text_strategy: telepathy"},
		{name: "inverted calibration", data: "calibration:\n  min_sim: 0.8\n  max_sim: 0.3\n"},
		{name: "negative workers", data: "batch:\n  workers: -1\n"},
		{name: "negative ttl", data: "cache:\n  ttl_hours: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("calibration:\n  min_sim: 0.8\n  max_sim: 0.3\n"))
	assert.ErrorIs(t, err, core.ErrInvalidCalibration)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.TextStrategy = corpus.StrategyKeywords
	cfg.Paths.Corpus = "out/corpus.json"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VIBEMATCH_ENV_TEST=from-file\n"), 0o600))

	t.Setenv("VIBEMATCH_ENV_TEST", "")
	require.NoError(t, os.Unsetenv("VIBEMATCH_ENV_TEST"))

	require.NoError(t, LoadEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("VIBEMATCH_ENV_TEST"))
}
