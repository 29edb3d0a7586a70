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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/reembed"
	"gopkg.in/yaml.v3"
)

// AIConfig configures the OpenAI-compatible provider.
type AIConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	DescriberHost  string `yaml:"describer_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	Dimensions     int    `yaml:"dimensions"`
	DescriberModel string `yaml:"describer_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// PathsConfig locates the files vibematch reads and writes.
type PathsConfig struct {
	Data       string `yaml:"data"`       // Badger directory for job state and the embedding cache
	Corpus     string `yaml:"corpus"`     // Corpus JSON file
	Venues     string `yaml:"venues"`     // Curation CSV
	Vocabulary string `yaml:"vocabulary"` // Optional YAML vocabulary; empty uses the built-in one
}

// BatchConfig tunes the embedding jobs.
type BatchConfig struct {
	BatchSize       int `yaml:"batch_size"`
	Workers         int `yaml:"workers"`
	ItemTimeoutSecs int `yaml:"item_timeout_secs"`
	MaxRetries      int `yaml:"max_retries"`
	RetryDelayMs    int `yaml:"retry_delay_ms"`
	CheckpointEvery int `yaml:"checkpoint_every"`
}

// CacheConfig tunes the embedding cache.
type CacheConfig struct {
	Enabled    bool  `yaml:"enabled"`
	TTLHours   int   `yaml:"ttl_hours"`
	MaxEntries int64 `yaml:"max_entries"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	AI           AIConfig         `yaml:"ai"`
	Paths        PathsConfig      `yaml:"paths"`
	TextStrategy string           `yaml:"text_strategy"`
	Calibration  core.Calibration `yaml:"calibration"`
	Batch        BatchConfig      `yaml:"batch"`
	Cache        CacheConfig      `yaml:"cache"`
}

// Default returns the configuration used when no file exists.
func Default() *AppConfig {
	cfg := &AppConfig{Cache: CacheConfig{Enabled: true}}
	applyDefaults(cfg)
	return cfg
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config data, fills unset fields with defaults and
// validates the result.
func Parse(data []byte) (*AppConfig, error) {
	cfg := &AppConfig{Cache: CacheConfig{Enabled: true}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; variables already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	aiDefaults := ai.DefaultConfig()
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = aiDefaults.EmbeddingHost
	}
	if cfg.AI.DescriberHost == "" {
		cfg.AI.DescriberHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = aiDefaults.EmbeddingModel
	}
	if cfg.AI.Dimensions == 0 {
		cfg.AI.Dimensions = aiDefaults.Dimensions
	}
	if cfg.AI.DescriberModel == "" {
		cfg.AI.DescriberModel = aiDefaults.DescriberModel
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = int(aiDefaults.Timeout / time.Second)
	}

	if cfg.Paths.Data == "" {
		cfg.Paths.Data = filepath.Join("data", "state")
	}
	if cfg.Paths.Corpus == "" {
		cfg.Paths.Corpus = filepath.Join("data", "corpus.json")
	}
	if cfg.Paths.Venues == "" {
		cfg.Paths.Venues = filepath.Join("data", "venues.csv")
	}

	if cfg.TextStrategy == "" {
		cfg.TextStrategy = corpus.StrategyAIDescription
	}

	if cfg.Calibration == (core.Calibration{}) {
		cfg.Calibration = core.Calibration{MinSim: 0.3, MaxSim: 0.8}
	}
	if cfg.Calibration.DisplayFloor == 0 && cfg.Calibration.DisplayCeiling == 0 {
		cfg.Calibration.DisplayFloor = core.DefaultDisplayFloor
		cfg.Calibration.DisplayCeiling = core.DefaultDisplayCeiling
	}

	jobDefaults := reembed.DefaultConfig()
	if cfg.Batch.BatchSize == 0 {
		cfg.Batch.BatchSize = jobDefaults.BatchSize
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = jobDefaults.PoolSize
	}
	if cfg.Batch.ItemTimeoutSecs == 0 {
		cfg.Batch.ItemTimeoutSecs = int(jobDefaults.ItemTimeout / time.Second)
	}
	if cfg.Batch.MaxRetries == 0 {
		cfg.Batch.MaxRetries = jobDefaults.MaxRetries
	}
	if cfg.Batch.RetryDelayMs == 0 {
		cfg.Batch.RetryDelayMs = int(jobDefaults.RetryDelay / time.Millisecond)
	}
	if cfg.Batch.CheckpointEvery == 0 {
		cfg.Batch.CheckpointEvery = jobDefaults.CheckpointEvery
	}

	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 30 * 24
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10_000
	}
}

// Validate checks that the configuration is usable.
func (c *AppConfig) Validate() error {
	if _, err := corpus.SelectorByName(c.TextStrategy, nil); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := core.ValidateCalibration(c.Calibration); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.AI.Dimensions < 0 {
		return errors.New("config: ai.dimensions cannot be negative")
	}
	if c.Batch.BatchSize < 0 || c.Batch.Workers < 0 || c.Batch.MaxRetries < 0 {
		return errors.New("config: batch settings cannot be negative")
	}
	if c.Cache.TTLHours < 0 {
		return errors.New("config: cache.ttl_hours cannot be negative")
	}
	return nil
}

// ProviderConfig builds the provider configuration, reading the API key from the
// environment variable named by ai.api_key_env.
func (c *AppConfig) ProviderConfig() (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithDescriberHost(c.AI.DescriberHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithDimensions(c.AI.Dimensions),
		ai.WithDescriberModel(c.AI.DescriberModel),
		ai.WithAPIKey(os.Getenv(c.AI.APIKeyEnv)),
		ai.WithTimeout(time.Duration(c.AI.TimeoutSecs)*time.Second),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// JobConfig returns the embedding job settings.
func (c *AppConfig) JobConfig() *reembed.Config {
	jc := reembed.DefaultConfig()
	jc.BatchSize = c.Batch.BatchSize
	jc.PoolSize = c.Batch.Workers
	jc.ItemTimeout = time.Duration(c.Batch.ItemTimeoutSecs) * time.Second
	jc.MaxRetries = c.Batch.MaxRetries
	jc.RetryDelay = time.Duration(c.Batch.RetryDelayMs) * time.Millisecond
	jc.CheckpointEvery = c.Batch.CheckpointEvery
	return jc
}

// CacheTTL returns the embedding cache entry lifetime.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
