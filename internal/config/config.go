package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port      int              `json:"port"`
	LogConfig logger.LogConfig `json:"log_config"`
	DB        DatabaseConfig   `json:"db"`
	AI        AIConfig         `json:"ai"`
	Retrieval RetrievalConfig  `json:"retrieval"`
	Refresh   RefreshConfig    `json:"refresh"`
	LogSink   LogSinkConfig    `json:"log_sink"`
	CORS      []string         `json:"cors_allowlist"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Gemini     GeminiConfig     `json:"gemini"`
	OpenRouter OpenRouterConfig `json:"openrouter"`
	Timeout    int              `json:"timeout"`
}

type GeminiConfig struct {
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`
	EmbedModel string `json:"embed_model"`
	EmbedDim   int    `json:"embed_dim"`
}

type OpenRouterConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	HTTPReferer string `json:"http_referer"`
	XTitle      string `json:"x_title"`
}

type RetrievalConfig struct {
	TopK          int     `json:"top_k"`
	MinSimilarity float32 `json:"min_similarity"`
}

type RefreshConfig struct {
	Cron       string `json:"cron"`
	IntervalMS int    `json:"interval_ms"`
	AdminToken string `json:"admin_token"`
}

type LogSinkConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DB.DSN == "" && cfg.DB.Host == "" {
		return nil, fmt.Errorf("db.dsn or db.host is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	// Missing API keys are not a startup error: the affected provider
	// answers per-request with a configuration error instead.
	if cfg.AI.Gemini.APIKey == "" {
		cfg.AI.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.OpenRouter.APIKey == "" {
		cfg.AI.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.Refresh.AdminToken == "" {
		cfg.Refresh.AdminToken = os.Getenv("FOLIOCHAT_ADMIN_TOKEN")
	}
	if cfg.AI.Gemini.Model == "" {
		cfg.AI.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.AI.Gemini.EmbedModel == "" {
		cfg.AI.Gemini.EmbedModel = "gemini-embedding-001"
	}
	if cfg.AI.Gemini.EmbedDim == 0 {
		cfg.AI.Gemini.EmbedDim = 768
	}
	if cfg.AI.OpenRouter.Model == "" {
		cfg.AI.OpenRouter.Model = "meta-llama/llama-3.3-70b-instruct"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 120
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 6
	}
	if cfg.Retrieval.MinSimilarity == 0 {
		cfg.Retrieval.MinSimilarity = 0.55
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 4 * * *"
	}
	if cfg.Refresh.IntervalMS == 0 {
		cfg.Refresh.IntervalMS = 200
	}
	if cfg.LogSink.Type == "" {
		cfg.LogSink.Type = "db"
	}
	return &cfg, nil
}
