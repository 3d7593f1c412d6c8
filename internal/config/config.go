package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	FinsightAPIKey string

	// Hosted model service
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	EmbedModel      string
	CompletionModel string
	LLMTimeout      time.Duration
	MaxOutputTokens int

	// Segmentation
	MaxUnitSize int
	UnitOverlap int

	// Retrieval
	TopK int

	// Analysis context assembly
	MaxContextChars int
	UnitTextCap     int

	// Ingestion
	MaxUploadBytes     int64
	MaxConcurrentEmbed int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		FinsightAPIKey: os.Getenv("FINSIGHT_API_KEY"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:      envOr("EMBED_MODEL", "text-embedding-3-small"),
		CompletionModel: envOr("COMPLETION_MODEL", "gpt-4o-mini"),
		LLMTimeout:      envDuration("LLM_TIMEOUT", 60*time.Second),
		MaxOutputTokens: envInt("MAX_OUTPUT_TOKENS", 2048),

		MaxUnitSize: envInt("MAX_UNIT_SIZE", 1000),
		UnitOverlap: envInt("UNIT_OVERLAP", 200),

		TopK: envInt("TOP_K", 10),

		MaxContextChars: envInt("MAX_CONTEXT_CHARS", 12000),
		UnitTextCap:     envInt("UNIT_TEXT_CAP", 1000),

		MaxUploadBytes:     envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 5),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUnitSize <= 0 {
		cfg.MaxUnitSize = 1000
	}
	if cfg.UnitOverlap < 0 || cfg.UnitOverlap >= cfg.MaxUnitSize {
		cfg.UnitOverlap = cfg.MaxUnitSize / 5
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 12000
	}
	if cfg.UnitTextCap <= 0 {
		cfg.UnitTextCap = 1000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 5
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 2048
	}

	return cfg
}

func (c Config) Validate() error {
	if c.FinsightAPIKey == "" {
		return fmt.Errorf("FINSIGHT_API_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
