package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	APIKey      string
	Model       string
	Temperature float32
	CallTimeout time.Duration
	Workers     int
	CatalogPath string
	FakeLLM     bool
}

const (
	defaultModel       = "gemini-2.5-flash"
	defaultCallTimeout = 90 * time.Second
	defaultWorkers     = 5
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	cfg := &Config{
		Port:        *port,
		APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:       firstNonEmpty(strings.TrimSpace(os.Getenv("PDD_MODEL")), defaultModel),
		CallTimeout: defaultCallTimeout,
		Workers:     defaultWorkers,
		CatalogPath: strings.TrimSpace(os.Getenv("PDD_CATALOG_PATH")),
		FakeLLM:     envBool("PDD_FAKE_LLM"),
	}

	if raw := strings.TrimSpace(os.Getenv("PDD_TEMPERATURE")); raw != "" {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid PDD_TEMPERATURE %q", raw)
		}
		cfg.Temperature = float32(v)
	}
	if raw := strings.TrimSpace(os.Getenv("PDD_CALL_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid PDD_CALL_TIMEOUT %q", raw)
		}
		cfg.CallTimeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("PDD_WORKERS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PDD_WORKERS %q", raw)
		}
		cfg.Workers = n
	}

	if !cfg.FakeLLM && cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	return cfg, nil
}

func envBool(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
