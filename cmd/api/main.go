package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"pddgen/internal/catalog"
	"pddgen/internal/config"
	"pddgen/internal/llm"
	llmclient "pddgen/internal/llmClient"
	"pddgen/internal/pdd"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	ctx := context.Background()

	var base llmclient.Client
	var tr transcriber
	if cfg.FakeLLM {
		base = llm.NewFakeClient()
		tr = fakeTranscriber{}
	} else {
		gem, err := llmclient.NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			log.Fatalf("llm client: %v", err)
		}
		base = gem
		tr = gem
	}

	client := llm.Wrap(base,
		llm.Logging(),
		llm.Retry(3, 500*time.Millisecond),
		llm.RateLimitFromEnv("LLM", "GEMINI"),
		llm.Timeout(cfg.CallTimeout),
	)
	defer client.Close()

	svc := pdd.NewService(client, cat, cfg.Workers)
	srv := newServer(svc, tr)

	mux := http.NewServeMux()
	srv.routes(mux)

	// Simple CORS middleware
	h := http.Handler(mux)
	h = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	}(h)

	log.Printf("Starting API server on %s (model %s, %d workers)", cfg.Port, cfg.Model, cfg.Workers)
	log.Fatal(http.ListenAndServe(cfg.Port, h2c.NewHandler(h, &http2.Server{})))
}

// fakeTranscriber stands in for the provider in offline mode.
type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return "Fake transcript of the uploaded recording.", nil
}
