// go_videomind — YouTube video analysis server.
//
// Serves the web frontend over REST (summary with timestamps, chat grounded
// in the video, visual moment search, PDF export, analysis history) and,
// when MCP_PORT is set, exposes the same operations as typed MCP tools.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_videomind/internal/api"
	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/anatolykoptev/go_videomind/internal/videoserver"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/option"
)

var version = "dev"

func main() {
	godotenv.Load() //nolint:errcheck // .env is optional

	initEngine()

	apiPort := env.Int("API_PORT", 8000)
	mcpPort := env.Str("MCP_PORT", "")

	slog.Info("starting go_videomind",
		slog.Int("api_port", apiPort),
		slog.String("mcp_port", mcpPort),
	)

	if mcpPort != "" {
		server := mcp.NewServer(&mcp.Implementation{
			Name:    "go_videomind",
			Version: version,
		}, nil)

		videoserver.RegisterTools(server)
		slog.Info("mcp tools registered", slog.Int("count", 8))

		go func() {
			if err := mcpserver.Run(server, mcpserver.Config{
				Name:         "go_videomind",
				Version:      version,
				Port:         mcpPort,
				WriteTimeout: 600 * time.Second,
				Metrics:      engine.FormatMetrics,
			}); err != nil {
				slog.Error("mcp server failed", slog.Any("error", err))
			}
		}()
	}

	restServer := api.NewServer(api.Config{
		Port:          apiPort,
		AllowedOrigin: env.Str("FRONTEND_ORIGIN", "http://localhost:3000"),
		Version:       version,
	})
	go func() {
		if err := restServer.Start(); err != nil {
			slog.Error("api server failed", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := restServer.Shutdown(ctx); err != nil {
		slog.Error("api shutdown failed", slog.Any("error", err))
	}
	if db := videos.GetFrameDB(); db != nil {
		db.Close()
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:                 env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:        env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:                env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:                  env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:            env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:              env.Int("LLM_MAX_TOKENS", 16384),
		GeminiModel:               env.Str("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEmbedModel:          env.Str("GEMINI_EMBED_MODEL", "text-embedding-004"),
		GeminiRPM:                 env.Int("GEMINI_RPM", 10),
		YouTubeAPIKey:             env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback:     env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeTranscriptsEnabled: env.Str("YOUTUBE_TRANSCRIPTS_ENABLED", "true") == "true",
		MaxTranscriptChars:        env.Int("MAX_TRANSCRIPT_CHARS", 100000),
		MaxSummaryChars:           env.Int("MAX_SUMMARY_CHARS", 0),
		FetchTimeout:              env.Duration("FETCH_TIMEOUT", 15*time.Second),
		VisualSearchTopK:          env.Int("VISUAL_SEARCH_TOP_K", 5),
		VisualSearchMinScore:      env.Float("VISUAL_SEARCH_MIN_SCORE", 0.25),
		CacheMaxEntries:           env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:      env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		DatabaseURL:               env.Str("DATABASE_URL", ""),
		HistoryDBPath:             env.Str("HISTORY_DB_PATH", ""),
	}
	c.HTTPClient = engine.NewFetchClient(c.FetchTimeout)

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, plain HTTP for YouTube fetches", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	geminiKey := env.Str("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = c.LLMAPIKey
	}
	if geminiKey != "" {
		gc, err := genai.NewClient(context.Background(), option.WithAPIKey(geminiKey))
		if err != nil {
			slog.Warn("gemini client init failed, video analysis disabled", slog.Any("error", err))
		} else {
			c.GenaiClient = gc
			slog.Info("gemini client initialized", slog.String("model", c.GeminiModel))
		}
	}

	engine.Init(c)

	// Frame archive (PostgreSQL) lets repeat visual searches skip Gemini.
	if c.DatabaseURL != "" {
		fdb, err := videos.ConnectFrameDB(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Warn("frame archive init failed", slog.Any("error", err))
		} else {
			videos.SetFrameDB(fdb)
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
