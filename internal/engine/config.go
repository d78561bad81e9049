package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/google/generative-ai-go/genai"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	GeminiModel      string // video-capable model for analysis calls
	GeminiEmbedModel string // embedding model for visual search
	GeminiRPM        int    // Gemini requests per minute (0 = unlimited)

	YouTubeAPIKey             string
	YouTubeAPIKeyFallback     string
	YouTubeTranscriptsEnabled bool

	MaxTranscriptChars   int // transcript excerpt sent to the LLM
	MaxSummaryChars      int // summary length cap in responses
	FetchTimeout         time.Duration
	VisualSearchTopK     int     // max visual search results
	VisualSearchMinScore float64 // similarity floor for visual search

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	DatabaseURL   string // optional Postgres frame archive
	HistoryDBPath string // sqlite analysis history ("" = default under home dir)

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = plain HTTP for YouTube page fetches
	LLMClient     *llm.Client    // text-path completions over transcripts
	GenaiClient   *genai.Client  // nil = video analysis disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (videos, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
