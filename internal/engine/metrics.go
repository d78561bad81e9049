package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	AnalyzeRequests      atomic.Int64
	ChatRequests         atomic.Int64
	TimestampRequests    atomic.Int64
	VisualSearchRequests atomic.Int64
	PDFExports           atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
	GeminiCalls          atomic.Int64
	GeminiErrors         atomic.Int64
	EmbedCalls           atomic.Int64
	MetadataRequests     atomic.Int64
	TranscriptRequests   atomic.Int64
	TranscriptMisses     atomic.Int64
	TimestampsCorrected  atomic.Int64
	TimestampsDropped    atomic.Int64
	FallbackExtractions  atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"analyze_requests":       metrics.AnalyzeRequests.Load(),
		"chat_requests":          metrics.ChatRequests.Load(),
		"timestamp_requests":     metrics.TimestampRequests.Load(),
		"visual_search_requests": metrics.VisualSearchRequests.Load(),
		"pdf_exports":            metrics.PDFExports.Load(),
		"llm_calls":              metrics.LLMCalls.Load(),
		"llm_errors":             metrics.LLMErrors.Load(),
		"gemini_calls":           metrics.GeminiCalls.Load(),
		"gemini_errors":          metrics.GeminiErrors.Load(),
		"embed_calls":            metrics.EmbedCalls.Load(),
		"metadata_requests":      metrics.MetadataRequests.Load(),
		"transcript_requests":    metrics.TranscriptRequests.Load(),
		"transcript_misses":      metrics.TranscriptMisses.Load(),
		"timestamps_corrected":   metrics.TimestampsCorrected.Load(),
		"timestamps_dropped":     metrics.TimestampsDropped.Load(),
		"fallback_extractions":   metrics.FallbackExtractions.Load(),
		"cache_hits":             hits,
		"cache_misses":           misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"analyze_requests", "chat_requests", "timestamp_requests",
		"visual_search_requests", "pdf_exports",
		"llm_calls", "llm_errors",
		"gemini_calls", "gemini_errors", "embed_calls",
		"metadata_requests",
		"transcript_requests", "transcript_misses",
		"timestamps_corrected", "timestamps_dropped", "fallback_extractions",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for request handlers.
func IncrAnalyzeRequests()      { metrics.AnalyzeRequests.Add(1) }
func IncrChatRequests()         { metrics.ChatRequests.Add(1) }
func IncrTimestampRequests()    { metrics.TimestampRequests.Add(1) }
func IncrVisualSearchRequests() { metrics.VisualSearchRequests.Add(1) }
func IncrPDFExports()           { metrics.PDFExports.Add(1) }

// Incrementors for provider calls.
func IncrLLMCalls()     { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()    { metrics.LLMErrors.Add(1) }
func IncrGeminiCalls()  { metrics.GeminiCalls.Add(1) }
func IncrGeminiErrors() { metrics.GeminiErrors.Add(1) }
func IncrEmbedCalls()   { metrics.EmbedCalls.Add(1) }

// Incrementors for sources/ sub-package.
func IncrMetadataRequests()  { metrics.MetadataRequests.Add(1) }
func IncrYouTubeTranscript() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptMisses()  { metrics.TranscriptMisses.Add(1) }

// Incrementors for the timestamp normalizer.
func IncrTimestampsCorrected()   { metrics.TimestampsCorrected.Add(1) }
func AddTimestampsDropped(n int) { metrics.TimestampsDropped.Add(int64(n)) }
func IncrFallbackExtractions()   { metrics.FallbackExtractions.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
