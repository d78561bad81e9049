// Package videos implements the video operations — full analysis, timestamp
// extraction, chat, and visual search — on top of the engine core and the
// YouTube sources. Both serving layers (REST API and MCP tools) call into
// this package.
package videos

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
)

// lookupMetadata returns video metadata, cached per video. A lookup failure
// is not fatal: operations proceed with the video ID as title and the
// default duration ceiling.
func lookupMetadata(ctx context.Context, videoID string) engine.VideoMetadata {
	key := engine.CacheKey("meta", videoID)
	if cached, ok := engine.CacheLoadJSON[engine.VideoMetadata](ctx, key); ok {
		return cached
	}
	meta, err := sources.FetchVideoMetadata(ctx, videoID)
	if err != nil {
		slog.Warn("metadata unavailable", slog.String("video_id", videoID), slog.Any("error", err))
		return engine.VideoMetadata{ID: videoID}
	}
	engine.CacheStoreJSON(ctx, key, meta)
	return meta
}

// fetchTranscript returns the timed transcript for videoID, cached per video.
// Empty when transcripts are disabled or no tier produced text — callers
// switch to the direct video path in that case.
func fetchTranscript(ctx context.Context, videoID string) string {
	if !sources.TranscriptsEnabled() {
		return ""
	}
	key := engine.CacheKey("transcript", videoID)
	if text, ok := engine.CacheGetText(ctx, key); ok {
		return text
	}
	text, err := sources.FetchYouTubeTranscript(ctx, videoID, nil)
	if err != nil {
		slog.Warn("transcript unavailable, using video analysis",
			slog.String("video_id", videoID), slog.Any("error", err))
		return ""
	}
	engine.CacheSetText(ctx, key, text)
	return text
}

func displayTitle(meta engine.VideoMetadata) string {
	if meta.Title != "" {
		return meta.Title
	}
	return meta.ID
}
