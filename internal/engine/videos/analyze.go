package videos

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
)

// AnalyzeVideo runs the full analysis pipeline for a YouTube URL: metadata,
// transcript (when available), summary, and the inline summary timestamps.
func AnalyzeVideo(ctx context.Context, input engine.AnalyzeInput) (out engine.VideoAnalysis, err error) {
	_ = engine.TrackOperation(ctx, "analyze:"+input.YouTubeURL, func(ctx context.Context) error {
		out, err = analyzeVideo(ctx, input)
		return err
	})
	return
}

func analyzeVideo(ctx context.Context, input engine.AnalyzeInput) (engine.VideoAnalysis, error) {
	engine.IncrAnalyzeRequests()

	videoID, err := sources.ParseVideoURL(input.YouTubeURL)
	if err != nil {
		return engine.VideoAnalysis{}, err
	}

	// --- Cache ---
	key := engine.CacheKey("analyze", videoID)
	if cached, ok := engine.CacheLoadJSON[engine.VideoAnalysis](ctx, key); ok {
		return cached, nil
	}

	// --- Metadata + transcript ---
	meta := lookupMetadata(ctx, videoID)
	transcript := fetchTranscript(ctx, videoID)

	// --- Summary: transcript path when we have text, video path otherwise ---
	var summary string
	if transcript != "" {
		summary, err = engine.SummarizeTranscript(ctx, displayTitle(meta), meta.Duration, transcript)
	} else {
		summary, err = engine.SummarizeVideo(ctx, sources.WatchURL(videoID))
	}
	if err != nil {
		return engine.VideoAnalysis{}, err
	}
	if limit := engine.Cfg.MaxSummaryChars; limit > 0 {
		summary = engine.TruncateAtWord(summary, limit)
	}

	// --- Inline timestamps ---
	marks := engine.SummaryTimestamps(summary, meta.Duration)

	out := engine.VideoAnalysis{
		Success:           true,
		VideoURL:          sources.WatchURL(videoID),
		VideoID:           videoID,
		VideoSummary:      summary,
		SummaryTimestamps: marks,
		HasTranscripts:    transcript != "",
	}
	engine.CacheStoreJSON(ctx, key, out)

	if err := SaveAnalysis(ctx, out, meta.Title); err != nil {
		slog.Warn("history save failed", slog.String("video_id", videoID), slog.Any("error", err))
	}
	return out, nil
}
