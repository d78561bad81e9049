package videos

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
)

// VideoTimestamps extracts key-moment timestamps for a YouTube URL. The raw
// model payload goes through JSON parsing with a regex fallback, then the
// normalization pipeline: parse display times, reconcile seconds claims,
// drop out-of-range entries, dedupe, sort.
func VideoTimestamps(ctx context.Context, input engine.TimestampsInput) (out engine.TimestampsOutput, err error) {
	_ = engine.TrackOperation(ctx, "timestamps:"+input.VideoURL, func(ctx context.Context) error {
		out, err = videoTimestamps(ctx, input)
		return err
	})
	return
}

func videoTimestamps(ctx context.Context, input engine.TimestampsInput) (engine.TimestampsOutput, error) {
	engine.IncrTimestampRequests()

	videoID, err := sources.ParseVideoURL(input.VideoURL)
	if err != nil {
		return engine.TimestampsOutput{}, err
	}

	// --- Cache ---
	key := engine.CacheKey("timestamps", videoID)
	if cached, ok := engine.CacheLoadJSON[engine.TimestampsOutput](ctx, key); ok {
		return cached, nil
	}

	meta := lookupMetadata(ctx, videoID)
	transcript := fetchTranscript(ctx, videoID)

	// --- Generate candidates ---
	var raw string
	if transcript != "" {
		raw, err = engine.TimestampsFromTranscript(ctx, displayTitle(meta), meta.Duration, transcript)
	} else {
		raw, err = engine.TimestampsFromVideo(ctx, sources.WatchURL(videoID))
	}
	if err != nil {
		return engine.TimestampsOutput{}, err
	}

	cands, ok := engine.ParseTimestampPayload(raw)
	if !ok {
		engine.IncrFallbackExtractions()
		slog.Warn("timestamp payload not parseable, extracting from raw text",
			slog.String("video_id", videoID))
		cands = engine.ExtractTimestampCandidates(raw)
	}

	// --- Normalize ---
	final, report := engine.NormalizeTimestamps(cands, meta.Duration)
	if report.Dropped > 0 {
		slog.Info("timestamps normalized",
			slog.String("video_id", videoID),
			slog.Int("kept", len(final)),
			slog.Int("dropped", report.Dropped))
	}

	out := engine.TimestampsOutput{Success: true, Timestamps: final}
	engine.CacheStoreJSON(ctx, key, out)
	return out, nil
}
