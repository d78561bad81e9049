package videos

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
)

// ChatWithVideo answers a free-form question about a video. With a
// transcript the question goes to the text model; without one the video
// itself is attached to the request. Responses are not cached — queries
// rarely repeat.
func ChatWithVideo(ctx context.Context, input engine.ChatInput) (out engine.ChatOutput, err error) {
	_ = engine.TrackOperation(ctx, "chat:"+input.VideoURL, func(ctx context.Context) error {
		out, err = chatWithVideo(ctx, input)
		return err
	})
	return
}

func chatWithVideo(ctx context.Context, input engine.ChatInput) (engine.ChatOutput, error) {
	engine.IncrChatRequests()

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return engine.ChatOutput{}, errors.New("chat: query is required")
	}

	videoID, err := sources.ParseVideoURL(input.VideoURL)
	if err != nil {
		return engine.ChatOutput{}, err
	}

	transcript := fetchTranscript(ctx, videoID)

	var answer string
	if transcript != "" {
		meta := lookupMetadata(ctx, videoID)
		answer, err = engine.AnswerFromTranscript(ctx, displayTitle(meta), transcript, query)
	} else {
		answer, err = engine.AnswerFromVideo(ctx, sources.WatchURL(videoID), query)
	}
	if err != nil {
		return engine.ChatOutput{}, err
	}

	return engine.ChatOutput{Success: true, Response: answer}, nil
}
