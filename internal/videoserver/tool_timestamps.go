package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVideoTimestamps(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_timestamps",
		Description: "Extract navigable timestamps from a YouTube video. Returns validated {time, description, seconds} entries sorted chronologically, with times past the video duration dropped. Results are cached per video.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TimestampsInput) (*mcp.CallToolResult, engine.TimestampsOutput, error) {
		if input.VideoURL == "" {
			return nil, engine.TimestampsOutput{}, errors.New("video_url is required")
		}
		out, err := videos.VideoTimestamps(ctx, input)
		if err != nil {
			return nil, engine.TimestampsOutput{}, err
		}
		return nil, out, nil
	})
}
