package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVisualSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "visual_search",
		Description: "Find moments in a YouTube video matching a visual description (e.g. 'whiteboard diagram', 'red car'). Describes the video's scenes with Gemini, embeds them, and ranks by cosine similarity to the query. Returns matched timestamps with scores.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VisualSearchInput) (*mcp.CallToolResult, engine.VisualSearchOutput, error) {
		if input.YouTubeURL == "" {
			return nil, engine.VisualSearchOutput{}, errors.New("youtube_url is required")
		}
		if input.SearchQuery == "" {
			return nil, engine.VisualSearchOutput{}, errors.New("search_query is required")
		}
		out, err := videos.VisualSearch(ctx, input)
		if err != nil {
			return nil, engine.VisualSearchOutput{}, err
		}
		return nil, out, nil
	})
}
