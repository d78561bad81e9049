package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerAnalyzeVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_video",
		Description: "Analyze a YouTube video and return a markdown summary with inline [MM:SS] timestamps plus the structured list of key moments. Uses the transcript when one exists, otherwise Gemini video understanding. Results are cached per video.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.AnalyzeInput) (*mcp.CallToolResult, engine.VideoAnalysis, error) {
		if input.YouTubeURL == "" {
			return nil, engine.VideoAnalysis{}, errors.New("youtube_url is required")
		}
		out, err := videos.AnalyzeVideo(ctx, input)
		if err != nil {
			return nil, engine.VideoAnalysis{}, err
		}
		return nil, out, nil
	})
}
