package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerExportSummaryPDF(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_summary_pdf",
		Description: "Render a markdown video summary as a PDF file. Inline [MM:SS] timestamp markers are stripped for print. Returns the path of the generated file.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PDFExportInput) (*mcp.CallToolResult, engine.PDFExportOutput, error) {
		if input.Summary == "" {
			return nil, engine.PDFExportOutput{}, errors.New("summary is required")
		}
		path, err := engine.ExportSummaryPDF(input)
		if err != nil {
			return nil, engine.PDFExportOutput{}, err
		}
		return nil, engine.PDFExportOutput{Success: true, Path: path}, nil
	})
}
