// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the evaluation dataset and the extractor to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/evalview/internal/dashboard"
	"github.com/starford/evalview/internal/extractor"
)

// Resource URIs.
const (
	PromptURI       = "evalview://prompt"
	ReportFormatURI = "evalview://report-format"
)

// Server wraps the MCP server with evalview tools.
type Server struct {
	mcp *server.MCPServer
	svc *dashboard.Service
	ext *extractor.Extractor
}

// New creates a new MCP server with all evalview tools registered.
func New(svc *dashboard.Service, ext *extractor.Extractor, version string) *Server {
	s := &Server{svc: svc, ext: ext}

	s.mcp = server.NewMCPServer(
		"evalview",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_data",
		mcp.WithDescription("Return the evaluations table as JSON (columns and rows)."),
	), s.getData)

	s.mcp.AddTool(mcp.NewTool("get_chart",
		mcp.WithDescription("Return one numeric column of the evaluations table as labels and values, largest first."),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column name, e.g. charcount")),
	), s.getChart)

	s.mcp.AddTool(mcp.NewTool("list_outputs",
		mcp.WithDescription("List the markdown outputs with their index and metrics."),
	), s.listOutputs)

	s.mcp.AddTool(mcp.NewTool("read_output",
		mcp.WithDescription("Read the full markdown of one output by its index from list_outputs."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based output index")),
	), s.readOutput)

	s.mcp.AddTool(mcp.NewTool("get_prompt",
		mcp.WithDescription("Return the prompt every model was given."),
	), s.getPrompt)

	s.mcp.AddTool(mcp.NewTool("search_outputs",
		mcp.WithDescription("Full-text search through output content and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchOutputs)

	s.mcp.AddTool(mcp.NewTool("extract_report",
		mcp.WithDescription("Compute size and code statistics for a directory of markdown outputs "+
			"and write them as CSV. See the evalview://report-format resource for the columns."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Directory containing .md outputs")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("CSV file to create or replace")),
	), s.extractReport)

	s.mcp.AddTool(mcp.NewTool("get_report_format",
		mcp.WithDescription("Returns the column definitions of the extractor CSV report."),
	), s.getReportFormat)

	s.mcp.AddResource(
		mcp.NewResource(PromptURI, "Evaluation Prompt",
			mcp.WithResourceDescription("The prompt shown to every evaluated model."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPromptResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(ReportFormatURI, "Report Format",
			mcp.WithResourceDescription("Columns and ordering rules of the extractor CSV report."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readReportFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getData(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Data())
}

func (s *Server) getChart(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	column, err := req.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	series, err := s.svc.Chart(column)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(series)
}

func (s *Server) listOutputs(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Outputs()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) readOutput(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.Output(i)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out.Content), nil
}

func (s *Server) getPrompt(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.svc.Prompt()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(p.Markdown), nil
}

func (s *Server) searchOutputs(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(hits)
}

func (s *Server) extractReport(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	destination, err := req.RequireString("destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rep, err := s.ext.Extract(source, destination)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Report generated and saved to %s (%d records)", destination, len(rep))), nil
}

func (s *Server) getReportFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ReportFormatContract), nil
}

func (s *Server) readPromptResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, err := s.svc.Prompt()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PromptURI,
			MIMEType: "text/markdown",
			Text:     p.Markdown,
		},
	}, nil
}

func (s *Server) readReportFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ReportFormatURI,
			MIMEType: "text/markdown",
			Text:     ReportFormatContract,
		},
	}, nil
}
