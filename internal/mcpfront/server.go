// Package mcpfront exposes the retrieval index and the agent loop over the
// Model Context Protocol. It is a thin adapter, not core: of the design
// treats "the wire adapter to any specific model backend" and "the
// interactive command-line front-end" as collaborators, so nothing under
// internal/agent, internal/vectorstore, or internal/tools imports this
// package — it only imports them. Grounded on the
// internal/mcp/server.go (Server struct, tool registration, stdio Serve
// loop), narrowed to the two tools this system actually needs: search and
// run.
package mcpfront

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/agentcore/internal/agent"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/chunkstore"
	"github.com/Aman-CERP/agentcore/internal/telemetry"
	"github.com/Aman-CERP/agentcore/internal/vectorstore"
	"github.com/Aman-CERP/agentcore/pkg/version"
)

// Server bridges an MCP client to one project's retrieval index and agent
// loop. Loop may be nil when no model gateway is configured, in which case
// the run tool reports itself unavailable rather than panicking. Metrics may
// also be nil; handleSearch skips recording rather than failing the call.
type Server struct {
	mcp *mcp.Server
	index *vectorstore.Index
	loop *agent.Loop
	metrics *telemetry.QueryMetrics
	logger *slog.Logger
}

// SearchInput is the search tool's input schema.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to execute"`
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	PathPrefix string `json:"path_prefix,omitempty" jsonschema:"restrict results to paths under this prefix"`
	FileType string `json:"file_type,omitempty" jsonschema:"restrict results to this file extension, e.g..go"`
}

// SearchResultOutput is one hybrid search hit.
type SearchResultOutput struct {
	Path string `json:"path" jsonschema:"file path relative to the project root"`
	StartLine int `json:"start_line"`
	EndLine int `json:"end_line"`
	Content string `json:"content" jsonschema:"matched chunk content"`
	Score float64 `json:"score" jsonschema:"fused RRF score"`
	InBothLists bool `json:"in_both_lists,omitempty" jsonschema:"true if the chunk matched both keyword and semantic search"`
}

// SearchOutput is the search tool's output schema.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
}

// RunInput is the run tool's input schema, mirroring agent.RunRequest.
type RunInput struct {
	Message string `json:"message" jsonschema:"the user message to send to the agent loop"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"continue an existing conversation"`
	MaxSteps int `json:"max_steps,omitempty" jsonschema:"override the configured step budget"`
	MaxToolsPerStep int `json:"max_tools_per_step,omitempty" jsonschema:"override the configured per-step tool budget"`
}

// RunOutput is the run tool's output schema, mirroring agenttypes.LoopResult.
type RunOutput struct {
	Success bool `json:"success"`
	FinalAnswer string `json:"final_answer,omitempty"`
	Error string `json:"error,omitempty"`
	Steps int `json:"steps"`
}

// NewServer constructs the MCP server and registers its tools. loop may be
// nil; the run tool then fails with a clear error instead of being absent,
// so a client probing ListTools still sees the full surface.
func NewServer(index *vectorstore.Index, loop *agent.Loop, metrics *telemetry.QueryMetrics, logger *slog.Logger) *Server {
	if logger == nil {
 logger = slog.Default()
	}
	s := &Server{index: index, loop: loop, metrics: metrics, logger: logger}

	s.mcp = mcp.NewServer(&mcp.Implementation{
 Name: "agentcore",
 Version: version.Version,
	}, nil)

	mcp.AddTool(s.mcp, &mcp.Tool{
 Name: "search",
 Description: "Hybrid keyword and semantic search over the project's indexed chunks. Use this before grepping by hand; it understands code structure, not just text.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
 Name: "run",
 Description: "Send a message to the agent loop and receive its final answer, or an error if it exhausted its step budget.",
	}, s.handleRun)

	return s
}

// Serve runs the server over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && ctx.Err() == nil {
 s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
	}
	return err
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
 return nil, SearchOutput{}, fmt.Errorf("query parameter is required")
	}
	limit := input.Limit
	if limit <= 0 {
 limit = 10
	}

	filters := chunkstore.SearchFilters{PathPrefix: input.PathPrefix, FileType: input.FileType}
	start := time.Now()
	results, err := s.index.Search(ctx, input.Query, limit, filters, vectorstore.DefaultWeights())
	s.recordSearch(input.Query, results, time.Since(start))
	if err != nil {
 return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
	}

	out := SearchOutput{Results: make([]SearchResultOutput, 0, len(results))}
	for _, r := range results {
 out.Results = append(out.Results, SearchResultOutput{
 Path: r.Chunk.SourcePath,
 StartLine: r.Chunk.StartLine,
 EndLine: r.Chunk.EndLine,
 Content: r.Snippet,
 Score: r.RRFScore,
 InBothLists: r.InBothLists,
 })
	}
	return nil, out, nil
}

func (s *Server) handleRun(ctx context.Context, _ *mcp.CallToolRequest, input RunInput) (*mcp.CallToolResult, RunOutput, error) {
	if s.loop == nil {
 return nil, RunOutput{}, fmt.Errorf("no model gateway configured; run 'agentcore run' from a shell with --host/--model set")
	}
	if input.Message == "" {
 return nil, RunOutput{}, fmt.Errorf("message parameter is required")
	}

	result := s.loop.Run(ctx, agent.RunRequest{
 ConversationID: input.ConversationID,
 UserMessage: input.Message,
 MaxSteps: input.MaxSteps,
 MaxToolsPerStep: input.MaxToolsPerStep,
	})
	return nil, toRunOutput(result), nil
}

// recordSearch classifies a completed MCP search by which retrieval list(s)
// matched and feeds it into the shared query metrics collector, same as the
// CLI's search command.
func (s *Server) recordSearch(query string, results []vectorstore.FusedResult, latency time.Duration) {
	if s.metrics == nil {
 return
	}
	qt := telemetry.QueryTypeLexical
	if len(results) > 0 && results[0].InBothLists {
 qt = telemetry.QueryTypeMixed
	} else if s.index.Embeddings != nil {
 qt = telemetry.QueryTypeSemantic
	}
	s.metrics.Record(telemetry.QueryEvent{
 Query: query,
 QueryType: qt,
 ResultCount: len(results),
 Latency: latency,
 Timestamp: time.Now(),
	})
}

func toRunOutput(r agenttypes.LoopResult) RunOutput {
	return RunOutput{
 Success: r.Success,
 FinalAnswer: r.FinalAnswer,
 Error: r.Error,
 Steps: r.Steps,
	}
}
