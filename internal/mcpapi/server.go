// Package mcpapi exposes a read-only Model Context Protocol tool server so
// an AI agent can ask about recent decodes and decoder health without any
// path back into pipeline control.
package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sbuilta/hf-decoder/internal/engine"
	"github.com/sbuilta/hf-decoder/internal/pipeline"
	"github.com/sbuilta/hf-decoder/internal/store"
)

// Server wraps an mcp-go StreamableHTTPServer exposing read-only tools
// backed by the message store and the running pipeline.
type Server struct {
	st   *store.Store
	pipe *pipeline.Pipeline
	eng  *engine.Engine

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// NewServer builds a Server with its tools registered.
func NewServer(st *store.Store, pipe *pipeline.Pipeline, eng *engine.Engine) *Server {
	s := &Server{st: st, pipe: pipe, eng: eng}

	s.mcpServer = server.NewMCPServer(
		"hf-decoder",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	s.httpServer = server.NewStreamableHTTPServer(s.mcpServer)
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("recent_messages",
			mcp.WithDescription("Get the most recently decoded FT8/JS8 messages, newest first, including band, frequency, mode, SNR, and text. Use this to answer questions about specific recent decodes."),
			mcp.WithNumber("limit",
				mcp.Description("Number of messages to return (default 10, max 50)"),
				mcp.DefaultNumber(10.0),
			),
		),
		s.handleRecentMessages,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("decoder_status",
			mcp.WithDescription("Get the decoder's operational status: last capture time, last decode time, last decode count, current band, and whether JS8 fallback decoding is enabled. Use this to assess whether the receiver is currently running and producing decodes."),
		),
		s.handleDecoderStatus,
	)
}

// ServeHTTP handles MCP protocol requests over HTTP.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.ServeHTTP(w, r)
}

func (s *Server) handleRecentMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 10.0))
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	records, err := s.st.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read recent messages: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal messages: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleDecoderStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lastCapture, lastDecode, lastCount := s.pipe.Status()
	band, dialHz := s.pipe.Band()

	status := map[string]interface{}{
		"last_capture": lastCapture,
		"last_decode":  lastDecode,
		"last_count":   lastCount,
		"band":         band,
		"dial_hz":      dialHz,
		"js8_enabled":  s.eng.JS8Enabled(),
	}

	jsonData, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
