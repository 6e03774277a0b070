// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz metadata tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/tagger"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp    *server.MCPServer
	db     *index.DB
	tagger *tagger.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(db *index.DB, tg *tagger.Service) *Server {
	s := &Server{db: db, tagger: tg}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_metadata",
		mcp.WithDescription("Classify a vault-relative file path and return its inferred "+
			"program, course, class, module and lesson, with the source each value came from."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative file path (e.g. MBA/Finance101/Core/01_intro/video.mp4)")),
		mcp.WithString("program", mcp.Description("Optional program override")),
		mcp.WithString("course", mcp.Description("Optional course override")),
		mcp.WithString("class", mcp.Description("Optional class override")),
	), s.resolveMetadata)

	s.mcp.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Search indexed vault files by their metadata fields "+
			"(program, course, class, module, lesson)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchFiles)

	s.mcp.AddTool(mcp.NewTool("vault_status",
		mcp.WithDescription("Return index statistics: file counts, metadata coverage and per-program totals."),
	), s.vaultStatus)

	s.mcp.AddTool(mcp.NewTool("get_metadata_contract",
		mcp.WithDescription("Returns the canonical Ansuz frontmatter metadata contract. "+
			"Call this to learn which fields the classifier manages and how conflicts are resolved."),
	), s.getMetadataContract)

	// Resource: metadata contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://metadata-contract", "Metadata Contract",
			mcp.WithResourceDescription("Canonical frontmatter metadata fields managed by the classifier."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMetadataContractResource,
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

func (s *Server) resolveMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ov := models.Overrides{
		Program: req.GetString("program", ""),
		Course:  req.GetString("course", ""),
		Class:   req.GetString("class", ""),
	}

	res, err := s.tagger.Resolve(path, ov)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no matching files"), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) vaultStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.db.Stats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode stats: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMetadataContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MetadataContract), nil
}

func (s *Server) readMetadataContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://metadata-contract",
			MIMEType: "text/markdown",
			Text:     MetadataContract,
		},
	}, nil
}
