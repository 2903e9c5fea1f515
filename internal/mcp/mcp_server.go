// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the ranking MCP server without
// starting it.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"RepoRank Complexity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		rank:    defaultRankFunc,
	}
	h.register(s)
	return s
}

// register adds every tool to s.
func (h *toolHandler) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("rank_repositories",
		mcp.WithDescription("Rank the public repositories of a GitHub user, or one local checkout, by composite complexity score."),
		mcp.WithString("username", mcp.Description("GitHub user or organization whose public repositories are ranked.")),
		mcp.WithString("local_path", mcp.Description("Path to a local repository to score instead of a GitHub user.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of ranked repositories to return.")),
		mcp.WithNumber("workers", mcp.Description("Number of repositories analyzed concurrently.")),
		mcp.WithObject("weights", mcp.Description("Per-metric weight overrides, merged onto the defaults. The final table must sum to 1.0.")),
	), h.handleRankRepositories)

	s.AddTool(mcp.NewTool("list_weights",
		mcp.WithDescription("Show the active metric weights, metric descriptions and scoring formula."),
	), h.handleListWeights)
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
