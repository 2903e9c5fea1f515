package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/reporank/core"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// rankFunc produces a ranking for cfg.
type rankFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.RankOutput, error)

var defaultRankFunc rankFunc = core.GetRankResults

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	rank    rankFunc
}

// rankResponse is the JSON body returned by rank_repositories.
type rankResponse struct {
	Summary      schema.RankSummary          `json:"summary"`
	Formula      string                      `json:"formula"`
	Repositories []schema.EnrichedRepository `json:"repositories"`
}

// weightsResponse is one row of list_weights.
type weightsResponse struct {
	Metric      schema.MetricName `json:"metric"`
	Weight      float64           `json:"weight"`
	Inverted    bool              `json:"inverted"`
	Description string            `json:"description"`
}

func (h *toolHandler) handleRankRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weights, err := parseWeights(request.GetArguments()["weights"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ranking parameters: %v", err)), nil
	}

	cfg := h.baseCfg.Clone()
	overrides := contract.RankOverrides{
		Owner:     request.GetString("username", ""),
		LocalPath: request.GetString("local_path", ""),
		Limit:     request.GetInt("limit", 0),
		Workers:   request.GetInt("workers", 0),
		Weights:   weights,
	}
	if err := contract.ApplyRankOverrides(cfg, overrides); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ranking parameters: %v", err)), nil
	}

	output, err := h.rank(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rankResponse{
		Summary:      output.Summary,
		Formula:      cfg.Weights.Formula(),
		Repositories: schema.EnrichRepositories(output.Ranked),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListWeights(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weights := h.baseCfg.Weights
	if len(weights) == 0 {
		weights = schema.GetDefaultWeights()
	}

	rows := make([]weightsResponse, 0, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		rows = append(rows, weightsResponse{
			Metric:      m,
			Weight:      weights[m],
			Inverted:    schema.IsInverted(m),
			Description: schema.MetricDescriptions[m],
		})
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"formula": weights.Formula(),
		"metrics": rows,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// parseWeights converts a JSON object argument into weight overrides.
func parseWeights(raw any) (map[string]float64, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("weights must be an object of metric to number, got %T", raw)
	}
	out := make(map[string]float64, len(obj))
	for k, v := range obj {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("weight for %s must be a number", k)
		}
		out[k] = f
	}
	return out, nil
}
