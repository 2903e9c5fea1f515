// Package core has core logic for extraction, scoring and ranking.
package core

import (
	"context"
	"errors"

	"github.com/huangsam/reporank/core/algo"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/github"
	"github.com/huangsam/reporank/internal/outwriter"
	"github.com/huangsam/reporank/schema"
)

// ExecuteRank ranks the configured repositories and prints the results.
// It serves as the main entry point for the 'rank' and 'local' commands.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	source, cloner, err := newRepositoryBackends(cfg)
	if err != nil {
		return err
	}

	spin := outwriter.NewSpinner("Analyzing repositories", !cfg.Verbose)
	spin.Start()
	output, err := runRankCore(ctx, cfg, source, cloner, mgr)
	spin.Stop()
	if err != nil {
		return err
	}

	output.Ranked = algo.Top(output.Ranked, cfg.ResultLimit)
	return outwriter.PrintRankResults(*output, cfg)
}

// GetRankResults ranks the configured repositories without printing.
// It serves the MCP server, which formats results itself.
func GetRankResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.RankOutput, error) {
	source, cloner, err := newRepositoryBackends(cfg)
	if err != nil {
		return nil, err
	}
	output, err := runRankCore(withSuppressHeader(ctx), cfg, source, cloner, mgr)
	if err != nil {
		return nil, err
	}
	output.Ranked = algo.Top(output.Ranked, cfg.ResultLimit)
	return output, nil
}

// ExecuteWeights displays the active weight table and scoring formula.
// This is a static display that does not analyze any repository.
func ExecuteWeights(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.PrintWeights(cfg.Weights, cfg)
}

// newRepositoryBackends picks local directories when configured and the
// GitHub API otherwise.
func newRepositoryBackends(cfg *contract.Config) (contract.RepositorySource, contract.Cloner, error) {
	if len(cfg.LocalPaths) > 0 {
		return &contract.LocalSource{Paths: cfg.LocalPaths}, &contract.LocalCloner{}, nil
	}
	if cfg.Owner == "" {
		return nil, nil, errors.New("a GitHub username or at least one local path is required")
	}
	source, err := github.NewSource(cfg.GitHubAPIURL, github.Options{
		SkipForks:    cfg.SkipForks,
		SkipArchived: cfg.SkipArchived,
	})
	if err != nil {
		return nil, nil, err
	}
	return source, contract.NewGitCloner(), nil
}
