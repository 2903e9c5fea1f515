// Package main benchmarks the reporank CLI across worker pool sizes.
// Each configuration runs several times over the same local checkouts, so
// the measurement covers extraction, scoring and ranking without network
// or clone cost.
//
// Prerequisites:
// - reporank binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the timings for one worker count.
type BenchmarkResult struct {
	Workers  int
	Runs     int
	Fastest  time.Duration
	Average  time.Duration
	TimedOut int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	Runs      int
	Workers   []int
	TestRepos []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:  os.Args[1],
		Timeout:   10 * time.Minute,
		Runs:      3,
		Workers:   []int{1, 2, 4, 8},
		TestRepos: []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	paths, err := checkPrerequisites(config)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, paths)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the reporank binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) ([]string, error) {
	if _, err := exec.LookPath("reporank"); err != nil {
		return nil, fmt.Errorf("reporank binary not found in PATH")
	}

	paths := make([]string, 0, len(config.TestRepos))
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
		paths = append(paths, repoPath)
	}
	return paths, nil
}

// runBenchmarks ranks the whole batch once per worker count and run
func runBenchmarks(config BenchmarkConfig, paths []string) []BenchmarkResult {
	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d runs per worker count\n",
		len(paths), config.Timeout, config.Runs)

	results := make([]BenchmarkResult, 0, len(config.Workers))
	for _, workers := range config.Workers {
		fmt.Printf("Benchmarking with %d workers\n", workers)
		result := BenchmarkResult{Workers: workers, Runs: config.Runs}

		var total time.Duration
		var completed int
		for run := 1; run <= config.Runs; run++ {
			elapsed, err := runOnce(config.Timeout, workers, paths)
			if err != nil {
				fmt.Printf("  Run %d failed: %v\n", run, err)
				result.TimedOut++
				continue
			}
			fmt.Printf("  Run %d: %.3fs\n", run, elapsed.Seconds())
			total += elapsed
			completed++
			if result.Fastest == 0 || elapsed < result.Fastest {
				result.Fastest = elapsed
			}
		}
		if completed > 0 {
			result.Average = total / time.Duration(completed)
		}
		results = append(results, result)
	}
	return results
}

// runOnce executes one `reporank local` invocation and returns its wall time
func runOnce(timeout time.Duration, workers int, paths []string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := append([]string{"local", "--output", "json", "--workers", strconv.Itoa(workers)}, paths...)
	cmd := exec.CommandContext(ctx, "reporank", args...)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return 0, fmt.Errorf("timed out after %v", timeout)
	}
	if err != nil {
		return 0, fmt.Errorf("%w\nOutput: %s", err, string(output))
	}
	return time.Since(start), nil
}

// saveResults writes the results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	filename := fmt.Sprintf("benchmark_results_%s.csv", time.Now().Format("20060102_150405"))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"workers", "runs", "fastest", "average", "failed"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Workers),
			strconv.Itoa(r.Runs),
			formatSeconds(r.Fastest),
			formatSeconds(r.Average),
			strconv.Itoa(r.TimedOut),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary shows the speedup of every worker count against the first
func printSummary(results []BenchmarkResult) {
	if len(results) == 0 || results[0].Average == 0 {
		return
	}
	baseline := results[0].Average
	fmt.Println("\nSummary:")
	for _, r := range results {
		if r.Average == 0 {
			fmt.Printf("  %2d workers: no successful runs\n", r.Workers)
			continue
		}
		fmt.Printf("  %2d workers: %s average (%.2fx)\n", r.Workers, formatSeconds(r.Average), baseline.Seconds()/r.Average.Seconds())
	}
}

func formatSeconds(d time.Duration) string {
	if d == 0 {
		return "FAILED"
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
