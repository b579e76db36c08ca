// Package main provides a performance benchmarking tool for the gitpulse CLI.
// For each repository it times the first collection into an empty store (cold),
// repeated collections where every commit is already stored (warm), and the
// read-only query and hotspot commands, then writes the timings to CSV.
//
// Prerequisites:
// - gitpulse binary installed and available in PATH
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
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository string
	Command    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase     string
	Timeout      time.Duration
	Runs         int
	CollectLimit int
	TestRepos    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:     os.Args[1],
		Timeout:      10 * time.Minute,
		Runs:         4,
		CollectLimit: 5000,
		TestRepos:    []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that gitpulse binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gitpulse"); err != nil {
		return fmt.Errorf("gitpulse binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories.
// Every repository gets its own SQLite file so cold runs really start empty.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	dbDir, err := os.MkdirTemp("", "gitpulse-benchmark-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dbDir) }()

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d runs, collect limit %d\n",
		len(config.TestRepos), config.Timeout, config.Runs, config.CollectLimit)

	limit := fmt.Sprintf("%d", config.CollectLimit)
	var results []BenchmarkResult
	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		env := []string{
			"GITPULSE_DB_BACKEND=sqlite",
			"GITPULSE_DB_CONNECT=" + filepath.Join(dbDir, repo+".db"),
		}

		// The first run of init collects into an empty store
		results = append(results, runSuite(config, repo, repoPath, env, "init", "init", ".", "--project", repo))
		results = append(results, runSuite(config, repo, repoPath, env, "collect", "collect", "--project", repo, "--limit", limit))
		results = append(results, runSuite(config, repo, repoPath, env, "query", "query", "--project", repo, "--type", "fix", "--output", "json"))
		results = append(results, runSuite(config, repo, repoPath, env, "hotspots", "hotspots", "--project", repo, "--output", "json"))
	}
	return results, nil
}

// runSuite runs one command config.Runs times. The first successful run is cold,
// the rest are averaged as warm.
func runSuite(config BenchmarkConfig, repo, repoPath string, env []string, name string, args ...string) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", name, config.Runs)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		if elapsed, ok := runOnce(config, repoPath, env, args); ok {
			times = append(times, elapsed)
		}
	}

	result := BenchmarkResult{Repository: repo, Command: name, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}
	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runOnce runs gitpulse once and reports the elapsed seconds if it succeeded in time.
func runOnce(config BenchmarkConfig, repoPath string, env []string, args []string) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "gitpulse", args...)
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(), env...)
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("    run failed: %v\n%s\n", err, output)
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gitpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"init", "collect", "query", "hotspots"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Repository, result.ColdTime, result.WarmTime)
			}
		}
	}
}
