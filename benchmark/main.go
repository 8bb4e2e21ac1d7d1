// Package main provides a performance benchmarking tool for the EzGM CLI.
// It generates synthetic record catalogs of increasing size, measures selection
// times with and without the suite optimizer, running each test multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - ezgm binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to generate synthetic catalogs and configs in
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (greedy-only average, cold run and average of warm runs).
type BenchmarkResult struct {
	Catalog    string
	Command    string
	GreedyTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	GreedyRuns   int
	OptimizeRuns int
	CatalogSizes []int
}

// benchGrid is the period grid the synthetic catalogs are generated on.
var benchGrid = []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:      workDir,
		Timeout:      5 * time.Minute,
		Workers:      4,
		GreedyRuns:   3,
		OptimizeRuns: 4,
		CatalogSizes: []int{200, 1000, 5000},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := generateFixtures(config); err != nil {
		fmt.Printf("Failed to generate synthetic catalogs: %v\n", err)
		os.Exit(1)
	}

	// Clear run history so tracking overhead starts from an empty store
	fmt.Printf("Clearing run history...\n")
	clearCmd := exec.Command("ezgm", "runs", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear run history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Run history cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the ezgm binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if ezgm is available
	if _, err := exec.LookPath("ezgm"); err != nil {
		return fmt.Errorf("ezgm binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", config.WorkDir, err)
	}

	return nil
}

// generateFixtures writes one synthetic flatfile per catalog size plus the
// shared scenario config the selections run against.
func generateFixtures(config BenchmarkConfig) error {
	for _, size := range config.CatalogSizes {
		path := catalogPath(config, size)
		if err := writeSyntheticCatalog(path, size); err != nil {
			return err
		}
		fmt.Printf("Generated %s (%d records)\n", path, size)
	}
	return writeScenarioConfig(scenarioConfigPath(config))
}

func catalogPath(config BenchmarkConfig, size int) string {
	return filepath.Join(config.WorkDir, fmt.Sprintf("catalog_%d.csv", size))
}

func scenarioConfigPath(config BenchmarkConfig) string {
	return filepath.Join(config.WorkDir, "bench.yaml")
}

// writeSyntheticCatalog generates a deterministic flatfile with lognormal-ish
// spectral shapes spread around a plausible scenario.
func writeSyntheticCatalog(path string, size int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"id", "event_id", "station", "magnitude", "distance", "vs30", "duration", "components"}
	for _, t := range benchGrid {
		header = append(header, fmt.Sprintf("sa_%g", t))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// Small multiplicative congruential generator keeps the fixture
	// deterministic without pulling in a simulation dependency.
	state := uint64(20260830)
	next := func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		return float64(state>>11) / float64(1<<53)
	}

	for i := 1; i <= size; i++ {
		mag := 5.5 + 2.0*next()
		dist := 5.0 + 95.0*next()
		vs30 := 180.0 + 600.0*next()
		dur := 5.0 + 40.0*next()
		amp := math.Exp(1.2 * (next() - 0.5))

		row := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("EQ-%03d", 1+i/4), // a few records per event
			fmt.Sprintf("STN-%04d", i),
			fmt.Sprintf("%.2f", mag),
			fmt.Sprintf("%.1f", dist),
			fmt.Sprintf("%.0f", vs30),
			fmt.Sprintf("%.1f", dur),
			"2",
		}
		for _, t := range benchGrid {
			// Plateau up to ~0.2s then 1/T decay, jittered per record
			shape := 0.4
			if t > 0.2 {
				shape = 0.4 * 0.2 / t
			}
			sa := amp * shape * math.Exp(0.4*(next()-0.5))
			row = append(row, fmt.Sprintf("%.5f", sa))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeScenarioConfig emits the table-backed ground-motion model the
// benchmark selections condition on.
func writeScenarioConfig(path string) error {
	var sb strings.Builder
	sb.WriteString("scenario:\n  magnitude: 6.5\n  distance: 20\n  vs30: 400\n")
	sb.WriteString("tables:\n  - magnitude: 6.5\n    distance: 20\n")
	sb.WriteString("    periods: [")
	for i, t := range benchGrid {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", t)
	}
	sb.WriteString("]\n    medians: [")
	for i, t := range benchGrid {
		if i > 0 {
			sb.WriteString(", ")
		}
		median := 0.45
		if t > 0.2 {
			median = 0.45 * 0.2 / t
		}
		fmt.Fprintf(&sb, "%.4f", median)
	}
	sb.WriteString("]\n    sigmas: [")
	for i := range benchGrid {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("0.55")
	}
	sb.WriteString("]\n")
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// runBenchmarks executes all benchmark tests across the generated catalogs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d catalogs, %v timeout, %d workers, greedy: %d runs, optimize: %d runs\n",
		len(config.CatalogSizes), config.Timeout, config.Workers, config.GreedyRuns, config.OptimizeRuns)

	for _, size := range config.CatalogSizes {
		name := fmt.Sprintf("catalog_%d", size)
		fmt.Printf("Benchmarking %s\n", name)

		// Single-stripe Sa selection
		result := runBenchmarkSuite(config, name, size, "select", "single-stripe selection", "--levels 0.3 --anchor 1.0")
		results = append(results, result)

		// Multi-stripe selection
		args := "--levels 0.1,0.3,0.6 --anchor 1.0"
		result = runBenchmarkSuite(config, name, size, "stripes", "three-stripe selection", args)
		results = append(results, result)

		// AvgSa conditioning over a band
		args = "--im avgsa --anchor 0.2:2.0 --levels 0.25"
		result = runBenchmarkSuite(config, name, size, "avgsa", "average-Sa selection", args)
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both greedy-only and optimizer benchmarks for a scenario
func runBenchmarkSuite(config BenchmarkConfig, name string, size int, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, name)

	// Helper to run a benchmark phase
	runPhase := func(passes, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, size, extraArgs, passes, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: Greedy-only runs
	_, greedyAvg := runPhase(0, config.GreedyRuns, "Greedy")

	// Phase 2: Optimizer runs
	coldTime, warmAvg := runPhase(2, config.OptimizeRuns, "Optimize")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Greedy average: %s, Cold time: %s, Warm average: %s\n", greedyAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Catalog:    name,
		Command:    command,
		GreedyTime: greedyAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes an ezgm selection multiple times with the given optimizer
// pass budget and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, size int, extraArgs string, passes, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{"select", catalogPath(config, size),
		"--config", scenarioConfigPath(config),
		"--seed", "42",
		"--workers", fmt.Sprintf("%d", config.Workers),
		"--passes", fmt.Sprintf("%d", passes),
	}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("ezgm", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Selection completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/ezgm_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"catalog", "cmd", "greedy_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Catalog, result.Command, result.GreedyTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "select", "Single-Stripe Selection:")
	printCommandSummary(results, "stripes", "Three-Stripe Selection:")
	printCommandSummary(results, "avgsa", "Average-Sa Selection:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific scenario type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: Greedy: %s, Cold: %s, Warm: %s\n", result.Catalog, result.GreedyTime, result.ColdTime, result.WarmTime)
		}
	}
}
