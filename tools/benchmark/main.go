// Command benchmark drives load against a running market API instance and
// reports per-endpoint latency and throughput statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultEndpoints   = "/health,/api/v1/questions"
	defaultConcurrency = 10
	defaultRequests    = 1000
)

type Config struct {
	BaseURL     string
	Endpoints   []string
	Concurrency int           // Number of concurrent workers
	Requests    int           // Total requests per endpoint
	Timeout     time.Duration // Timeout for each request
	OutputFile  string        // Output markdown file path (optional)
	Debug       bool
}

// EndpointStats aggregates the results for a single endpoint
type EndpointStats struct {
	Endpoint     string
	Total        int
	Succeeded    int
	Failed       int
	StatusCounts map[int]int
	Latencies    []time.Duration
	Elapsed      time.Duration
}

type requestResult struct {
	status  int
	latency time.Duration
	err     error
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	client := &http.Client{Timeout: cfg.Timeout}

	// Probe the target before hammering it
	if err := probe(ctx, client, cfg.BaseURL); err != nil {
		fmt.Printf("Error reaching %s: %v\n", cfg.BaseURL, err)
		os.Exit(1)
	}
	fmt.Printf("Target: %s\n", cfg.BaseURL)
	fmt.Printf("Endpoints: %s\n", strings.Join(cfg.Endpoints, ", "))
	fmt.Printf("Requests per endpoint: %d (concurrency: %d)\n\n", cfg.Requests, cfg.Concurrency)

	allStats := make([]*EndpointStats, 0, len(cfg.Endpoints))
	for _, endpoint := range cfg.Endpoints {
		if ctx.Err() != nil {
			break
		}

		fmt.Printf("Benchmarking %s...\n", endpoint)
		stats := runEndpoint(ctx, client, cfg, endpoint)
		allStats = append(allStats, stats)
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 80))
	for _, stats := range allStats {
		printEndpointStats(stats)
	}

	// Write to markdown file if specified
	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, allStats); err != nil {
			fmt.Printf("\nWarning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\nReport written to: %s\n", cfg.OutputFile)
		}
	}
}

func parseFlags() *Config {
	baseURL := flag.String("url", "", "Base URL of the API (default from config file or "+defaultBaseURL+")")
	endpoints := flag.String("endpoints", defaultEndpoints, "Comma-separated endpoint paths to benchmark")
	concurrency := flag.Int("concurrency", defaultConcurrency, "Number of concurrent workers")
	requests := flag.Int("requests", defaultRequests, "Total requests per endpoint")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	outputFile := flag.String("output", "", "Output markdown file path (optional)")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	resolvedURL := *baseURL
	if resolvedURL == "" {
		if fileCfg, err := LoadConfig(GetDefaultConfigPath()); err == nil && fileCfg.BaseURL != "" {
			resolvedURL = fileCfg.BaseURL
		} else {
			resolvedURL = defaultBaseURL
		}
	}

	parts := strings.Split(*endpoints, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paths = append(paths, part)
		}
	}

	return &Config{
		BaseURL:     strings.TrimSuffix(resolvedURL, "/"),
		Endpoints:   paths,
		Concurrency: *concurrency,
		Requests:    *requests,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		Debug:       *debug,
	}
}

func probe(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// runEndpoint fires cfg.Requests requests at one endpoint through a
// bounded worker pool and aggregates the results
func runEndpoint(ctx context.Context, client *http.Client, cfg *Config, endpoint string) *EndpointStats {
	stats := &EndpointStats{
		Endpoint:     endpoint,
		StatusCounts: make(map[int]int),
		Latencies:    make([]time.Duration, 0, cfg.Requests),
	}

	pool := pond.NewResultPool[*requestResult](cfg.Concurrency)
	group := pool.NewGroup()

	url := cfg.BaseURL + endpoint
	start := time.Now()

	for i := 0; i < cfg.Requests; i++ {
		group.Submit(func() *requestResult {
			return doRequest(ctx, client, url)
		})
	}

	results, err := group.Wait()
	stats.Elapsed = time.Since(start)
	pool.Stop()

	if err != nil && ctx.Err() == nil {
		fmt.Printf("Warning: worker pool error on %s: %v\n", endpoint, err)
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		stats.Total++
		if result.err != nil {
			if cfg.Debug {
				fmt.Printf("  request error: %v\n", result.err)
			}
			stats.Failed++
			continue
		}
		stats.StatusCounts[result.status]++
		if result.status >= 200 && result.status < 400 {
			stats.Succeeded++
			stats.Latencies = append(stats.Latencies, result.latency)
		} else {
			stats.Failed++
		}
	}

	return stats
}

func doRequest(ctx context.Context, client *http.Client, url string) *requestResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &requestResult{err: err}
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return &requestResult{err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &requestResult{status: resp.StatusCode, latency: latency}
}

func printEndpointStats(stats *EndpointStats) {
	fmt.Printf("\n%s\n", stats.Endpoint)
	fmt.Println(strings.Repeat("-", len(stats.Endpoint)))
	fmt.Printf("  Requests:   %d (succeeded: %d, failed: %d, success rate: %s)\n",
		stats.Total, stats.Succeeded, stats.Failed, percentageString(stats.Succeeded, stats.Total))
	fmt.Printf("  Throughput: %s over %s\n", formatRate(stats.Total, stats.Elapsed), formatDuration(stats.Elapsed))

	if len(stats.Latencies) > 0 {
		fmt.Printf("  Latency:    p50=%s p90=%s p99=%s max=%s\n",
			formatDuration(percentile(stats.Latencies, 50)),
			formatDuration(percentile(stats.Latencies, 90)),
			formatDuration(percentile(stats.Latencies, 99)),
			formatDuration(percentile(stats.Latencies, 100)),
		)
	}

	statuses := make([]int, 0, len(stats.StatusCounts))
	for status := range stats.StatusCounts {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Printf("  HTTP %d:   %d\n", status, stats.StatusCounts[status])
	}
}

// percentile returns the p-th percentile latency. p=100 returns the max.
func percentile(latencies []time.Duration, p int) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func writeMarkdownReport(path string, allStats []*EndpointStats) error {
	var b strings.Builder

	b.WriteString("# API Benchmark Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC3339)))
	b.WriteString("| Endpoint | Requests | Success | Throughput | p50 | p90 | p99 |\n")
	b.WriteString("|----------|----------|---------|------------|-----|-----|-----|\n")

	for _, stats := range allStats {
		b.WriteString(fmt.Sprintf("| `%s` | %d | %s | %s | %s | %s | %s |\n",
			stats.Endpoint,
			stats.Total,
			percentageString(stats.Succeeded, stats.Total),
			formatRate(stats.Total, stats.Elapsed),
			formatDuration(percentile(stats.Latencies, 50)),
			formatDuration(percentile(stats.Latencies, 90)),
			formatDuration(percentile(stats.Latencies, 99)),
		))
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
