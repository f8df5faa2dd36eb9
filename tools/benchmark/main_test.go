package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "N/A", formatRate(10, 0))
	assert.Equal(t, "100.00/s", formatRate(100, time.Second))
	assert.Equal(t, "50.00/s", formatRate(100, 2*time.Second))
}

func TestPercentageString(t *testing.T) {
	assert.Equal(t, "0.00%", percentageString(1, 0))
	assert.Equal(t, "100.00%", percentageString(5, 5))
	assert.Equal(t, "25.00%", percentageString(1, 4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0", formatDuration(0))
	assert.Equal(t, "500µs", formatDuration(500*time.Microsecond))
	assert.Equal(t, "2.5ms", formatDuration(2500*time.Microsecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, time.Duration(0), percentile(nil, 50))

	latencies := []time.Duration{
		40 * time.Millisecond,
		10 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
	}
	assert.Equal(t, 30*time.Millisecond, percentile(latencies, 50))
	assert.Equal(t, 40*time.Millisecond, percentile(latencies, 100))
	// Input order is preserved
	assert.Equal(t, 40*time.Millisecond, latencies[0])
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.json")

	require.NoError(t, SaveConfig(path, &BenchmarkConfig{BaseURL: "http://api.example.com"}))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", cfg.BaseURL)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunEndpoint(t *testing.T) {
	hits := make(chan struct{}, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &Config{
		BaseURL:     server.URL,
		Concurrency: 4,
		Requests:    20,
		Timeout:     5 * time.Second,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	t.Run("successful endpoint", func(t *testing.T) {
		stats := runEndpoint(context.Background(), client, cfg, "/ok")

		assert.Equal(t, 20, stats.Total)
		assert.Equal(t, 20, stats.Succeeded)
		assert.Equal(t, 0, stats.Failed)
		assert.Equal(t, 20, stats.StatusCounts[http.StatusOK])
		assert.Len(t, stats.Latencies, 20)
		assert.Greater(t, stats.Elapsed, time.Duration(0))
	})

	t.Run("error statuses count as failures", func(t *testing.T) {
		stats := runEndpoint(context.Background(), client, cfg, "/missing")

		assert.Equal(t, 20, stats.Total)
		assert.Equal(t, 0, stats.Succeeded)
		assert.Equal(t, 20, stats.Failed)
		assert.Equal(t, 20, stats.StatusCounts[http.StatusNotFound])
	})
}

func TestWriteMarkdownReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	stats := []*EndpointStats{{
		Endpoint:     "/api/v1/questions",
		Total:        100,
		Succeeded:    98,
		Failed:       2,
		StatusCounts: map[int]int{200: 98, 500: 2},
		Latencies:    []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
		Elapsed:      time.Second,
	}}

	require.NoError(t, writeMarkdownReport(path, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| `/api/v1/questions` | 100 | 98.00% |")
}
