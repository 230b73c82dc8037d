// Command smoke probes a running portal instance and reports per-endpoint
// status. Intended for deploy verification, not load testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type target struct {
	method   string
	path     string
	wantCode int
}

var targets = []target{
	{http.MethodGet, "/health", http.StatusOK},
	{http.MethodGet, "/ready", http.StatusOK},
	{http.MethodGet, "/metrics", http.StatusOK},
	{http.MethodGet, "/api/v1/events", http.StatusOK},
	{http.MethodGet, "/api/v1/events?tab=Technical", http.StatusOK},
	{http.MethodGet, "/api/v1/session", http.StatusBadRequest}, // no session header
	{http.MethodGet, "/api/v1/od-requests", http.StatusUnauthorized},
	{http.MethodGet, "/api/v1/summary/club-activity", http.StatusUnauthorized},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	failures := 0

	for _, t := range targets {
		req, err := http.NewRequest(t.method, base+t.path, nil)
		if err != nil {
			log.Fatalf("bad target %s %s: %v", t.method, t.path, err)
		}

		start := time.Now()
		resp, err := client.Do(req)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Printf("FAIL %-6s %-40s error=%v\n", t.method, t.path, err)
			failures++
			continue
		}
		resp.Body.Close()

		mark := "ok  "
		if resp.StatusCode != t.wantCode {
			mark = "FAIL"
			failures++
		}
		fmt.Printf("%s %-6s %-40s got=%d want=%d in %s\n", mark, t.method, t.path, resp.StatusCode, t.wantCode, elapsed)
	}

	if failures > 0 {
		fmt.Printf("%d of %d checks failed\n", failures, len(targets))
		os.Exit(1)
	}
	fmt.Printf("all %d checks passed\n", len(targets))
}
