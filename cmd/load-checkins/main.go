package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/tracklite/checkind/internal/loader"
)

// Default configuration constants.
const (
	defaultBatchSize   = 500
	defaultTimeout     = 30 * time.Second
	defaultLoadTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		inputFile = flag.String("file", "", "CSV file with raw checkin records")
		batchSize = flag.Int("batch", defaultBatchSize, "Records per bulk request")
		workers   = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for load output (default: load_log_TIMESTAMP.log)")
		dryRun    = flag.Bool("dry-run", false, "Normalize timestamps locally without submitting")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || *inputFile == "" {
		loader.ShowHelp()
		return
	}

	// Setup logging
	if err := loader.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultLoadTimeout)
	defer cancel()

	config := &loader.Config{
		BaseURL:   *baseURL,
		InputFile: *inputFile,
		BatchSize: *batchSize,
		Workers:   *workers,
		Timeout:   *timeout,
		LogFile:   *logFile,
		DryRun:    *dryRun,
		Verbose:   *verbose,
	}

	if err := loader.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
