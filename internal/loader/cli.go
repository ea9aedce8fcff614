package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/tracklite/checkind/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "load_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the bulk load tool.
func ShowHelp() {
	os.Stdout.WriteString(`Checkind Bulk Load Tool
=======================

Loads raw checkin records from a CSV file into a running checkind service.

Input format (header row optional):
  user,timestamp,hours,project

Timestamps may be any format the service accepts, including Russian
genitive dates like "5 марта 2024 14:30".

Usage:
  go run cmd/load-checkins/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -file string
        CSV file with raw checkin records (required)
  -batch int
        Records per bulk request (default 500)
  -workers int
        Number of concurrent workers (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for load output (default: load_log_TIMESTAMP.log)
  -dry-run
        Normalize timestamps locally without submitting anything
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Load a file with default settings
  go run cmd/load-checkins/main.go -file checkins.csv

  # Smaller batches against a remote service
  go run cmd/load-checkins/main.go -file checkins.csv -batch 100 -url http://checkind:9080

  # Check which timestamps would be rejected, without writing
  go run cmd/load-checkins/main.go -file checkins.csv -dry-run
`)
}
