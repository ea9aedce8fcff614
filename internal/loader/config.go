package loader

import "time"

// Config holds configuration for a bulk load run.
type Config struct {
	BaseURL   string        // Base URL of the service
	InputFile string        // CSV file with raw checkin records
	BatchSize int           // Records per bulk request
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for load output
	DryRun    bool          // Normalize locally without submitting
	Verbose   bool          // Enable verbose logging
}

// Record is one raw checkin row read from the input file.
type Record struct {
	User      string  `json:"user"`
	Timestamp string  `json:"timestamp"`
	Hours     float64 `json:"hours"`
	Project   string  `json:"project"`
}

// bulkRequest is the wire shape of POST /checkins/bulk.
type bulkRequest struct {
	Records []Record `json:"records"`
}

// bulkResponse acknowledges a stored batch.
type bulkResponse struct {
	Stored int `json:"stored"`
}

// rejection is the wire shape of a 422 batch rejection.
type rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Record  int    `json:"record"`
	Raw     string `json:"raw,omitempty"`
}

// Stats holds load statistics.
type Stats struct {
	RecordsRead      int
	BatchesSubmitted int
	BatchesRejected  int
	RecordsStored    int
	ParseFailures    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
