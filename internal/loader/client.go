package loader

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tracklite/checkind/pkg/logger"
)

const (
	retryCount        = 3
	retryWaitTime     = 500 * time.Millisecond
	retryMaxWaitTime  = 3 * time.Second
	progressInterval  = 1 * time.Second
	bulkIngestionPath = "/checkins/bulk"
)

// newClient builds the REST client used to submit batches.
func newClient(config *Config) *resty.Client {
	return resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// submitBatches posts record chunks concurrently using a worker pool.
// Each chunk is one all-or-nothing server-side batch; a rejection of one
// chunk does not stop the others.
func submitBatches(ctx context.Context, config *Config, batches [][]Record, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting batches",
		logger.Int("batches", len(batches)),
		logger.Int("workers", config.Workers),
	)

	client := newClient(config)

	var (
		submitted int64
		rejected  int64
		stored    int64
	)

	batchChan := make(chan []Record, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					n, err := submitSingleBatch(ctx, client, batch)
					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&rejected, 1)
						log.Warn(ctx, "batch rejected", logger.Error(err))
						continue
					}
					atomic.AddInt64(&stored, int64(n))
					if config.Verbose {
						log.Info(ctx, "batch stored",
							logger.Int("records", n),
							logger.Int("done", int(atomic.LoadInt64(&submitted))),
							logger.Int("total", len(batches)),
						)
					}
				}
			}
		}()
	}

	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	wg.Wait()

	stats.BatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.BatchesRejected = int(atomic.LoadInt64(&rejected))
	stats.RecordsStored = int(atomic.LoadInt64(&stored))

	log.Info(ctx, "submission completed",
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesRejected", stats.BatchesRejected),
		logger.Int("recordsStored", stats.RecordsStored),
	)
	return nil
}

// submitSingleBatch posts one chunk and reports how many records stuck.
func submitSingleBatch(ctx context.Context, client *resty.Client, batch []Record) (int, error) {
	var (
		ok  bulkResponse
		rej rejection
	)
	resp, err := client.R().
		SetContext(ctx).
		SetBody(bulkRequest{Records: batch}).
		SetResult(&ok).
		SetError(&rej).
		Post(bulkIngestionPath)
	if err != nil {
		return 0, fmt.Errorf("post batch: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated:
		return ok.Stored, nil
	case http.StatusUnprocessableEntity:
		return 0, fmt.Errorf("record %d rejected (%s): %s", rej.Record, rej.Code, rej.Message)
	default:
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), rej.Message)
	}
}
