package pilot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/pilot"
)

// CollectorConfig tunes the background feedback writer
type CollectorConfig struct {
	FlushInterval time.Duration
	BatchSize     int
	MaxRetries    int
}

// DefaultCollectorConfig returns the default collector configuration
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		FlushInterval: 5 * time.Second,
		BatchSize:     100,
		MaxRetries:    3,
	}
}

// Collector drains the feedback queue into the database in batches. One
// collector runs per process.
type Collector struct {
	service *FeedbackService
	config  CollectorConfig
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewCollector creates a collector for the given feedback service
func NewCollector(service *FeedbackService, config CollectorConfig, logger *zap.Logger) *Collector {
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize < 1 {
		config.BatchSize = 100
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 3
	}
	return &Collector{service: service, config: config, logger: logger}
}

// Start launches the collector goroutine. It runs until the context is
// cancelled, then drains whatever is still queued before exiting.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.config.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.flush(context.Background())
				return
			case <-ticker.C:
				c.flush(ctx)
			}
		}
	}()
}

// Wait blocks until the collector goroutine has exited
func (c *Collector) Wait() {
	c.wg.Wait()
}

// Flush drains the queue once, outside the ticker. Used by tests and by
// shutdown paths that want a synchronous write.
func (c *Collector) Flush(ctx context.Context) {
	c.flush(ctx)
}

func (c *Collector) flush(ctx context.Context) {
	for {
		batch := c.drain()
		if len(batch) == 0 {
			return
		}
		c.persist(ctx, batch)
		if len(batch) < c.config.BatchSize {
			return
		}
	}
}

func (c *Collector) drain() []*pilot.FeedbackEvent {
	batch := make([]*pilot.FeedbackEvent, 0, c.config.BatchSize)
	for len(batch) < c.config.BatchSize {
		select {
		case event := <-c.service.queue:
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

// persist writes a batch with bounded retries. A batch that keeps failing is
// logged and dropped so the queue cannot back up behind a poison batch.
func (c *Collector) persist(ctx context.Context, batch []*pilot.FeedbackEvent) {
	var err error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if err = c.service.feedbackRepo.SaveBatch(ctx, batch); err == nil {
			c.logger.Debug("Feedback batch written", zap.Int("events", len(batch)))
			return
		}
		c.logger.Warn("Feedback batch write failed",
			zap.Int("attempt", attempt),
			zap.Int("events", len(batch)),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	c.logger.Error("Feedback batch dropped after retries",
		zap.Int("events", len(batch)),
		zap.Error(err))
}
