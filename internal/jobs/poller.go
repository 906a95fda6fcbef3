package jobs

import (
	"context"
	"time"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/services"
)

// IngestPoller triggers an ingestion cycle on a fixed period. Cycles run
// inline in the polling goroutine, so a tick that comes due while a cycle
// is still in flight is dropped: there is never more than one ingestion
// run racing on the gateway cursor.
type IngestPoller struct {
	log      *logger.Logger
	ingest   services.IngestService
	interval time.Duration
}

func NewIngestPoller(log *logger.Logger, ingest services.IngestService, interval time.Duration) *IngestPoller {
	return &IngestPoller{
		log:      log.With("job", "IngestPoller"),
		ingest:   ingest,
		interval: interval,
	}
}

// Start launches the polling loop. It returns immediately; the loop stops
// when ctx is cancelled. An in-flight cycle is not interrupted mid-batch,
// it finishes or the process exits with it.
func (p *IngestPoller) Start(ctx context.Context) {
	p.log.Info("Starting ingestion poller", "interval", p.interval)
	go p.run(ctx)
}

func (p *IngestPoller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Ingestion poller stopped")
			return
		case <-ticker.C:
			if err := p.ingest.IngestExternalUpdates(ctx); err != nil {
				p.log.Warn("Ingestion cycle failed", "error", err)
			}
		}
	}
}
