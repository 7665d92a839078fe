package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
	"github.com/couchcryptid/quake-derived-views/internal/observability"
)

// BatchExtractor reads up to batchSize raw refreshes from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawRefresh, error)
}

// SnapshotPublisher delivers a derived snapshot to downstream consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Pipeline orchestrates the extract-reduce-publish loop and owns the single
// mutable reference to the current derived state. The state is replaced by
// pointer swap after each refresh, so concurrent readers always see a
// complete snapshot.
type Pipeline struct {
	extractor BatchExtractor
	applier   *RefreshApplier
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	state     atomic.Pointer[domain.DerivedState]
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, a *RefreshApplier, pub SnapshotPublisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		applier:   a,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Current returns the latest derived state, or a zero state before the
// first refresh has been applied.
func (p *Pipeline) Current() domain.DerivedState {
	if s := p.state.Load(); s != nil {
		return *s
	}
	return domain.DerivedState{}
}

// CheckReadiness returns nil once the pipeline has applied at least one
// refresh, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not applied any refreshes yet")
	}
	return nil
}

// Run executes the refresh loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-reduce-publish cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	for _, raw := range rawBatch {
		if !p.applyRefresh(ctx, raw, backoff, maxBackoff) {
			return false
		}
	}
	return true
}

// applyRefresh folds one refresh into the current state and publishes the
// resulting snapshot. Unparseable refreshes are committed and skipped so a
// poison payload never wedges the consumer group. A failed publish is
// retried in place under the backoff: offset commits are cumulative per
// partition, so committing any later message would mark this one consumed
// and its snapshot would never reach the sink. Returns false if the
// pipeline should stop.
func (p *Pipeline) applyRefresh(ctx context.Context, raw domain.RawRefresh, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	snap, err := p.applier.Apply(p.Current(), raw)
	if err != nil {
		p.logger.Warn("refresh rejected, skipping message",
			"error", err,
			"topic", raw.Topic,
			"partition", raw.Partition,
			"offset", raw.Offset,
		)
		p.metrics.ParseErrors.Inc()
		p.commitOffset(ctx, raw)
		return ctx.Err() == nil
	}

	p.state.Store(&snap.State)
	p.observeWindows(snap)

	for {
		err := p.publisher.PublishSnapshot(ctx, snap)
		if err == nil {
			break
		}
		p.logger.Error("publish snapshot failed, retrying", "error", err, "horizon", string(snap.Horizon))
		if !p.backoffOrStop(ctx, backoff, maxBackoff) {
			return false
		}
	}

	p.metrics.SnapshotsPublished.Inc()
	p.metrics.RefreshesApplied.WithLabelValues(string(snap.Horizon)).Inc()
	p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	p.commitOffset(ctx, raw)
	p.ready.Store(true)
	return true
}

// observeWindows exports the window sizes owned by the refreshed horizon.
func (p *Pipeline) observeWindows(snap domain.Snapshot) {
	switch snap.Horizon {
	case domain.HorizonShort:
		p.metrics.WindowEvents.WithLabelValues("1h").Set(float64(len(snap.State.Short.Events1h)))
		p.metrics.WindowEvents.WithLabelValues("24h").Set(float64(len(snap.State.Short.Events24h)))
	case domain.HorizonMedium:
		p.metrics.WindowEvents.WithLabelValues("7d").Set(float64(len(snap.State.Medium.Events7d)))
	case domain.HorizonLong:
		p.metrics.WindowEvents.WithLabelValues("14d").Set(float64(len(snap.State.Long.Events14d)))
		p.metrics.WindowEvents.WithLabelValues("30d").Set(float64(len(snap.State.Long.Events30d)))
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawRefresh) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
