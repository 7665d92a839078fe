package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
)

// FanoutPublisher delivers each snapshot to every underlying publisher.
// All publishers are attempted even when an earlier one fails; the joined
// error makes the pipeline retry the refresh, so publishers must tolerate
// seeing the same snapshot again.
type FanoutPublisher struct {
	publishers []SnapshotPublisher
}

func NewFanoutPublisher(publishers ...SnapshotPublisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

func (f *FanoutPublisher) PublishSnapshot(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.PublishSnapshot(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
