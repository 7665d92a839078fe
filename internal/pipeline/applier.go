package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
)

// RefreshApplier folds one raw feed refresh into the previous derived state.
type RefreshApplier struct {
	reducer *domain.Reducer
	logger  *slog.Logger
}

// NewApplier creates a RefreshApplier with the given major-quake threshold.
func NewApplier(majorMagnitude float64, logger *slog.Logger) *RefreshApplier {
	return &RefreshApplier{
		reducer: domain.NewReducer(majorMagnitude, logger),
		logger:  logger,
	}
}

// Apply parses the refresh payload and reduces it against prev. The message
// timestamp anchors all window math; a refresh with an unknown horizon or an
// unparseable payload fails without touching state.
func (a *RefreshApplier) Apply(prev domain.DerivedState, raw domain.RawRefresh) (domain.Snapshot, error) {
	h := raw.Horizon()
	if !h.Valid() {
		return domain.Snapshot{}, fmt.Errorf("unknown horizon %q", string(h))
	}
	if raw.Timestamp.IsZero() {
		return domain.Snapshot{}, fmt.Errorf("refresh for horizon %q has no fetch timestamp", string(h))
	}

	events, err := domain.ParseFeed(raw.Value, a.logger)
	if err != nil {
		return domain.Snapshot{}, err
	}

	next := a.reducer.Reduce(h, prev, events, raw.Timestamp)
	return domain.NewSnapshot(h, raw.Timestamp, next), nil
}
