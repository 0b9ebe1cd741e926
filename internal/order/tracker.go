package order

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker simulates carrier progress for one order: a ticker advances the
// order's items until every item rests at Delivered or terminal, then the
// tracker stops itself. The owner can stop it earlier via Stop or by
// cancelling the context, the equivalent of tearing down a tracking view.
type Tracker struct {
	mgr         *Manager
	principalID string
	orderID     string

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Track starts a tracker for one of the principal's orders. The order must
// exist; interval defaults to 4 seconds when not positive.
func (m *Manager) Track(ctx context.Context, principalID, orderID string, interval time.Duration) (*Tracker, error) {
	if _, err := m.GetFor(principalID, orderID); err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = 4 * time.Second
	}
	t := &Tracker{
		mgr:         m,
		principalID: principalID,
		orderID:     orderID,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go t.run(ctx, interval)
	zap.L().Info("tracker started", zap.String("order", orderID), zap.Duration("interval", interval))
	return t, nil
}

func (t *Tracker) run(ctx context.Context, interval time.Duration) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-ticker.C:
			_, resting, err := t.mgr.AdvanceFor(t.principalID, t.orderID)
			if err != nil {
				zap.L().Warn("tracker: advance failed", zap.String("order", t.orderID), zap.Error(err))
				return
			}
			if resting {
				zap.L().Info("tracker finished", zap.String("order", t.orderID))
				return
			}
		}
	}
}

// Stop halts the tracker; safe to call more than once.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Done is closed once the tracker goroutine has exited.
func (t *Tracker) Done() <-chan struct{} { return t.done }
