// Package notify watches the photo family and announces new clouds.
package notify

import (
	"context"
	"sync"
	"time"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/logger"
)

// LatestSelector returns the newest object names of a family.
type LatestSelector interface {
	SelectLatest(ctx context.Context, prefix blob.Prefix, count int) ([]string, error)
}

// Broadcaster pushes a new-cloud notification to connected viewers.
type Broadcaster interface {
	NotifyNewCloud(name string) error
}

// Notifier polls for the newest photo and broadcasts when it changes.
type Notifier struct {
	selector    LatestSelector
	broadcaster Broadcaster
	interval    time.Duration
	trigger     chan struct{}
	logger      *logger.Logger

	mu     sync.Mutex
	latest string
	primed bool
}

// NewNotifier creates a Notifier checking every interval.
func NewNotifier(selector LatestSelector, broadcaster Broadcaster, interval time.Duration, logger *logger.Logger) *Notifier {
	return &Notifier{
		selector:    selector,
		broadcaster: broadcaster,
		interval:    interval,
		trigger:     make(chan struct{}, 1),
		logger:      logger,
	}
}

// Run checks once to learn the current photo, then on every tick or trigger
// until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	if _, err := n.Check(ctx); err != nil {
		n.logger.Warning("Initial cloud check failed: %v", err)
	}

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-n.trigger:
		}

		if _, err := n.Check(ctx); err != nil {
			n.logger.Warning("Cloud check failed: %v", err)
		}
	}
}

// Trigger requests an immediate check without blocking.
func (n *Notifier) Trigger() {
	select {
	case n.trigger <- struct{}{}:
	default:
	}
}

// Check selects the newest photo and broadcasts it when it differs from the
// last one seen. The first successful check only records the baseline.
func (n *Notifier) Check(ctx context.Context) (bool, error) {
	names, err := n.selector.SelectLatest(ctx, blob.PrefixPhoto, 1)
	if err != nil {
		return false, err
	}
	if len(names) == 0 {
		return false, nil
	}
	newest := names[0]

	n.mu.Lock()
	changed := n.primed && newest != n.latest
	n.latest = newest
	n.primed = true
	n.mu.Unlock()

	if !changed {
		return false, nil
	}

	n.logger.Info("New cloud available: %s", newest)
	if err := n.broadcaster.NotifyNewCloud(newest); err != nil {
		return true, err
	}
	return true, nil
}

// Latest returns the newest photo seen so far.
func (n *Notifier) Latest() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.latest
}
