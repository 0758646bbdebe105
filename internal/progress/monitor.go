// Package progress polls batch progress endpoints.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/open-cli-collective/media-filter-cli/api"
)

// DefaultDelay is the pause between two pings.
const DefaultDelay = 500 * time.Millisecond

// Fetcher retrieves one progress report.
type Fetcher interface {
	GetProgress(ctx context.Context, uri, method string) (*api.Progress, error)
}

// Update is the state reported after a successful ping.
type Update struct {
	// Percent is the last valid percentage seen; out-of-range values
	// leave it unchanged.
	Percent float64 `json:"percent"`
	Message string  `json:"message,omitempty"`
}

// BatchError is a failure reported by the batch itself.
type BatchError struct {
	Data string
}

func (e *BatchError) Error() string {
	if e.Data == "" {
		return "batch reported an error"
	}
	return "batch reported an error: " + e.Data
}

// Monitor pings a progress URI until the batch fails, the monitor is
// stopped, or the context ends.
type Monitor struct {
	fetcher Fetcher
	uri     string
	method  string
	delay   time.Duration

	// OnUpdate is called after every successful ping. It may call Stop.
	OnUpdate func(Update)
	// OnError is called once with the error that ended monitoring.
	OnError func(error)

	stopped atomic.Bool
	state   Update
}

// New creates a monitor for uri. A non-positive delay means DefaultDelay.
func New(f Fetcher, uri, method string, delay time.Duration) *Monitor {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Monitor{fetcher: f, uri: uri, method: method, delay: delay}
}

// Stop ends monitoring after the current ping. Called before Run, it makes
// Run return after its first ping.
func (m *Monitor) Stop() {
	m.stopped.Store(true)
}

// Run pings until stopped. It returns nil when Stop ends monitoring, a
// *BatchError when the batch fails, and otherwise the transport or context
// error.
func (m *Monitor) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return m.fail(ctx.Err())
		case <-timer.C:
		}

		p, err := m.fetcher.GetProgress(ctx, m.uri, m.method)
		if err != nil {
			if ctx.Err() != nil {
				return m.fail(ctx.Err())
			}
			return m.fail(fmt.Errorf("failed to fetch progress from %s: %w", m.uri, err))
		}
		if p.Failed() {
			return m.fail(&BatchError{Data: p.DataText()})
		}

		if pct, ok := p.Percent(); ok {
			m.state.Percent = pct
		}
		m.state.Message = p.Message
		if m.OnUpdate != nil {
			m.OnUpdate(m.state)
		}

		if m.stopped.Load() {
			return nil
		}
		timer.Reset(m.delay)
	}
}

func (m *Monitor) fail(err error) error {
	if m.OnError != nil && !errors.Is(err, context.Canceled) {
		m.OnError(err)
	}
	return err
}
