package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/media-filter-cli/api"
)

type fakeFetcher struct {
	responses []*api.Progress
	errs      []error
	calls     int
	lastURI   string
	method    string
}

func (f *fakeFetcher) GetProgress(_ context.Context, uri, method string) (*api.Progress, error) {
	f.lastURI = uri
	f.method = method
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return f.responses[len(f.responses)-1], nil
	}
	return f.responses[i], nil
}

func report(status, percentage, message, data string) *api.Progress {
	p := &api.Progress{Message: message}
	if status != "" {
		p.Status = []byte(status)
	}
	if percentage != "" {
		p.Percentage = []byte(percentage)
	}
	if data != "" {
		p.Data = []byte(data)
	}
	return p
}

func TestMonitor_StopFromCallback(t *testing.T) {
	f := &fakeFetcher{responses: []*api.Progress{
		report("1", "10", "Starting", ""),
		report("1", "150", "Still going", ""),
		report("1", "100", "Done", ""),
		report("1", "100", "Never reached", ""),
	}}

	m := New(f, "/batch?id=3", "POST", time.Millisecond)
	var updates []Update
	m.OnUpdate = func(u Update) {
		updates = append(updates, u)
		if u.Percent >= 100 {
			m.Stop()
		}
	}
	m.OnError = func(err error) { t.Errorf("unexpected error: %v", err) }

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 3, f.calls)
	assert.Equal(t, "/batch?id=3", f.lastURI)
	assert.Equal(t, "POST", f.method)

	require.Len(t, updates, 3)
	assert.Equal(t, Update{Percent: 10, Message: "Starting"}, updates[0])
	assert.Equal(t, Update{Percent: 10, Message: "Still going"}, updates[1], "out-of-range percentage is ignored")
	assert.Equal(t, Update{Percent: 100, Message: "Done"}, updates[2])
}

func TestMonitor_BatchFailure(t *testing.T) {
	f := &fakeFetcher{responses: []*api.Progress{
		report("true", "50", "Halfway", ""),
		report("0", "", "", `"An error occurred while processing item 7"`),
	}}

	m := New(f, "/batch", "", time.Millisecond)
	var gotErr error
	updates := 0
	m.OnUpdate = func(Update) { updates++ }
	m.OnError = func(err error) { gotErr = err }

	err := m.Run(context.Background())

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "An error occurred while processing item 7", batchErr.Data)
	assert.Equal(t, err, gotErr)
	assert.Equal(t, 1, updates)
	assert.Equal(t, 2, f.calls)
}

func TestMonitor_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	f := &fakeFetcher{errs: []error{boom}}

	m := New(f, "/batch", "GET", time.Millisecond)
	var gotErr error
	m.OnError = func(err error) { gotErr = err }

	err := m.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, gotErr, boom)
	assert.Equal(t, 1, f.calls)
}

func TestMonitor_ContextCancel(t *testing.T) {
	f := &fakeFetcher{responses: []*api.Progress{report("1", "5", "Working", "")}}

	ctx, cancel := context.WithCancel(context.Background())
	m := New(f, "/batch", "GET", time.Hour)
	m.OnUpdate = func(Update) { cancel() }
	m.OnError = func(err error) { t.Errorf("cancellation is not reported: %v", err) }

	err := m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.calls)
}

func TestBatchError_Error(t *testing.T) {
	assert.Equal(t, "batch reported an error", (&BatchError{}).Error())
	assert.Equal(t, "batch reported an error: bad row", (&BatchError{Data: "bad row"}).Error())
}

func TestNew_DefaultDelay(t *testing.T) {
	m := New(&fakeFetcher{}, "/batch", "", 0)
	assert.Equal(t, DefaultDelay, m.delay)
}

func TestMonitor_StopBeforeRun(t *testing.T) {
	f := &fakeFetcher{responses: []*api.Progress{
		report("1", "20", "Queued", ""),
		report("1", "40", "Never reached", ""),
	}}

	m := New(f, "/batch", "GET", time.Millisecond)
	var updates []Update
	m.OnUpdate = func(u Update) { updates = append(updates, u) }
	m.Stop()

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, []Update{{Percent: 20, Message: "Queued"}}, updates)
}
