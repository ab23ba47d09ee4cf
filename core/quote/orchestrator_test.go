package quote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landed-cost/core/calc"
	"landed-cost/internal/errors"
)

// fakeClient records calls and answers with a total derived from the
// quantity, so tests can tell which request produced the visible result.
type fakeClient struct {
	mu    sync.Mutex
	calls []calc.Request
	delay func(req calc.Request) time.Duration
	err   error
}

func (f *fakeClient) Calculate(ctx context.Context, req calc.Request) (*calc.Calculation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(req)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &calc.Calculation{
		Breakdown:  &calc.Breakdown{PriceUnit: 100, Total: float64(req.Quantity) * 100},
		Parameters: &calc.Parameters{},
	}, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) lastCall() calc.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func req(quantity int64) calc.Request {
	return calc.Request{ProductID: "p1", Quantity: quantity, DestinationCountry: "ES"}
}

func TestRapidChangesCollapseIntoOneDispatch(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithDebounce(30*time.Millisecond))
	defer o.Close()

	for q := int64(1); q <= 5; q++ {
		o.Request(req(q))
	}

	require.Eventually(t, func() bool {
		return o.Snapshot().State == StateReady
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, int64(5), client.lastCall().Quantity)

	snap := o.Snapshot()
	require.NotNil(t, snap.Calculation)
	assert.Equal(t, float64(500), snap.Calculation.Breakdown.Total)
	assert.Equal(t, "€500,00", snap.Values.Total)
	assert.Equal(t, "€100,00", snap.Values.PerUnit)
}

func TestLoadingStateDuringDebounce(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithDebounce(time.Hour))
	defer o.Close()

	o.Request(req(1))
	assert.Equal(t, StateLoading, o.Snapshot().State)
	assert.Equal(t, 0, client.callCount())
}

func TestEmptySelectionResetsToIdle(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithDebounce(10*time.Millisecond))
	defer o.Close()

	o.Request(req(3))
	require.Eventually(t, func() bool {
		return o.Snapshot().State == StateReady
	}, time.Second, 5*time.Millisecond)

	// Quantity cleared: back to idle, previous result discarded.
	o.Request(req(0))
	snap := o.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Calculation)
	assert.Empty(t, snap.Values.Total)

	// No product selected behaves the same.
	o.Request(calc.Request{Quantity: 2, DestinationCountry: "ES"})
	assert.Equal(t, StateIdle, o.Snapshot().State)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, client.callCount())
}

func TestFailedDispatchEntersErrorState(t *testing.T) {
	client := &fakeClient{err: errors.Network("calculation service unavailable", nil)}
	o := New(client, WithDebounce(10*time.Millisecond))
	defer o.Close()

	o.Request(req(2))

	require.Eventually(t, func() bool {
		return o.Snapshot().State == StateError
	}, time.Second, 5*time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, "calculation service unavailable", snap.Err)
	assert.Nil(t, snap.Calculation)
}

func TestSlowStaleResponseIsDropped(t *testing.T) {
	client := &fakeClient{
		delay: func(r calc.Request) time.Duration {
			if r.Quantity == 1 {
				return 200 * time.Millisecond
			}
			return 0
		},
	}
	o := New(client, WithDebounce(10*time.Millisecond))
	defer o.Close()

	o.Request(req(1))
	// Let the first dispatch leave the debounce window and block in flight.
	time.Sleep(50 * time.Millisecond)
	o.Request(req(2))

	require.Eventually(t, func() bool {
		return o.Snapshot().State == StateReady
	}, time.Second, 5*time.Millisecond)

	// Wait out the slow first response; it must not overwrite the result.
	time.Sleep(250 * time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Calculation)
	assert.Equal(t, float64(200), snap.Calculation.Breakdown.Total)
	assert.Equal(t, 2, client.callCount())
}

func TestClearedSelectionIgnoresInFlightResponse(t *testing.T) {
	client := &fakeClient{
		delay: func(r calc.Request) time.Duration { return 100 * time.Millisecond },
	}
	o := New(client, WithDebounce(10*time.Millisecond))
	defer o.Close()

	o.Request(req(3))
	// Let the dispatch leave the debounce window and block in flight.
	require.Eventually(t, func() bool {
		return client.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Buyer clears the selection while the call is still running.
	o.Request(req(0))
	assert.Equal(t, StateIdle, o.Snapshot().State)

	// The late response must not resurrect the cleared selection.
	time.Sleep(150 * time.Millisecond)
	snap := o.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Calculation)
	assert.Empty(t, snap.Values.Total)
}

func TestCallbackReceivesCalculation(t *testing.T) {
	client := &fakeClient{}
	var (
		mu  sync.Mutex
		got *calc.Calculation
	)
	o := New(client,
		WithDebounce(10*time.Millisecond),
		WithCallback(func(c *calc.Calculation) {
			mu.Lock()
			got = c
			mu.Unlock()
		}))
	defer o.Close()

	o.Request(req(4))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, float64(400), got.Breakdown.Total)
}

func TestCloseCancelsPendingDispatch(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithDebounce(20*time.Millisecond))

	o.Request(req(1))
	o.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, client.callCount())

	// Requests after close are ignored.
	o.Request(req(2))
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, client.callCount())
}
