package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/guest-marketing/internal/service/reservation"
)

type countingPuller struct {
	calls atomic.Int32
	err   error
	ctx   context.Context
}

func (p *countingPuller) PullDefault(ctx context.Context) (reservation.Result, error) {
	p.calls.Add(1)
	p.ctx = ctx
	return reservation.Result{Pulled: 2, Upserted: 2}, p.err
}

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := New("every now and then", &countingPuller{}, time.Minute)
	assert.ErrorContains(t, err, "sync schedule")
}

func TestNew_AcceptsDescriptors(t *testing.T) {
	for _, spec := range []string{"@hourly", "@every 15m", "0 */6 * * *"} {
		s, err := New(spec, &countingPuller{}, time.Minute)
		require.NoError(t, err, spec)
		s.Stop(context.Background())
	}
}

func TestStart_SchedulesNextRun(t *testing.T) {
	s, err := New("@every 1h", &countingPuller{}, time.Minute)
	require.NoError(t, err)
	assert.True(t, s.Next().IsZero())

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next()
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 5*time.Second)
}

func TestRunOnce_BoundsEachRun(t *testing.T) {
	p := &countingPuller{}
	s, err := New("@hourly", p, time.Minute)
	require.NoError(t, err)
	defer s.Stop(context.Background())

	s.runOnce()
	assert.EqualValues(t, 1, p.calls.Load())
	deadline, ok := p.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRunOnce_ToleratesErrors(t *testing.T) {
	for _, err := range []error{reservation.ErrSyncInProgress, errors.New("upstream down")} {
		p := &countingPuller{err: err}
		s, nerr := New("@hourly", p, 0)
		require.NoError(t, nerr)

		s.runOnce()
		assert.EqualValues(t, 1, p.calls.Load())
		s.Stop(context.Background())
	}
}

func TestStop_CancelsInFlightContext(t *testing.T) {
	p := &countingPuller{}
	s, err := New("@hourly", p, 0)
	require.NoError(t, err)

	s.runOnce()
	s.Stop(context.Background())
	assert.ErrorIs(t, p.ctx.Err(), context.Canceled)
}
