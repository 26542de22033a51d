package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)

	var runs atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(nil)
	assert.NotPanics(t, s.Stop)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(nil)
	boom := errors.New("boom")

	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return boom
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "first")
	assert.Equal(t, []string{"first", "second"}, ran)
}

// mockAttendanceService lets a test replace ExportCurrentPeriod.
type mockAttendanceService struct {
	attendance.AttendanceService
	ExportCurrentPeriodFunc func(ctx context.Context) error
}

func (m *mockAttendanceService) ExportCurrentPeriod(ctx context.Context) error {
	return m.ExportCurrentPeriodFunc(ctx)
}

func TestAttendanceJobs_ExportCurrentPeriod(t *testing.T) {
	var calls int
	svc := &mockAttendanceService{ExportCurrentPeriodFunc: func(ctx context.Context) error {
		calls++
		if calls > 1 {
			return attendance.ErrVersionConflict
		}
		return nil
	}}

	s := NewScheduler(nil)
	NewAttendanceJobs(svc).RegisterJobs(s, time.Minute)

	require.NoError(t, s.RunOnce(context.Background()))
	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, attendance.ErrVersionConflict)
	assert.Equal(t, 2, calls)
}
