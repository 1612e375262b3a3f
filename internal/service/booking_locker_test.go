package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAppointmentLockKeys(t *testing.T) {
	doctorID := uuid.MustParse("00000000-0000-0000-0000-00000000000d")
	roomID := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	patientID := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	assert.Equal(t, []string{"doctor:" + doctorID.String()}, AppointmentLockKeys(doctorID, nil, nil))
	assert.Equal(t, []string{
		"doctor:" + doctorID.String(),
		"room:" + roomID.String(),
		"patient:" + patientID.String(),
	}, AppointmentLockKeys(doctorID, &roomID, &patientID))
}

func TestNormalizeKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalizeKeys([]string{"c", "a", "b", "a"}))
	assert.Empty(t, normalizeKeys(nil))
}

func TestLocalBookingLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), time.Second)
	defer locker.Stop()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "doctor:1", "room:1")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestLocalBookingLocker_OverlappingKeySetsDoNotDeadlock(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 2*time.Second)
	defer locker.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "room:1", "doctor:1")
			if assert.NoError(t, err) {
				release()
			}
		}()
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "doctor:1", "room:1")
			if assert.NoError(t, err) {
				release()
			}
		}()
	}
	wg.Wait()
}

func TestLocalBookingLocker_Timeout(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 50*time.Millisecond)
	defer locker.Stop()

	release, err := locker.Lock(context.Background(), "doctor:1")
	require.NoError(t, err)
	defer release()

	_, err = locker.Lock(context.Background(), "patient:1", "doctor:1")
	require.ErrorIs(t, err, ErrLockTimeout)

	// The partially acquired key must have been released.
	releasePatient, err := locker.Lock(context.Background(), "patient:1")
	require.NoError(t, err)
	releasePatient()
}

func TestLocalBookingLocker_ContextCanceled(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), time.Minute)
	defer locker.Stop()

	release, err := locker.Lock(context.Background(), "room:1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "room:1")
	require.ErrorIs(t, err, ErrLockTimeout)
}

func TestLocalBookingLocker_ReleaseIsIdempotent(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 100*time.Millisecond)
	defer locker.Stop()

	release, err := locker.Lock(context.Background(), "doctor:1")
	require.NoError(t, err)
	release()
	release()

	release, err = locker.Lock(context.Background(), "doctor:1")
	require.NoError(t, err)
	release()
}

func TestLocalBookingLocker_CleanupStale(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 100*time.Millisecond)
	defer locker.Stop()

	release, err := locker.Lock(context.Background(), "doctor:idle")
	require.NoError(t, err)
	release()

	held, err := locker.Lock(context.Background(), "doctor:busy")
	require.NoError(t, err)
	defer held()

	cleaned := locker.cleanupStale(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)

	_, ok := locker.keys.Load("doctor:idle")
	assert.False(t, ok)
	_, ok = locker.keys.Load("doctor:busy")
	assert.True(t, ok)
}

func TestLocalBookingLocker_StopTwice(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), time.Second)
	locker.Stop()
	locker.Stop()
}
