package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"clinic-scheduler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockTimeout is returned when a booking lock could not be acquired in time
var ErrLockTimeout = errors.New("timed out waiting for booking lock")

// releaseLockScript deletes the key only when it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisLockKeyPrefix = "booking:lock:"

	// Timeout for individual Redis operations
	redisLockTimeout = 5 * time.Second

	lockRetryMin = 10 * time.Millisecond
	lockRetryMax = 200 * time.Millisecond

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// BookingLocker serializes check-then-write sequences on the same doctor, room
// or patient. Lock blocks until every key is held or ctx ends; the returned
// release func must be called exactly once.
type BookingLocker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
	Stop()
}

// AppointmentLockKeys returns the lock keys for the parties of an appointment.
func AppointmentLockKeys(doctorID uuid.UUID, roomID, patientID *uuid.UUID) []string {
	keys := []string{"doctor:" + doctorID.String()}
	if roomID != nil {
		keys = append(keys, "room:"+roomID.String())
	}
	if patientID != nil {
		keys = append(keys, "patient:"+patientID.String())
	}
	return keys
}

// normalizeKeys sorts and dedupes keys. Every caller acquires in the same
// order, which rules out lock-order deadlocks.
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// In-process locker
// =============================================================================

// keyMutex is a context-aware mutex that tracks usage for cleanup
type keyMutex struct {
	ch       chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
}

// LocalBookingLocker holds per-key locks in memory. It is enough for a single
// API instance and is the front stage of RedisBookingLocker.
type LocalBookingLocker struct {
	log  *logrus.Logger
	wait time.Duration

	keys sync.Map // map[string]*keyMutex

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewLocalBookingLocker starts the background mutex cleanup. Call Stop() during
// graceful shutdown. wait bounds how long Lock blocks when ctx has no deadline.
func NewLocalBookingLocker(log *logrus.Logger, wait time.Duration) *LocalBookingLocker {
	l := &LocalBookingLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Stop gracefully shuts down the cleanup goroutine. Safe to call multiple times.
func (l *LocalBookingLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Debug("LocalBookingLocker stopped")
	}
}

func (l *LocalBookingLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ctx, cancel := withWait(ctx, l.wait)
	defer cancel()

	keys = normalizeKeys(keys)
	held := make([]*keyMutex, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].unlock()
		}
	}

	for _, key := range keys {
		km, err := l.acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		held = append(held, km)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func (l *LocalBookingLocker) acquire(ctx context.Context, key string) (*keyMutex, error) {
	for {
		km := l.getKeyMutex(key)
		select {
		case km.ch <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		// The cleanup loop may have dropped this mutex between load and lock.
		if current, ok := l.keys.Load(key); ok && current == km {
			km.lastUsed.Store(time.Now().Unix())
			return km, nil
		}
		km.unlock()
	}
}

func (km *keyMutex) unlock() {
	<-km.ch
}

// getKeyMutex returns mutex for a specific lock key
func (l *LocalBookingLocker) getKeyMutex(key string) *keyMutex {
	km, _ := l.keys.LoadOrStore(key, &keyMutex{ch: make(chan struct{}, 1)})
	result := km.(*keyMutex)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupLoop runs in background to clean stale mutexes
func (l *LocalBookingLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStale removes mutexes unused since cutoff. A mutex is only removed
// while we hold it, so no caller can be inside its critical section.
func (l *LocalBookingLocker) cleanupStale(cutoff time.Time) int {
	var cleaned int
	l.keys.Range(func(key, value any) bool {
		km, ok := value.(*keyMutex)
		if !ok {
			return true
		}

		select {
		case km.ch <- struct{}{}:
			if km.lastUsed.Load() < cutoff.Unix() {
				l.keys.Delete(key)
				cleaned++
			}
			km.unlock()
		default:
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale booking mutexes", cleaned)
	}
	return cleaned
}

// =============================================================================
// Redis locker
// =============================================================================

// RedisBookingLocker extends the in-process lock with a Redis lease per key
// (SET NX PX), which serializes writers across API instances.
type RedisBookingLocker struct {
	local       *LocalBookingLocker
	redisClient *redis.Client
	log         *logrus.Logger
	metrics     *metrics.Metrics
	ttl         time.Duration
	wait        time.Duration
}

func NewRedisBookingLocker(redisClient *redis.Client, log *logrus.Logger, m *metrics.Metrics, ttl, wait time.Duration) *RedisBookingLocker {
	return &RedisBookingLocker{
		local:       NewLocalBookingLocker(log, wait),
		redisClient: redisClient,
		log:         log,
		metrics:     m,
		ttl:         ttl,
		wait:        wait,
	}
}

func (r *RedisBookingLocker) Stop() {
	r.local.Stop()
}

func (r *RedisBookingLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ctx, cancel := withWait(ctx, r.wait)
	defer cancel()

	keys = normalizeKeys(keys)

	releaseLocal, err := r.local.Lock(ctx, keys...)
	if err != nil {
		r.metrics.LockFailed("local")
		return nil, err
	}

	token, err := newLockToken()
	if err != nil {
		releaseLocal()
		return nil, err
	}

	held := make([]string, 0, len(keys))
	releaseAll := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), redisLockTimeout)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := releaseLockScript.Run(releaseCtx, r.redisClient, []string{held[i]}, token).Err(); err != nil {
				r.log.Warnf("Failed to release booking lock %s: %+v", held[i], err)
			}
		}
		releaseLocal()
	}

	for _, key := range keys {
		redisKey := RedisLockKeyPrefix + key
		if err := r.acquire(ctx, redisKey, token); err != nil {
			r.metrics.LockFailed("redis")
			releaseAll()
			return nil, err
		}
		held = append(held, redisKey)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

// acquire retries SET NX with exponential backoff until ctx ends.
func (r *RedisBookingLocker) acquire(ctx context.Context, key, token string) error {
	backoff := lockRetryMin
	for {
		ok, err := r.redisClient.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			r.log.Warnf("Failed to acquire booking lock %s: %+v", key, err)
			return fmt.Errorf("acquire booking lock %s: %w", key, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-timer.C:
		}
		if backoff *= 2; backoff > lockRetryMax {
			backoff = lockRetryMax
		}
	}
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// withWait applies the default wait when ctx carries no deadline.
func withWait(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}
