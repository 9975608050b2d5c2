package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

// fakeClock はテスト用に時刻と待機を制御します。
type fakeClock struct {
	mu    sync.Mutex
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.Now
	rl.sleep = clock.Sleep
	rl.lastReset = clock.Now()
	return rl, clock
}

func TestRateLimiter_WithinLimitDoesNotWait(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(5, time.Minute)
	for i := 0; i < 5; i++ {
		rl.WaitIfNeeded()
	}

	if len(clock.slept) != 0 {
		t.Errorf("expected no waits, got %v", clock.slept)
	}
}

func TestRateLimiter_ExceedingLimitWaitsForRestOfWindow(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(2, time.Minute)
	rl.WaitIfNeeded()
	clock.Advance(10 * time.Second)
	rl.WaitIfNeeded()
	rl.WaitIfNeeded() // 3回目で待機

	if len(clock.slept) != 1 {
		t.Fatalf("expected 1 wait, got %d", len(clock.slept))
	}
	if clock.slept[0] != 50*time.Second {
		t.Errorf("expected wait 50s, got %v", clock.slept[0])
	}
	if rl.count != 1 {
		t.Errorf("expected count reset to 1, got %d", rl.count)
	}
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)
	rl.WaitIfNeeded()
	clock.Advance(time.Minute)
	rl.WaitIfNeeded()

	if len(clock.slept) != 0 {
		t.Errorf("expected no waits after window reset, got %v", clock.slept)
	}
}

func TestRateLimiter_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(3, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.WaitIfNeeded()
		}()
	}
	wg.Wait()

	// 6回のうち4回目で1度だけ待機し、その後の2回は新しいウィンドウに収まる
	if len(clock.slept) != 1 {
		t.Errorf("expected exactly 1 wait, got %d", len(clock.slept))
	}
}
