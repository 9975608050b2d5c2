package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、固定ウィンドウ内の呼び出し回数を制限します。
// 複数のリクエストから同時に呼ばれても安全です。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
	sleep     func(time.Duration)
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機は次のウィンドウが始まるまでで、呼び出し自体のリトライは行いません。
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		wait := rl.interval - now.Sub(rl.lastReset)
		if wait > 0 {
			slog.Warn("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
			rl.sleep(wait)
		}
		// リセット
		rl.count = 1
		rl.lastReset = rl.now()
	}
}
