package application

import (
	"sync"
	"time"
)

// RateLimiter is a per-user cooldown gate. A rejected attempt does not
// refresh the window, so a burst of rejections never extends the cooldown.
type RateLimiter struct {
	mu       sync.Mutex
	last     map[int64]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		last:     make(map[int64]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

func (r *RateLimiter) Allow(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if last, ok := r.last[userID]; ok && now.Sub(last) < r.cooldown {
		return false
	}
	r.last[userID] = now
	return true
}
