package moderation

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum spacing between passive replies.
const DefaultCooldown = 60 * time.Second

// CooldownGate admits at most one caller per cooldown window.
// The zero lastFired value makes a new gate immediately available.
type CooldownGate struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastFired time.Time
}

// NewCooldownGate creates a gate with the given window.
func NewCooldownGate(cooldown time.Duration) *CooldownGate {
	return &CooldownGate{cooldown: cooldown}
}

// TryAcquire reports whether the caller may fire at now and, if so, records now as the last fire.
func (g *CooldownGate) TryAcquire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastFired.IsZero() && now.Sub(g.lastFired) < g.cooldown {
		return false
	}

	g.lastFired = now

	return true
}
