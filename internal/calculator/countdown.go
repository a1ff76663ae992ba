package calculator

import (
	"sync"
	"time"

	"CoinLens/internal/model"
)

const (
	msPerDay    = 86400000
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// Decompose splits max(0, target-now) into whole days, hours, minutes and
// seconds. The countdown is Elapsed once target is not after now.
func Decompose(target, now time.Time) model.Remaining {
	d := target.Sub(now)
	if d <= 0 {
		return model.Remaining{State: model.CountdownElapsed}
	}
	ms := d.Milliseconds()
	r := model.Remaining{State: model.CountdownPending}
	r.Days = ms / msPerDay
	ms %= msPerDay
	r.Hours = ms / msPerHour
	ms %= msPerHour
	r.Minutes = ms / msPerMinute
	ms %= msPerMinute
	r.Seconds = ms / msPerSecond
	return r
}

// Countdown tracks a single target. Once Elapsed it stays Elapsed.
type Countdown struct {
	Name   string
	Target time.Time

	mu      sync.Mutex
	last    model.Remaining
	elapsed bool
}

// NewCountdown creates a pending countdown for target.
func NewCountdown(name string, target time.Time) *Countdown {
	return &Countdown{Name: name, Target: target}
}

// Tick recomputes the remainder at now. justElapsed is true only on the
// tick that performs the Pending -> Elapsed transition.
func (c *Countdown) Tick(now time.Time) (r model.Remaining, justElapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.elapsed {
		return c.last, false
	}
	r = Decompose(c.Target, now)
	c.last = r
	if r.State == model.CountdownElapsed {
		c.elapsed = true
		return r, true
	}
	return r, false
}

// Last returns the remainder computed by the most recent tick.
func (c *Countdown) Last() model.Remaining {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Elapsed reports whether the countdown has reached its target.
func (c *Countdown) Elapsed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}
