package ledger

import (
	"sync"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
)

// chainClock is the block time seen by the contracts: the base clock plus a
// dev offset, never earlier than the last block. While a transaction
// executes the time is pinned so every check in it sees one timestamp.
type chainClock struct {
	mu     sync.Mutex
	base   domain.Clock
	offset time.Duration
	last   time.Time
	pinned time.Time
}

func (c *chainClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *chainClock) now() time.Time {
	if !c.pinned.IsZero() {
		return c.pinned
	}
	t := c.base.Now().Add(c.offset)
	if t.Before(c.last) {
		return c.last
	}
	return t
}

// pin fixes the time for the next block and returns it
func (c *chainClock) pin() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = time.Time{}
	c.pinned = c.now()
	c.last = c.pinned
	return c.pinned
}

func (c *chainClock) unpin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = time.Time{}
}

func (c *chainClock) advance(d time.Duration) (time.Duration, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
	return c.offset, c.now()
}

func (c *chainClock) snapshot() (time.Duration, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset, c.last
}
