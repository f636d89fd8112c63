package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(every time.Duration, burst int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(every, burst)
	l.now = c.now
	return l, c
}

func TestAllowPerKey(t *testing.T) {
	l, c := newTestLimiter(3*time.Second, 1)

	ok, _ := l.Allow("u1:balance")
	assert.True(t, ok)

	ok, wait := l.Allow("u1:balance")
	assert.False(t, ok)
	assert.InDelta(t, float64(3*time.Second), float64(wait), float64(10*time.Millisecond))

	ok, _ = l.Allow("u2:balance")
	assert.True(t, ok, "keys are independent")

	c.advance(3 * time.Second)
	ok, _ = l.Allow("u1:balance")
	assert.True(t, ok)
}

func TestBurst(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("k")
		assert.True(t, ok, "call %d", i)
	}
	ok, _ := l.Allow("k")
	assert.False(t, ok)
}

func TestDisabled(t *testing.T) {
	l := New(0, 1)
	for i := 0; i < 10; i++ {
		ok, wait := l.Allow("k")
		assert.True(t, ok)
		assert.Zero(t, wait)
	}

	var nilLimiter *Limiter
	ok, _ := nilLimiter.Allow("k")
	assert.True(t, ok)
}

func TestSweep(t *testing.T) {
	l, c := newTestLimiter(time.Second, 1)
	l.Allow("old")
	c.advance(time.Hour)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Equal(t, 1, l.Len())
}
