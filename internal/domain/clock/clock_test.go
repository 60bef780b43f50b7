package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_NowReturnsPinnedTime(t *testing.T) {
	pinned := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(pinned)
	assert.True(t, f.Now().Equal(pinned))
}

func TestFake_AdvanceMovesTimeForward(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.Advance(time.Hour)
	assert.Equal(t, time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), f.Now())
}

func TestFake_SetPinsExactTime(t *testing.T) {
	f := NewFake(time.Now())
	target := time.Date(2030, 5, 5, 5, 5, 5, 0, time.UTC)
	f.Set(target)
	assert.Equal(t, target, f.Now())
}

func TestReal_NowTracksWallClock(t *testing.T) {
	before := time.Now()
	got := Real{}.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
