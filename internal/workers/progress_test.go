package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerSetAndGet(t *testing.T) {
	tracker := NewProgressTracker(time.Minute)

	tracker.Set("item-1", 42)
	value, ok := tracker.Get("item-1")
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	_, ok = tracker.Get("missing")
	assert.False(t, ok)
}

func TestProgressTrackerClampsValues(t *testing.T) {
	tracker := NewProgressTracker(time.Minute)

	tracker.Set("low", -5)
	value, _ := tracker.Get("low")
	assert.Equal(t, 0, value)

	tracker.Set("high", 150)
	value, _ = tracker.Get("high")
	assert.Equal(t, 100, value)
}

func TestProgressTrackerExpiry(t *testing.T) {
	tracker := NewProgressTracker(time.Minute)
	current := time.Now()
	tracker.now = func() time.Time { return current }

	tracker.Set("item-1", 50)
	_, ok := tracker.Get("item-1")
	assert.True(t, ok)

	// An update refreshes the deadline.
	current = current.Add(40 * time.Second)
	tracker.Set("item-1", 60)

	current = current.Add(40 * time.Second)
	value, ok := tracker.Get("item-1")
	assert.True(t, ok)
	assert.Equal(t, 60, value)

	current = current.Add(2 * time.Minute)
	_, ok = tracker.Get("item-1")
	assert.False(t, ok)
}

func TestProgressTrackerGetMany(t *testing.T) {
	tracker := NewProgressTracker(time.Minute)
	tracker.Set("a", 10)
	tracker.Set("b", 20)

	result := tracker.GetMany([]string{"a", "b", "c"})
	assert.Equal(t, map[string]int{"a": 10, "b": 20}, result)
}

func TestProgressTrackerDelete(t *testing.T) {
	tracker := NewProgressTracker(time.Minute)
	tracker.Set("a", 10)
	tracker.Delete("a")

	_, ok := tracker.Get("a")
	assert.False(t, ok)
}
