package grading

import (
	"errors"
	"fmt"
)

const (
	// MinSlots is the fewest score slots a criterion can show.
	MinSlots = 1
	// MaxSlots is the most score slots a criterion can show.
	MaxSlots = 3
)

// ErrSlotBounds is returned when a slot change would leave [MinSlots, MaxSlots].
var ErrSlotBounds = errors.New("slot count out of bounds")

// SlotLayout holds the number of rendered slots per key.
// The zero value is not usable; start from DefaultLayout.
type SlotLayout [KeyCount]int

// DefaultLayout renders one slot per criterion.
func DefaultLayout() SlotLayout {
	var l SlotLayout
	for i := range l {
		l[i] = MinSlots
	}
	return l
}

// Count returns the rendered slots for k.
func (l SlotLayout) Count(k Key) int {
	idx := k.Index()
	if idx < 0 {
		return 0
	}
	return clampSlots(l[idx])
}

// Set fixes the slot count for k.
func (l *SlotLayout) Set(k Key, n int) error {
	idx := k.Index()
	if idx < 0 {
		return fmt.Errorf("invalid grade key %v", k)
	}
	if n < MinSlots || n > MaxSlots {
		return fmt.Errorf("%w: %s=%d", ErrSlotBounds, k, n)
	}
	l[idx] = n
	return nil
}

// Adjust moves the slot count for k by delta.
func (l *SlotLayout) Adjust(k Key, delta int) error {
	return l.Set(k, l.Count(k)+delta)
}

// Widen raises the count for k to at least n, capped at MaxSlots.
func (l *SlotLayout) Widen(k Key, n int) {
	idx := k.Index()
	if idx < 0 {
		return
	}
	if n > MaxSlots {
		n = MaxSlots
	}
	if n > l[idx] {
		l[idx] = n
	}
	l[idx] = clampSlots(l[idx])
}

// Normalize clamps every count into bounds.
func (l SlotLayout) Normalize() SlotLayout {
	for i := range l {
		l[i] = clampSlots(l[i])
	}
	return l
}

// Map exposes the layout keyed by key name.
func (l SlotLayout) Map() map[string]int {
	out := make(map[string]int, KeyCount)
	for _, k := range Keys() {
		out[k.String()] = l.Count(k)
	}
	return out
}

func clampSlots(n int) int {
	if n < MinSlots {
		return MinSlots
	}
	if n > MaxSlots {
		return MaxSlots
	}
	return n
}
