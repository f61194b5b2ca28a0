package util

import "sync/atomic"

// SafeCounter is an int counter that is safe to use concurrently.
type SafeCounter struct {
	value atomic.Int64
}

// NewSafeCounter creates a SafeCounter starting at initialValue.
func NewSafeCounter(initialValue int) *SafeCounter {
	sc := &SafeCounter{}
	sc.value.Store(int64(initialValue))
	return sc
}

// Increment increments the counter's value and returns the new value.
func (sc *SafeCounter) Increment() int {
	return int(sc.value.Add(1))
}

// Add adds a delta to the counter's value and returns the new value.
func (sc *SafeCounter) Add(delta int) int {
	return int(sc.value.Add(int64(delta)))
}

// Set sets the value of the counter.
func (sc *SafeCounter) Set(newValue int) {
	sc.value.Store(int64(newValue))
}

// Value returns the current value of the counter.
func (sc *SafeCounter) Value() int {
	return int(sc.value.Load())
}

// SafeFlag is a boolean that is safe to use concurrently.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeFlag creates a new SafeFlag with an initial value.
func NewSafeFlag(initialValue bool) *SafeFlag {
	sf := &SafeFlag{}
	sf.value.Store(initialValue)
	return sf
}

// Set sets the value of the flag and returns the new value.
func (sf *SafeFlag) Set(newValue bool) bool {
	sf.value.Store(newValue)
	return newValue
}

// Value returns the current value of the flag.
func (sf *SafeFlag) Value() bool {
	return sf.value.Load()
}

// TrySet atomically changes the flag from old to new.
// It reports false, leaving the flag untouched, if the flag did not hold old.
func (sf *SafeFlag) TrySet(old, new bool) bool {
	return sf.value.CompareAndSwap(old, new)
}
