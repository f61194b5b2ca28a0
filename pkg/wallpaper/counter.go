package wallpaper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// CounterStore persists the refresh counter as plain decimal text.
type CounterStore struct {
	mu    sync.Mutex
	path  string
	value int
}

// LoadCounterStore reads the counter at path. A missing or unparsable file starts from 0.
func LoadCounterStore(path string) *CounterStore {
	cs := &CounterStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return cs
	}
	if n, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && n >= 0 {
		cs.value = n
	}
	return cs
}

// Value returns the last issued counter.
func (cs *CounterStore) Value() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.value
}

// Next increments the counter and writes it through to disk.
// The new value is returned even if persisting it failed.
func (cs *CounterStore) Next() (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.value++
	return cs.value, cs.persistLocked()
}

func (cs *CounterStore) persistLocked() error {
	if cs.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cs.path), 0755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}
	if err := os.WriteFile(cs.path, []byte(strconv.Itoa(cs.value)), 0644); err != nil {
		return fmt.Errorf("failed to save counter to %s: %w", cs.path, err)
	}
	return nil
}
