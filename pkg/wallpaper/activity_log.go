package wallpaper

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wpupdater/wpupdater/util/log"
)

// Level classifies an activity log entry.
type Level string

// Log levels
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is a single line of the activity log.
type Entry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// String renders the entry the way the log list shows it.
func (e Entry) String() string {
	return fmt.Sprintf("%s  %s", e.Time.Format("15:04:05"), e.Message)
}

// ActivityLog is an ordered, bounded, append-only record of what the refresher did.
// It is safe for concurrent use; appends never interleave.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []Entry
	max     int

	subMu   sync.Mutex
	subs    map[int]func(Entry)
	nextSub int
}

// NewActivityLog creates a log holding at most max entries. max <= 0 uses MaxLogEntries.
func NewActivityLog(max int) *ActivityLog {
	if max <= 0 {
		max = MaxLogEntries
	}
	return &ActivityLog{
		max:  max,
		subs: make(map[int]func(Entry)),
	}
}

// Add appends a message, mirrors it to the process log and notifies subscribers.
func (l *ActivityLog) Add(level Level, format string, args ...interface{}) Entry {
	e := Entry{
		ID:      uuid.NewString(),
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append([]Entry(nil), l.entries[over:]...)
	}
	l.mu.Unlock()

	log.Printf("[%s] %s", level, e.Message)

	l.subMu.Lock()
	subs := make([]func(Entry), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
	return e
}

// Infof appends an info entry.
func (l *ActivityLog) Infof(format string, args ...interface{}) Entry {
	return l.Add(LevelInfo, format, args...)
}

// Warnf appends a warning entry.
func (l *ActivityLog) Warnf(format string, args ...interface{}) Entry {
	return l.Add(LevelWarn, format, args...)
}

// Errorf appends an error entry.
func (l *ActivityLog) Errorf(format string, args ...interface{}) Entry {
	return l.Add(LevelError, format, args...)
}

// Entries returns a copy of the log, oldest first.
func (l *ActivityLog) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Last returns the newest entry.
func (l *ActivityLog) Last() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Subscribe registers fn to be called after every append. Callbacks run on the appending goroutine.
// The returned function removes the subscription.
func (l *ActivityLog) Subscribe(fn func(Entry)) (unsubscribe func()) {
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.subs, id)
		l.subMu.Unlock()
	}
}
