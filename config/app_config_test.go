package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// MockPreferences implements fyne.Preferences for testing
type MockPreferences struct {
	data      map[string]interface{}
	listeners []func()
}

func NewMockPreferences() *MockPreferences {
	return &MockPreferences{
		data: make(map[string]interface{}),
	}
}

func lookup[T any](m *MockPreferences, key string, fallback T) T {
	val, ok := m.data[key]
	if !ok {
		return fallback
	}
	return val.(T)
}

func (m *MockPreferences) set(key string, value interface{}) {
	m.data[key] = value
	for _, l := range m.listeners {
		l()
	}
}

func (m *MockPreferences) Bool(key string) bool { return lookup(m, key, false) }
func (m *MockPreferences) BoolWithFallback(key string, fallback bool) bool {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetBool(key string, value bool) { m.set(key, value) }

func (m *MockPreferences) Float(key string) float64 { return lookup(m, key, 0.0) }
func (m *MockPreferences) FloatWithFallback(key string, fallback float64) float64 {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetFloat(key string, value float64) { m.set(key, value) }

func (m *MockPreferences) Int(key string) int { return lookup(m, key, 0) }
func (m *MockPreferences) IntWithFallback(key string, fallback int) int {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetInt(key string, value int) { m.set(key, value) }

func (m *MockPreferences) String(key string) string { return lookup(m, key, "") }
func (m *MockPreferences) StringWithFallback(key string, fallback string) string {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetString(key string, value string) { m.set(key, value) }

func (m *MockPreferences) StringList(key string) []string { return lookup(m, key, []string{}) }
func (m *MockPreferences) StringListWithFallback(key string, fallback []string) []string {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetStringList(key string, value []string) { m.set(key, value) }

func (m *MockPreferences) BoolList(key string) []bool { return lookup(m, key, []bool{}) }
func (m *MockPreferences) BoolListWithFallback(key string, fallback []bool) []bool {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetBoolList(key string, value []bool) { m.set(key, value) }

func (m *MockPreferences) FloatList(key string) []float64 { return lookup(m, key, []float64{}) }
func (m *MockPreferences) FloatListWithFallback(key string, fallback []float64) []float64 {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetFloatList(key string, value []float64) { m.set(key, value) }

func (m *MockPreferences) IntList(key string) []int { return lookup(m, key, []int{}) }
func (m *MockPreferences) IntListWithFallback(key string, fallback []int) []int {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetIntList(key string, value []int) { m.set(key, value) }

func (m *MockPreferences) RemoveValue(key string) {
	delete(m.data, key)
}

func (m *MockPreferences) AddChangeListener(l func()) {
	m.listeners = append(m.listeners, l)
}

func (m *MockPreferences) ChangeListeners() []func() {
	return m.listeners
}

func TestAppConfig(t *testing.T) {
	prefs := NewMockPreferences()
	cfg := NewAppConfig(prefs)

	t.Run("AutoUpdate", func(t *testing.T) {
		// Default should be false
		assert.False(t, cfg.GetAutoUpdateEnabled())

		cfg.SetAutoUpdateEnabled(true)
		assert.True(t, cfg.GetAutoUpdateEnabled())
	})

	t.Run("UpdateInterval", func(t *testing.T) {
		assert.Equal(t, Frequency5Minutes, cfg.GetUpdateInterval())
		assert.Equal(t, 5*time.Minute, cfg.GetUpdateIntervalDuration())

		cfg.SetUpdateInterval(FrequencyHourly)
		assert.Equal(t, time.Hour, cfg.GetUpdateIntervalDuration())

		cfg.SetUpdateInterval(FrequencyCustom)
		cfg.SetCustomIntervalSeconds(42)
		assert.Equal(t, 42*time.Second, cfg.GetUpdateIntervalDuration())

		// Out-of-range values fall back to the default
		prefs.SetInt(UpdateIntervalKey, 99)
		assert.Equal(t, Frequency5Minutes, cfg.GetUpdateInterval())
	})

	t.Run("CustomIntervalFallback", func(t *testing.T) {
		cfg.SetCustomIntervalSeconds(0)
		assert.Equal(t, DefaultCustomIntervalSeconds, cfg.GetCustomIntervalSeconds())

		cfg.SetCustomIntervalSeconds(-10)
		assert.Equal(t, DefaultCustomIntervalSeconds, cfg.GetCustomIntervalSeconds())
	})

	t.Run("Toggles", func(t *testing.T) {
		assert.False(t, cfg.GetRunAtStartup())
		assert.False(t, cfg.GetMinimizeToTray())
		assert.False(t, cfg.GetLocalAPIEnabled())

		cfg.SetRunAtStartup(true)
		cfg.SetMinimizeToTray(true)
		cfg.SetLocalAPIEnabled(true)
		assert.True(t, cfg.GetRunAtStartup())
		assert.True(t, cfg.GetMinimizeToTray())
		assert.True(t, cfg.GetLocalAPIEnabled())
	})

	t.Run("UpdateCheck", func(t *testing.T) {
		// Default should be true
		assert.True(t, cfg.GetUpdateCheckEnabled())

		cfg.SetUpdateCheckEnabled(false)
		assert.False(t, cfg.GetUpdateCheckEnabled())
	})

	t.Run("CandidateSources", func(t *testing.T) {
		assert.Equal(t, DefaultCandidateSources, cfg.GetCandidateSources())

		// Mutating the returned slice must not touch the defaults
		got := cfg.GetCandidateSources()
		got[0] = "changed"
		assert.NotEqual(t, "changed", DefaultCandidateSources[0])

		cfg.SetCandidateSources([]string{"https://example.com/a.jpg"})
		assert.Equal(t, []string{"https://example.com/a.jpg"}, cfg.GetCandidateSources())

		cfg.SetCandidateSources(nil)
		assert.Len(t, cfg.GetCandidateSources(), len(DefaultCandidateSources))
	})

	t.Run("ChangeListeners", func(t *testing.T) {
		calls := 0
		prefs.AddChangeListener(func() { calls++ })
		cfg.SetMinimizeToTray(false)
		assert.Equal(t, 1, calls)
	})
}
