package config

import (
	"time"

	"fyne.io/fyne/v2"
)

// DefaultCandidateSources are the public random-image endpoints used when the user has not configured any.
var DefaultCandidateSources = []string{
	"https://minimalistic-wallpaper.demolab.com/?random",
	"https://source.unsplash.com/random/1920x1080",
	"https://picsum.photos/1920/1080",
	"https://images.pexels.com/photos/random/1920/1080",
}

// Preference keys
const (
	AutoUpdateEnabledKey     = "auto_update_enabled"
	UpdateIntervalKey        = "update_interval"
	CustomIntervalSecondsKey = "custom_interval_seconds"
	RunAtStartupKey          = "run_at_startup"
	MinimizeToTrayKey        = "minimize_to_tray"
	AppUpdateCheckEnabledKey = "app_update_check_enabled"
	LocalAPIEnabledKey       = "local_api_enabled"
	CandidateSourcesKey      = "candidate_sources"
)

// AppConfig holds the application-wide configuration
type AppConfig struct {
	prefs fyne.Preferences
}

// NewAppConfig creates a new AppConfig instance
func NewAppConfig(p fyne.Preferences) *AppConfig {
	return &AppConfig{prefs: p}
}

// GetAutoUpdateEnabled returns whether the wallpaper is refreshed on a timer.
func (c *AppConfig) GetAutoUpdateEnabled() bool {
	return c.prefs.BoolWithFallback(AutoUpdateEnabledKey, false)
}

// SetAutoUpdateEnabled sets whether the wallpaper is refreshed on a timer.
func (c *AppConfig) SetAutoUpdateEnabled(enabled bool) {
	c.prefs.SetBool(AutoUpdateEnabledKey, enabled)
}

// GetUpdateInterval returns the selected auto-update frequency.
func (c *AppConfig) GetUpdateInterval() Frequency {
	f := Frequency(c.prefs.IntWithFallback(UpdateIntervalKey, int(Frequency5Minutes)))
	if f < Frequency1Minute || f > FrequencyCustom {
		return Frequency5Minutes
	}
	return f
}

// SetUpdateInterval sets the auto-update frequency.
func (c *AppConfig) SetUpdateInterval(f Frequency) {
	c.prefs.SetInt(UpdateIntervalKey, int(f))
}

// GetCustomIntervalSeconds returns the interval used by FrequencyCustom.
func (c *AppConfig) GetCustomIntervalSeconds() int {
	n := c.prefs.IntWithFallback(CustomIntervalSecondsKey, DefaultCustomIntervalSeconds)
	if n <= 0 {
		return DefaultCustomIntervalSeconds
	}
	return n
}

// SetCustomIntervalSeconds sets the interval used by FrequencyCustom.
func (c *AppConfig) SetCustomIntervalSeconds(seconds int) {
	c.prefs.SetInt(CustomIntervalSecondsKey, seconds)
}

// GetUpdateIntervalDuration resolves the selected frequency, custom or not, to a duration.
func (c *AppConfig) GetUpdateIntervalDuration() time.Duration {
	return c.GetUpdateInterval().Duration(c.GetCustomIntervalSeconds())
}

// GetRunAtStartup returns whether the app registers itself to run at login.
func (c *AppConfig) GetRunAtStartup() bool {
	return c.prefs.BoolWithFallback(RunAtStartupKey, false)
}

// SetRunAtStartup sets whether the app registers itself to run at login.
func (c *AppConfig) SetRunAtStartup(enabled bool) {
	c.prefs.SetBool(RunAtStartupKey, enabled)
}

// GetMinimizeToTray returns whether closing the window hides it to the tray.
func (c *AppConfig) GetMinimizeToTray() bool {
	return c.prefs.BoolWithFallback(MinimizeToTrayKey, false)
}

// SetMinimizeToTray sets whether closing the window hides it to the tray.
func (c *AppConfig) SetMinimizeToTray(enabled bool) {
	c.prefs.SetBool(MinimizeToTrayKey, enabled)
}

// GetUpdateCheckEnabled returns whether the application should check for updates
func (c *AppConfig) GetUpdateCheckEnabled() bool {
	return c.prefs.BoolWithFallback(AppUpdateCheckEnabledKey, true)
}

// SetUpdateCheckEnabled sets whether the application should check for updates
func (c *AppConfig) SetUpdateCheckEnabled(enabled bool) {
	c.prefs.SetBool(AppUpdateCheckEnabledKey, enabled)
}

// GetLocalAPIEnabled returns whether the loopback control API is started.
func (c *AppConfig) GetLocalAPIEnabled() bool {
	return c.prefs.BoolWithFallback(LocalAPIEnabledKey, false)
}

// SetLocalAPIEnabled sets whether the loopback control API is started.
func (c *AppConfig) SetLocalAPIEnabled(enabled bool) {
	c.prefs.SetBool(LocalAPIEnabledKey, enabled)
}

// GetCandidateSources returns the random-image endpoints, falling back to the defaults.
func (c *AppConfig) GetCandidateSources() []string {
	sources := c.prefs.StringListWithFallback(CandidateSourcesKey, nil)
	if len(sources) == 0 {
		return append([]string(nil), DefaultCandidateSources...)
	}
	return sources
}

// SetCandidateSources replaces the random-image endpoints.
func (c *AppConfig) SetCandidateSources(sources []string) {
	c.prefs.SetStringList(CandidateSourcesKey, sources)
}
