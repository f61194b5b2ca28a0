//go:build darwin

package wallpaper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// darwinPlatform implements Platform with AppleScript and a per-user LaunchAgent.
type darwinPlatform struct {
	label        string
	exePath      string
	launchAgents string
}

func getPlatform(appName, exePath string) Platform {
	home, _ := os.UserHomeDir()
	return &darwinPlatform{
		label:        "io.github." + strings.ToLower(appName),
		exePath:      exePath,
		launchAgents: filepath.Join(home, "Library", "LaunchAgents"),
	}
}

// SetWallpaper sets the desktop picture through Finder.
func (m *darwinPlatform) SetWallpaper(path string) error {
	script := fmt.Sprintf(`tell application "Finder" to set desktop picture to POSIX file %q`, path)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// SetPersistentOption is a no-op; macOS keeps its own scaling per desktop picture.
func (m *darwinPlatform) SetPersistentOption(key, value string) error {
	return nil
}

// ReloadUserSettings is a no-op on macOS.
func (m *darwinPlatform) ReloadUserSettings() error {
	return nil
}

func (m *darwinPlatform) plistPath() string {
	return filepath.Join(m.launchAgents, m.label+".plist")
}

// SetStartupRegistration writes or removes the LaunchAgent plist.
func (m *darwinPlatform) SetStartupRegistration(enabled bool) error {
	if !enabled {
		if err := os.Remove(m.plistPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove launch agent: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(m.launchAgents, 0755); err != nil {
		return fmt.Errorf("failed to create LaunchAgents directory: %w", err)
	}
	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, m.label, m.exePath)
	if err := os.WriteFile(m.plistPath(), []byte(plist), 0644); err != nil {
		return fmt.Errorf("failed to write launch agent: %w", err)
	}
	return nil
}

// IsStartupRegistered reports whether the LaunchAgent plist exists.
func (m *darwinPlatform) IsStartupRegistered() (bool, error) {
	_, err := os.Stat(m.plistPath())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
