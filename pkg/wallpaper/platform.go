package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Platform is the narrow set of OS operations the refresher needs.
type Platform interface {
	// SetWallpaper applies the image at the absolute path as the desktop background.
	SetWallpaper(path string) error
	// SetPersistentOption writes a per-user display option.
	SetPersistentOption(key, value string) error
	// ReloadUserSettings asks the OS to re-read per-user display parameters.
	ReloadUserSettings() error
	// SetStartupRegistration adds or removes the run-at-login entry.
	SetStartupRegistration(enabled bool) error
	// IsStartupRegistered reports whether the run-at-login entry exists.
	IsStartupRegistered() (bool, error)
}

// ErrUnsupportedPlatform is returned by operations the current OS cannot perform.
var ErrUnsupportedPlatform = errors.New("operation not supported on this platform")

// NewPlatform returns the Platform for the running OS. appName keys the startup registration.
func NewPlatform(appName string) (Platform, error) {
	exe, err := executablePath()
	if err != nil {
		return nil, err
	}
	return getPlatform(appName, exe), nil
}

func executablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
