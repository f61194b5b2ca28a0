//go:build windows

package wallpaper

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	systemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// Windows API constants
const (
	SPISetDeskWallpaper = 0x0014
	SPIFUpdateIniFile   = 0x01
	SPIFSendChange      = 0x02
)

const (
	desktopKeyPath = `Control Panel\Desktop`
	runKeyPath     = `Software\Microsoft\Windows\CurrentVersion\Run`
)

// windowsPlatform implements Platform with user32 and the HKCU registry hive.
type windowsPlatform struct {
	appName string
	exePath string
}

func getPlatform(appName, exePath string) Platform {
	return &windowsPlatform{appName: appName, exePath: exePath}
}

// SetWallpaper calls SystemParametersInfoW(SPI_SETDESKWALLPAPER).
func (w *windowsPlatform) SetWallpaper(path string) error {
	pathUTF16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	ret, _, err := systemParametersInfo.Call(
		uintptr(SPISetDeskWallpaper),
		uintptr(0),
		uintptr(unsafe.Pointer(pathUTF16)),
		uintptr(SPIFUpdateIniFile|SPIFSendChange),
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfoW failed: %w", err)
	}
	return nil
}

// SetPersistentOption writes a string value under HKCU\Control Panel\Desktop.
func (w *windowsPlatform) SetPersistentOption(key, value string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", desktopKeyPath, err)
	}
	defer k.Close()

	if err := k.SetStringValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// ReloadUserSettings runs user32's UpdatePerUserSystemParameters.
func (w *windowsPlatform) ReloadUserSettings() error {
	cmd := exec.Command("RUNDLL32.EXE", "user32.dll,UpdatePerUserSystemParameters")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to reload user settings: %w (%s)", err, out)
	}
	return nil
}

// SetStartupRegistration adds or removes the HKCU Run entry.
func (w *windowsPlatform) SetStartupRegistration(enabled bool) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open run key: %w", err)
	}
	defer k.Close()

	if enabled {
		return k.SetStringValue(w.appName, `"`+w.exePath+`"`)
	}
	if err := k.DeleteValue(w.appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to remove run entry: %w", err)
	}
	return nil
}

// IsStartupRegistered reports whether the HKCU Run entry exists.
func (w *windowsPlatform) IsStartupRegistered() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("failed to open run key: %w", err)
	}
	defer k.Close()

	if _, _, err := k.GetStringValue(w.appName); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
