//go:build linux

package wallpaper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GNOME picture-options value for each fill style
var gnomePictureOptions = map[string]string{
	StyleFill: "zoom",
}

// linuxPlatform implements Platform for GNOME-family, KDE, XFCE and Sway desktops.
type linuxPlatform struct {
	appName      string
	exePath      string
	autostartDir string

	// run executes a desktop tool and waits for it. Nil uses exec.
	run func(name string, args ...string) error
}

func getPlatform(appName, exePath string) Platform {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return &linuxPlatform{
		appName:      appName,
		exePath:      exePath,
		autostartDir: filepath.Join(dir, "autostart"),
	}
}

func desktopEnv() string {
	env := os.Getenv("XDG_CURRENT_DESKTOP")
	if env == "" {
		env = os.Getenv("DESKTOP_SESSION")
	}
	return strings.ToLower(env)
}

func isGNOMEFamily(env string) bool {
	for _, name := range []string{"gnome", "unity", "cinnamon", "mutter", "budgie", "pantheon"} {
		if strings.Contains(env, name) {
			return true
		}
	}
	return false
}

// SetWallpaper dispatches on the running desktop environment.
func (l *linuxPlatform) SetWallpaper(path string) error {
	env := desktopEnv()

	if os.Getenv("WAYLAND_DISPLAY") != "" {
		switch {
		case isGNOMEFamily(env):
			return l.setWallpaperGNOME(path)
		case strings.Contains(env, "sway"):
			// swaymsg hands the image to the running swaybg instead of spawning a new one.
			return l.command("swaymsg", "output", "*", "bg", path, "fill")
		default:
			return fmt.Errorf("unsupported Wayland compositor: %q", env)
		}
	}

	switch {
	case isGNOMEFamily(env):
		return l.setWallpaperGNOME(path)
	case strings.Contains(env, "kde"):
		return l.setWallpaperKDE(path)
	case strings.Contains(env, "xfce"):
		return l.command("xfconf-query",
			"--channel", "xfce4-desktop",
			"--property", "/backdrop/screen0/monitor0/workspace0/last-image",
			"--set", path)
	default:
		return fmt.Errorf("unsupported desktop environment: %q", env)
	}
}

func (l *linuxPlatform) setWallpaperGNOME(path string) error {
	uri := "file://" + path
	if err := gsettings("picture-uri", uri); err != nil {
		return err
	}
	// Older GNOME releases have no dark variant.
	_ = gsettings("picture-uri-dark", uri)
	return nil
}

func (l *linuxPlatform) setWallpaperKDE(path string) error {
	script := fmt.Sprintf(`var allDesktops = desktops();
for (i = 0; i < allDesktops.length; i++) {
    d = allDesktops[i];
    d.wallpaperPlugin = "org.kde.image";
    d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
    d.writeConfig("Image", "file://%s");
}`, path)
	return l.command("dbus-send", "--session", "--dest=org.kde.plasmashell", "--type=method_call",
		"/PlasmaShell", "org.kde.PlasmaShell.evaluateScript", "string:"+script)
}

func (l *linuxPlatform) command(name string, args ...string) error {
	if l.run != nil {
		return l.run(name, args...)
	}
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (%s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func gsettings(key, value string) error {
	out, err := exec.Command("gsettings", "set", "org.gnome.desktop.background", key, value).CombinedOutput()
	if err != nil {
		return fmt.Errorf("gsettings %s failed: %w (%s)", key, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// SetPersistentOption maps the fill style onto GNOME picture-options. Other keys are no-ops.
func (l *linuxPlatform) SetPersistentOption(key, value string) error {
	if key != StyleOptionKey || !isGNOMEFamily(desktopEnv()) {
		return nil
	}
	opt, ok := gnomePictureOptions[value]
	if !ok {
		return fmt.Errorf("unknown wallpaper style %q", value)
	}
	return gsettings("picture-options", opt)
}

// ReloadUserSettings is a no-op; the desktop picks up gsettings changes itself.
func (l *linuxPlatform) ReloadUserSettings() error {
	return nil
}

func (l *linuxPlatform) autostartFile() string {
	return filepath.Join(l.autostartDir, strings.ToLower(l.appName)+".desktop")
}

// SetStartupRegistration writes or removes an XDG autostart entry.
func (l *linuxPlatform) SetStartupRegistration(enabled bool) error {
	file := l.autostartFile()
	if !enabled {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove autostart entry: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(l.autostartDir, 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	entry := fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nExec=%q\nX-GNOME-Autostart-enabled=true\n", l.appName, l.exePath)
	if err := os.WriteFile(file, []byte(entry), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// IsStartupRegistered reports whether the autostart entry exists.
func (l *linuxPlatform) IsStartupRegistered() (bool, error) {
	_, err := os.Stat(l.autostartFile())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
