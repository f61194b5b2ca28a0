//go:build !windows && !linux && !darwin

package wallpaper

type unsupportedPlatform struct{}

func getPlatform(appName, exePath string) Platform {
	return unsupportedPlatform{}
}

func (unsupportedPlatform) SetWallpaper(string) error                { return ErrUnsupportedPlatform }
func (unsupportedPlatform) SetPersistentOption(string, string) error { return ErrUnsupportedPlatform }
func (unsupportedPlatform) ReloadUserSettings() error                { return ErrUnsupportedPlatform }
func (unsupportedPlatform) SetStartupRegistration(bool) error        { return ErrUnsupportedPlatform }
func (unsupportedPlatform) IsStartupRegistered() (bool, error)       { return false, nil }
