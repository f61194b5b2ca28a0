//go:build !darwin && !windows

package hotkey

import "golang.design/x/hotkey"

// X11 grabs need a display connection the tray app does not own.
const supported = false

const (
	modCtrl = hotkey.Modifier(0)
	modAlt  = hotkey.Modifier(0)
	keyW    = hotkey.Key(0)
)
