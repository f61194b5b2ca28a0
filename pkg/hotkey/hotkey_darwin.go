//go:build darwin

package hotkey

import "golang.design/x/hotkey"

const supported = true

const (
	modCtrl = hotkey.ModCtrl
	modAlt  = hotkey.ModOption
	keyW    = hotkey.KeyW
)
