package hotkey

import (
	"context"
	"errors"
	"time"

	"github.com/wpupdater/wpupdater/pkg/wallpaper"
	"github.com/wpupdater/wpupdater/util/log"
	"golang.design/x/hotkey"
)

// Trigger starts a manual wallpaper refresh.
type Trigger interface {
	TriggerRefresh() (int, error)
}

// debounce swallows key repeat while the shortcut is held.
const debounce = 300 * time.Millisecond

// StartListeners registers Ctrl+Alt+W to trigger a refresh and listens until ctx is done.
// On platforms without global hotkey support it logs and returns.
func StartListeners(ctx context.Context, t Trigger) {
	if !supported {
		log.Print("Global hotkeys are not supported on this platform")
		return
	}

	hk := hotkey.New([]hotkey.Modifier{modCtrl, modAlt}, keyW)
	if err := hk.Register(); err != nil {
		log.Printf("Failed to register hotkey Ctrl+Alt+W: %v", err)
		return
	}
	log.Print("Registered hotkey: Ctrl+Alt+W (Change Wallpaper)")

	go func() {
		defer func() {
			if err := hk.Unregister(); err != nil {
				log.Printf("Failed to unregister hotkey: %v", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-hk.Keydown():
				handlePress(t)
				time.Sleep(debounce)
			}
		}
	}()
}

func handlePress(t Trigger) {
	counter, err := t.TriggerRefresh()
	switch {
	case errors.Is(err, wallpaper.ErrBusy):
		log.Debugf("Hotkey ignored, refresh in progress")
	case err != nil:
		log.Printf("Hotkey refresh failed: %v", err)
	default:
		log.Debugf("Hotkey started refresh %d", counter)
	}
}
