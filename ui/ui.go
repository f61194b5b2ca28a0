package ui

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/wpupdater/wpupdater/asset"
	"github.com/wpupdater/wpupdater/config"
	"github.com/wpupdater/wpupdater/pkg/wallpaper"
	"github.com/wpupdater/wpupdater/util"
	"github.com/wpupdater/wpupdater/util/log"
)

// OS hides platform differences in how a tray app presents itself.
type OS interface {
	TransformToForeground()
	TransformToBackground()
}

// Refresher is what the presentation layer needs from the wallpaper refresher.
type Refresher interface {
	TriggerRefresh() (int, error)
	StartAutoUpdate(interval time.Duration) error
	RestartAutoUpdate(interval time.Duration) error
	StopAutoUpdate()
	AutoUpdateRunning() bool
	IsBusy() bool
	Counter() int
	Log() *wallpaper.ActivityLog
	OnBusyChange(fn func(busy bool))
	SetStartupRegistration(enabled bool) error
	IsStartupRegistered() (bool, error)
	Shutdown()
}

// UpdateChecker looks for a newer release.
type UpdateChecker func() (*util.CheckForUpdatesResult, error)

// App is the tray application and its main window.
type App struct {
	app       fyne.App
	cfg       *config.AppConfig
	refresher Refresher
	os        OS
	checker   UpdateChecker
	assets    *asset.Manager

	window   fyne.Window
	trayMenu *fyne.Menu

	autoUpdateItem *fyne.MenuItem
	startupItem    *fyne.MenuItem
	minimizeItem   *fyne.MenuItem

	status        *widget.Label
	changeButton  *widget.Button
	activity      *widget.Activity
	autoCheck     *widget.Check
	intervalSel   *widget.Select
	customEntry   *widget.Entry
	startupCheck  *widget.Check
	minimizeCheck *widget.Check
	logList       *widget.List

	entries  []wallpaper.Entry
	quitting bool

	autoMu sync.Mutex
}

// New wires the presentation layer to a refresher. Nothing is shown until Run.
func New(a fyne.App, cfg *config.AppConfig, r Refresher) *App {
	return &App{
		app:       a,
		cfg:       cfg,
		refresher: r,
		os:        getOS(),
		checker:   func() (*util.CheckForUpdatesResult, error) { return util.CheckForUpdates(nil) },
		assets:    asset.NewManager(),
	}
}

// Run builds the tray and window and blocks in the fyne event loop.
func (a *App) Run() {
	a.buildWindow()
	a.buildTrayMenu()

	a.refresher.Log().Subscribe(func(e wallpaper.Entry) {
		fyne.Do(func() { a.appendEntry(e) })
	})
	a.refresher.OnBusyChange(func(busy bool) {
		fyne.Do(func() { a.setBusy(busy) })
	})

	if a.cfg.GetUpdateCheckEnabled() {
		go a.checkForUpdates(false)
	}

	if a.cfg.GetMinimizeToTray() && a.trayMenu != nil {
		a.os.TransformToBackground()
	} else {
		a.window.Show()
	}
	a.app.Run()
}

// buildTrayMenu creates the system tray menu. Platforms without a tray get none.
func (a *App) buildTrayMenu() {
	desk, ok := a.app.(desktop.App)
	if !ok {
		log.Print("Tray icon not supported on this platform")
		return
	}

	a.autoUpdateItem = fyne.NewMenuItem("Auto Update", func() {
		a.setAutoUpdate(!a.cfg.GetAutoUpdateEnabled())
	})
	a.startupItem = fyne.NewMenuItem("Run at Startup", func() {
		a.setRunAtStartup(!a.cfg.GetRunAtStartup())
	})
	a.minimizeItem = fyne.NewMenuItem("Minimize to Tray", func() {
		a.setMinimizeToTray(!a.cfg.GetMinimizeToTray())
	})

	a.trayMenu = fyne.NewMenu(config.AppName,
		fyne.NewMenuItem("Change Wallpaper", a.changeWallpaper),
		fyne.NewMenuItem("Show Window", a.showWindow),
		fyne.NewMenuItemSeparator(),
		a.autoUpdateItem,
		a.startupItem,
		a.minimizeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Check for Updates", func() { go a.checkForUpdates(true) }),
		fyne.NewMenuItem("About", a.showAbout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", a.quit),
	)
	a.syncToggles()

	desk.SetSystemTrayMenu(a.trayMenu)
	desk.SetSystemTrayIcon(a.trayIcon())
}

func (a *App) trayIcon() fyne.Resource {
	icon, err := a.assets.GetIcon("tray.png")
	if err != nil {
		return theme.ComputerIcon()
	}
	return icon
}

func (a *App) showAbout() {
	text, err := a.assets.GetText("about.txt")
	if err != nil {
		text = config.AppName
	}
	a.showWindow()
	dialog.ShowInformation(fmt.Sprintf("%s %s", config.AppName, config.AppVersion), text, a.window)
}

// buildWindow creates the main window content.
func (a *App) buildWindow() {
	w := a.app.NewWindow(config.AppName)
	a.window = w
	w.SetIcon(a.trayIcon())

	a.status = widget.NewLabel(statusIdle)
	a.status.Wrapping = fyne.TextWrapWord
	a.activity = widget.NewActivity()
	a.changeButton = widget.NewButtonWithIcon("Change Wallpaper", theme.ViewRefreshIcon(), a.changeWallpaper)
	a.changeButton.Importance = widget.HighImportance

	a.autoCheck = widget.NewCheck("Auto update wallpaper", func(b bool) {
		if b != a.cfg.GetAutoUpdateEnabled() {
			a.setAutoUpdate(b)
		}
	})

	a.intervalSel = widget.NewSelect(frequencyLabels(), func(string) {
		a.updateCustomEntryVisibility()
	})
	a.intervalSel.SetSelectedIndex(int(a.cfg.GetUpdateInterval()))

	a.customEntry = widget.NewEntry()
	a.customEntry.SetPlaceHolder("Seconds")
	a.customEntry.SetText(fmt.Sprint(a.cfg.GetCustomIntervalSeconds()))
	a.updateCustomEntryVisibility()

	applyInterval := widget.NewButton("Apply Interval", a.applyInterval)

	a.startupCheck = widget.NewCheck("Run at startup", func(b bool) {
		if b != a.cfg.GetRunAtStartup() {
			a.setRunAtStartup(b)
		}
	})
	a.minimizeCheck = widget.NewCheck("Minimize to tray when closed", func(b bool) {
		if b != a.cfg.GetMinimizeToTray() {
			a.setMinimizeToTray(b)
		}
	})

	a.logList = widget.NewList(
		func() int { return len(a.entries) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			e := a.entries[i]
			l := o.(*widget.Label)
			l.SetText(e.String())
			switch e.Level {
			case wallpaper.LevelError:
				l.Importance = widget.DangerImportance
			case wallpaper.LevelWarn:
				l.Importance = widget.WarningImportance
			default:
				l.Importance = widget.MediumImportance
			}
			l.Refresh()
		},
	)
	a.entries = a.refresher.Log().Entries()

	top := container.NewVBox(
		createSectionTitleLabel("Wallpaper"),
		container.NewBorder(nil, nil, nil, a.activity, a.status),
		a.changeButton,
		widget.NewSeparator(),
		createSectionTitleLabel("Settings"),
		a.autoCheck,
		newSplitRow(widget.NewLabel("Interval"), a.intervalSel),
		a.customEntry,
		applyInterval,
		createSettingDescriptionLabel("Interval changes restart the auto update timer."),
		a.startupCheck,
		a.minimizeCheck,
		widget.NewSeparator(),
		createSectionTitleLabel("Activity"),
	)
	w.SetContent(container.NewBorder(top, nil, nil, nil, a.logList))
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.SetCloseIntercept(a.onClose)

	a.syncToggles()
	a.setBusy(a.refresher.IsBusy())
	if len(a.entries) > 0 {
		a.logList.ScrollToBottom()
	}
}

func frequencyLabels() []string {
	freqs := config.GetFrequencies()
	labels := make([]string, len(freqs))
	for i, f := range freqs {
		labels[i] = f.String()
	}
	return labels
}

func (a *App) updateCustomEntryVisibility() {
	if a.customEntry == nil {
		return
	}
	if config.Frequency(a.intervalSel.SelectedIndex()) == config.FrequencyCustom {
		a.customEntry.Show()
	} else {
		a.customEntry.Hide()
	}
}

// syncToggles mirrors the persisted preferences onto the window checks and tray items.
func (a *App) syncToggles() {
	auto := a.cfg.GetAutoUpdateEnabled()
	startup := a.cfg.GetRunAtStartup()
	minimize := a.cfg.GetMinimizeToTray()

	if a.autoCheck != nil {
		a.autoCheck.SetChecked(auto)
		a.startupCheck.SetChecked(startup)
		a.minimizeCheck.SetChecked(minimize)
	}
	if a.trayMenu != nil {
		a.autoUpdateItem.Checked = auto
		a.startupItem.Checked = startup
		a.minimizeItem.Checked = minimize
		a.trayMenu.Refresh()
	}
}

func (a *App) changeWallpaper() {
	counter, err := a.refresher.TriggerRefresh()
	switch {
	case errors.Is(err, wallpaper.ErrBusy):
		a.status.SetText("A refresh is already in progress")
	case err != nil:
		a.status.SetText(err.Error())
	default:
		a.status.SetText(fmt.Sprintf("Changing to wallpaper_%d", counter))
	}
}

// setBusy disables the trigger button while a refresh runs.
func (a *App) setBusy(busy bool) {
	if busy {
		a.changeButton.Disable()
		a.activity.Start()
		a.activity.Show()
		a.status.SetText(fmt.Sprintf("Changing to wallpaper_%d", a.refresher.Counter()))
		return
	}
	a.changeButton.Enable()
	a.activity.Stop()
	a.activity.Hide()
	if last, ok := a.refresher.Log().Last(); ok {
		a.status.SetText(last.Message)
	} else {
		a.status.SetText(statusIdle)
	}
}

func (a *App) appendEntry(e wallpaper.Entry) {
	a.entries = append(a.entries, e)
	if over := len(a.entries) - wallpaper.MaxLogEntries; over > 0 {
		a.entries = a.entries[over:]
	}
	a.logList.Refresh()
	a.logList.ScrollToBottom()
}

// setAutoUpdate persists the choice and brings the loop in line with it.
func (a *App) setAutoUpdate(enabled bool) {
	a.cfg.SetAutoUpdateEnabled(enabled)
	a.syncToggles()
	a.syncAutoUpdate(false)
}

// syncAutoUpdate applies the saved auto-update preferences off the UI goroutine, since
// stopping waits for an in-flight refresh. Calls run one at a time and read the
// preferences when they run, so the latest choice is the one left in effect.
func (a *App) syncAutoUpdate(restart bool) {
	go func() {
		a.autoMu.Lock()
		defer a.autoMu.Unlock()

		if !a.cfg.GetAutoUpdateEnabled() {
			a.refresher.StopAutoUpdate()
			return
		}
		interval := a.cfg.GetUpdateIntervalDuration()
		var err error
		if restart {
			err = a.refresher.RestartAutoUpdate(interval)
		} else {
			err = a.refresher.StartAutoUpdate(interval)
		}
		if err != nil {
			log.Printf("Failed to apply auto update interval %s: %v", interval, err)
		}
	}()
}

func (a *App) applyInterval() {
	freq := config.Frequency(a.intervalSel.SelectedIndex())
	a.cfg.SetUpdateInterval(freq)
	if freq == config.FrequencyCustom {
		seconds := config.ParseCustomSeconds(a.customEntry.Text)
		a.cfg.SetCustomIntervalSeconds(seconds)
		a.customEntry.SetText(fmt.Sprint(seconds))
	}

	interval := a.cfg.GetUpdateIntervalDuration()
	a.status.SetText(fmt.Sprintf("Update interval set to %s", interval))
	if !a.cfg.GetAutoUpdateEnabled() {
		return
	}
	a.syncAutoUpdate(true)
}

func (a *App) setRunAtStartup(enabled bool) {
	if err := a.refresher.SetStartupRegistration(enabled); err != nil {
		dialog.ShowError(fmt.Errorf("could not change run at startup: %w", err), a.window)
		a.syncToggles()
		return
	}
	a.cfg.SetRunAtStartup(enabled)
	a.syncToggles()
}

func (a *App) setMinimizeToTray(enabled bool) {
	a.cfg.SetMinimizeToTray(enabled)
	a.syncToggles()
}

func (a *App) showWindow() {
	a.os.TransformToForeground()
	a.window.Show()
	a.window.RequestFocus()
}

// onClose hides the window into the tray when asked to, otherwise quits.
func (a *App) onClose() {
	if a.cfg.GetMinimizeToTray() && a.trayMenu != nil {
		a.window.Hide()
		a.os.TransformToBackground()
		return
	}
	a.quit()
}

// quit waits for any in-flight refresh before leaving the event loop.
func (a *App) quit() {
	if a.quitting {
		return
	}
	a.quitting = true
	a.status.SetText("Finishing current refresh...")
	go func() {
		a.refresher.Shutdown()
		fyne.Do(a.app.Quit)
	}()
}

// checkForUpdates runs off the UI goroutine. interactive reports "up to date" too.
func (a *App) checkForUpdates(interactive bool) {
	result, err := a.checker()
	if err != nil {
		log.Printf("Update check failed: %v", err)
		if interactive {
			fyne.Do(func() { dialog.ShowError(err, a.window) })
		}
		return
	}

	fyne.Do(func() {
		if !result.UpdateAvailable {
			if interactive {
				dialog.ShowInformation("Up to date", fmt.Sprintf("%s %s is the latest version.", config.AppName, result.CurrentVersion), a.window)
			}
			return
		}
		a.addUpdateMenuItem(result)
		if interactive {
			dialog.ShowInformation("Update available", fmt.Sprintf("Version %s is available at\n%s", result.LatestVersion, result.ReleaseURL), a.window)
		}
	})
}

func (a *App) addUpdateMenuItem(result *util.CheckForUpdatesResult) {
	if a.trayMenu == nil {
		return
	}
	label := updateMenuItemPrefix + result.LatestVersion
	for _, item := range a.trayMenu.Items {
		if item.Label == label {
			return
		}
	}
	item := fyne.NewMenuItem(label, func() {
		u, err := url.Parse(result.ReleaseURL)
		if err != nil {
			log.Printf("Invalid release URL %q: %v", result.ReleaseURL, err)
			return
		}
		if err := a.app.OpenURL(u); err != nil {
			log.Printf("Failed to open release page: %v", err)
		}
	})
	a.trayMenu.Items = append([]*fyne.MenuItem{item, fyne.NewMenuItemSeparator()}, a.trayMenu.Items...)
	a.trayMenu.Refresh()
}
