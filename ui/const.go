package ui

// windowWidth and windowHeight are the initial main window size
const (
	windowWidth  = 520
	windowHeight = 640
)

// updateMenuItemPrefix is the copy for the new update available tray menu item
const updateMenuItemPrefix = "Update to "

// statusIdle is shown when no refresh is running
const statusIdle = "Idle"
