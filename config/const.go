package config

import "strings"

// AppVersion is the version of the application, set with -ldflags at build time.
var AppVersion string

// AppName is the name of the application. It doubles as the startup registration name.
const AppName = "WallpaperUpdater"

// AppID is the reverse-DNS identifier handed to fyne for preference storage.
const AppID = "io.github.wpupdater"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// WallpaperSubDir is the directory, relative to the config path, holding wallpaper files.
const WallpaperSubDir = "wallpapers"

// CounterFileName is the name of the refresh counter state file.
const CounterFileName = "wallpaper_counter.txt"
