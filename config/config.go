package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetPath returns the path to the user's config directory.
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// GetWallpaperDir returns the fixed directory holding wallpaper_<counter>.{jpg,bmp} files.
func GetWallpaperDir() string {
	return filepath.Join(GetPath(), WallpaperSubDir)
}

// GetCounterFile returns the path of the refresh counter state file.
func GetCounterFile() string {
	return filepath.Join(GetPath(), CounterFileName)
}
