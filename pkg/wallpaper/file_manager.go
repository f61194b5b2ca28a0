package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// FileManager owns the wallpaper directory and the wallpaper_<N>.{jpg,bmp} files in it.
type FileManager struct {
	dir string
}

// NewFileManager creates a FileManager rooted at dir.
func NewFileManager(dir string) *FileManager {
	return &FileManager{dir: dir}
}

// Dir returns the wallpaper directory.
func (fm *FileManager) Dir() string {
	return fm.dir
}

// EnsureDir creates the wallpaper directory if needed.
func (fm *FileManager) EnsureDir() error {
	if err := os.MkdirAll(fm.dir, 0755); err != nil {
		return fmt.Errorf("failed to create wallpaper directory %s: %w", fm.dir, err)
	}
	return nil
}

// JPEGPath returns the downloaded image path for counter.
func (fm *FileManager) JPEGPath(counter int) string {
	return filepath.Join(fm.dir, FilePrefix+strconv.Itoa(counter)+JPEGExt)
}

// BitmapPath returns the converted image path for counter.
func (fm *FileManager) BitmapPath(counter int) string {
	return filepath.Join(fm.dir, FilePrefix+strconv.Itoa(counter)+BitmapExt)
}

// SaveJPEG writes data to the JPEG path for counter and flushes it to stable storage.
func (fm *FileManager) SaveJPEG(counter int, data []byte) (string, error) {
	if err := fm.EnsureDir(); err != nil {
		return "", err
	}
	path := fm.JPEGPath(counter)
	if err := writeSynced(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return path, nil
}

// ConvertToBitmap decodes the JPEG at jpegPath and writes a BMP next to it.
// Decode and encode failures wrap ErrConvert.
func (fm *FileManager) ConvertToBitmap(jpegPath string) (string, error) {
	img, err := imaging.Open(jpegPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrConvert, jpegPath, err)
	}

	bmpPath := strings.TrimSuffix(jpegPath, filepath.Ext(jpegPath)) + BitmapExt
	if err := writeSynced(bmpPath, func(f *os.File) error {
		return bmp.Encode(f, img)
	}); err != nil {
		return "", fmt.Errorf("%w: encode %s: %v", ErrConvert, bmpPath, err)
	}
	return bmpPath, nil
}

// CleanupStale removes every wallpaper_<N>.* with N < current. Files that fail to delete are
// reported in the joined error; the scan carries on. Names that do not parse are left alone.
func (fm *FileManager) CleanupStale(current int) ([]string, error) {
	entries, err := os.ReadDir(fm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallpaper directory: %w", err)
	}

	var removed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, ok := parseCounter(entry.Name())
		if !ok || n >= current {
			continue
		}
		path := filepath.Join(fm.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

// parseCounter extracts N from wallpaper_<N>.<ext>.
func parseCounter(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	digits, ok := strings.CutPrefix(stem, FilePrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func writeSynced(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
