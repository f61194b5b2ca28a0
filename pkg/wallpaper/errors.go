package wallpaper

import "errors"

var (
	// ErrBusy is returned when a refresh is requested while another one is in flight.
	ErrBusy = errors.New("a wallpaper refresh is already in progress")

	// ErrNoValidImage is returned when every candidate failed on every attempt.
	ErrNoValidImage = errors.New("no valid JPEG image could be fetched")

	// ErrConvert is returned when the downloaded image could not be converted to a bitmap.
	ErrConvert = errors.New("image conversion failed")

	// ErrInvalidInterval is returned for non-positive auto-update intervals.
	ErrInvalidInterval = errors.New("auto-update interval must be positive")

	// ErrNoSources is returned when the refresher is built without candidate sources.
	ErrNoSources = errors.New("no candidate sources configured")
)

// ErrShutdown is returned by entry points called after Shutdown.
var ErrShutdown = errors.New("refresher has been shut down")
