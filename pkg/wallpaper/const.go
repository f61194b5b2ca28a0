package wallpaper

import "time"

// Refresh pipeline tuning
const (
	// MaxAttempts is the number of passes made over the candidate list before giving up.
	MaxAttempts = 3

	// CandidatePause is the fixed spacing between consecutive candidate requests.
	CandidatePause = 1 * time.Second

	// MaxImageBytes caps a single response body.
	MaxImageBytes = 64 << 20

	// MaxLogEntries bounds the activity log. Oldest entries are dropped first.
	MaxLogEntries = 500
)

// File naming
const (
	FilePrefix = "wallpaper_"
	JPEGExt    = ".jpg"
	BitmapExt  = ".bmp"
)

// Persistent per-user display options applied after every refresh.
const (
	StyleOptionKey = "WallpaperStyle"
	StyleFill      = "2"
	TileOptionKey  = "TileWallpaper"
	TileOff        = "0"
)

// Network timeouts. Only the connection phases are bounded; a slow body is never cut off.
const (
	HTTPClientDialerTimeout         = 15 * time.Second
	HTTPClientKeepAlive             = 30 * time.Second
	HTTPClientTLSHandshakeTimeout   = 10 * time.Second
	HTTPClientResponseHeaderTimeout = 15 * time.Second
)

// UserAgent is sent with every image request.
const UserAgent = "WallpaperUpdater/1.0"

// jpegMagic is the JPEG SOI marker.
var jpegMagic = []byte{0xFF, 0xD8}
