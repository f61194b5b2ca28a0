//go:build linux

package ui

// linuxOS implements the OS interface for Linux.
type linuxOS struct{}

// TransformToForeground is a no-op for Linux.
func (l *linuxOS) TransformToForeground() {}

// TransformToBackground is a no-op for Linux.
func (l *linuxOS) TransformToBackground() {}

// getOS returns a new instance of the linuxOS struct.
func getOS() OS {
	return &linuxOS{}
}
