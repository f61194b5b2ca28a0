//go:build darwin

package ui

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#import <AppKit/AppKit.h>

void setActivationPolicy(long policy) {
    [NSApp setActivationPolicy:policy];
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

const (
	activationPolicyRegular   = 0
	activationPolicyAccessory = 1
)

// darwinOS implements the OS interface for macOS.
type darwinOS struct{}

// TransformToForeground shows the Dock icon while the window is open.
func (d *darwinOS) TransformToForeground() {
	C.setActivationPolicy(C.long(activationPolicyRegular))
}

// TransformToBackground hides the Dock icon when the window is tucked into the tray.
func (d *darwinOS) TransformToBackground() {
	C.setActivationPolicy(C.long(activationPolicyAccessory))
}

// getOS returns a new instance of the darwinOS struct.
func getOS() OS {
	return &darwinOS{}
}
