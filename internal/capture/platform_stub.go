//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

// displayOnlyBackend serves platforms without a window metadata
// implementation. Monitor geometry still comes from display bounds, so
// screen and region capture keep working.
type displayOnlyBackend struct{}

func newBackend() platformBackend {
	return displayOnlyBackend{}
}

func (displayOnlyBackend) ListMonitors() ([]MonitorInfo, error) {
	return displayMonitors()
}

func (displayOnlyBackend) ListWindows() ([]WindowInfo, error) {
	return nil, fmt.Errorf("window listing is not supported on this platform")
}

func (displayOnlyBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	return nil, fmt.Errorf("window capture is not supported on this platform")
}

func runningOnWayland() bool { return false }
