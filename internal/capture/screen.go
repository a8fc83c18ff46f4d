package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// desktopBounds is the union of every active display.
func desktopBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, errNoMonitors
	}
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds, nil
}

func grabScreen(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// displayMonitors builds monitor info from raw display bounds. Used
// where no window system metadata is available; names are synthetic
// and the first display counts as primary.
func displayMonitors() ([]MonitorInfo, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errNoMonitors
	}
	monitors := make([]MonitorInfo, n)
	for i := 0; i < n; i++ {
		monitors[i] = MonitorInfo{
			Index:   i,
			Name:    fmt.Sprintf("display-%d", i),
			Rect:    screenshot.GetDisplayBounds(i),
			Primary: i == 0,
		}
	}
	return monitors, nil
}
