// Package capture grabs screen, window and region pixels and resolves
// human-friendly monitor and window selectors.
package capture

import (
	"fmt"
	"image"
	"image/draw"
)

// screenFn is the pixel source, swappable in tests.
var screenFn = grabScreen

// CaptureScreen captures the whole desktop, or a single monitor when a
// display selector is given.
func CaptureScreen(display string) (*image.RGBA, error) {
	if display != "" {
		monitors, err := ListMonitors()
		if err != nil {
			return nil, err
		}
		monitor, err := FindMonitor(monitors, display)
		if err != nil {
			return nil, err
		}
		return screenFn(monitor.Rect)
	}
	bounds, err := desktopBounds()
	if err != nil {
		return nil, err
	}
	return screenFn(bounds)
}

// CaptureWindowDetailed captures the window matching selector and
// returns the resolved metadata with the pixels. Direct window capture
// is tried first; when the server refuses, the window's rectangle is
// cropped out of a desktop grab instead.
func CaptureWindowDetailed(selector string) (*image.RGBA, WindowInfo, error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	info, err := SelectWindow(selector, windows)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	if info.Rect.Empty() {
		return nil, WindowInfo{}, fmt.Errorf("window %q has empty geometry", selector)
	}
	img, directErr := captureWindowImage(info.ID)
	if directErr == nil {
		return img, info, nil
	}
	bounds, err := desktopBounds()
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; desktop bounds failed: %w", directErr, err)
	}
	shot, err := screenFn(bounds)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	img, err = cropToRect(shot, info.Rect)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback crop failed: %w", directErr, err)
	}
	return img, info, nil
}

// CaptureWindow captures a single window specified by the selector.
func CaptureWindow(selector string) (*image.RGBA, error) {
	img, _, err := CaptureWindowDetailed(selector)
	return img, err
}

// CaptureRegionRect captures a rectangle in global screen coordinates.
func CaptureRegionRect(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	return screenFn(rect)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
