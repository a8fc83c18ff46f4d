package capture

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
)

type fakeBackend struct {
	monitors    []MonitorInfo
	windows     []WindowInfo
	monitorsErr error
	windowsErr  error
	captureErr  error
	captureImg  *image.RGBA
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	if f.monitorsErr != nil {
		return nil, f.monitorsErr
	}
	return f.monitors, nil
}

func (f fakeBackend) ListWindows() ([]WindowInfo, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	return f.windows, nil
}

func (f fakeBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if f.captureImg != nil {
		return f.captureImg, nil
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func swapBackend(t *testing.T, b platformBackend) {
	t.Helper()
	orig := backend
	backend = b
	t.Cleanup(func() { backend = orig })
}

func swapScreen(t *testing.T, fn func(image.Rectangle) (*image.RGBA, error)) {
	t.Helper()
	orig := screenFn
	screenFn = fn
	t.Cleanup(func() { screenFn = orig })
}

func TestCaptureWindowDetailedListWindowsError(t *testing.T) {
	windowsErr := errors.New("windows unavailable")
	swapBackend(t, fakeBackend{windowsErr: windowsErr})

	_, _, err := CaptureWindowDetailed("foo")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, windowsErr) {
		t.Fatalf("expected wrapped windows error, got %v", err)
	}
	if want := `capture window "foo"`; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected selector context, got %v", err)
	}
}

func TestCaptureWindowDirect(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 8, 8))
	swapBackend(t, fakeBackend{
		windows:    []WindowInfo{{ID: 7, Title: "editor", Rect: image.Rect(0, 0, 8, 8), Active: true}},
		captureImg: want,
	})
	swapScreen(t, func(image.Rectangle) (*image.RGBA, error) {
		t.Fatal("direct capture must not hit the screen grabber")
		return nil, nil
	})

	got, info, err := CaptureWindowDetailed("active")
	if err != nil {
		t.Fatal(err)
	}
	if got != want || info.ID != 7 {
		t.Fatalf("got image %p info %+v", got, info)
	}
}

func TestCaptureWindowFallsBackToCrop(t *testing.T) {
	desktop := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(desktop, image.Rect(10, 10, 30, 30), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	swapBackend(t, fakeBackend{
		windows:    []WindowInfo{{ID: 9, Title: "term", Rect: image.Rect(10, 10, 30, 30), Active: true}},
		captureErr: errors.New("server refused"),
	})
	swapScreen(t, func(rect image.Rectangle) (*image.RGBA, error) {
		return desktop, nil
	})

	got, _, err := CaptureWindowDetailed("term")
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 20 {
		t.Fatalf("cropped bounds = %v, want 20x20", got.Bounds())
	}
	if got.RGBAAt(0, 0).R != 255 {
		t.Fatalf("crop did not land on the window rect: %+v", got.RGBAAt(0, 0))
	}
}

func TestCaptureScreenMonitorSelector(t *testing.T) {
	swapBackend(t, fakeBackend{
		monitors: []MonitorInfo{
			{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080), Primary: true},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(1920, 0, 3840, 1080)},
		},
	})
	var captured image.Rectangle
	swapScreen(t, func(rect image.Rectangle) (*image.RGBA, error) {
		captured = rect
		return image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy())), nil
	})

	if _, err := CaptureScreen("hdmi"); err != nil {
		t.Fatal(err)
	}
	if captured != image.Rect(1920, 0, 3840, 1080) {
		t.Fatalf("captured rect = %v", captured)
	}
}

func TestCaptureRegionRect(t *testing.T) {
	if _, err := CaptureRegionRect(image.Rectangle{}); err == nil {
		t.Fatal("expected error for empty region")
	}

	var captured image.Rectangle
	swapScreen(t, func(rect image.Rectangle) (*image.RGBA, error) {
		captured = rect
		return image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy())), nil
	})
	if _, err := CaptureRegionRect(image.Rect(5, 5, 25, 15)); err != nil {
		t.Fatal(err)
	}
	if captured != image.Rect(5, 5, 25, 15) {
		t.Fatalf("captured rect = %v", captured)
	}
}
