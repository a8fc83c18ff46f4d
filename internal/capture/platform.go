package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// platformBackend supplies window-system metadata and direct window
// pixels. Screen pixels come from screen.go regardless of backend.
type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	ListWindows() ([]WindowInfo, error)
	CaptureWindowImage(uint32) (*image.RGBA, error)
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	errNoWindows  = errors.New("no windows available")
)

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window available for capture.
type WindowInfo struct {
	Index      int
	ID         uint32
	Title      string
	Class      string
	Instance   string
	PID        uint32
	Executable string
	Rect       image.Rectangle
	Monitor    int
	Active     bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// ListWindows retrieves the available top-level windows.
func ListWindows() ([]WindowInfo, error) {
	return backend.ListWindows()
}

func captureWindowImage(id uint32) (*image.RGBA, error) {
	return backend.CaptureWindowImage(id)
}

// FindMonitor resolves a monitor selector: empty picks the first,
// "primary" the primary output, "#n" or "n" by index, anything else
// by case-insensitive name substring.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// SelectWindow matches a selector against the window list. Supported
// forms: "" or "active", "index:N" or a bare number, "id:0x..." or a
// bare hex id, "pid:N", "exec:name", "class:name", "title:text" (also
// "name:"), or a free substring matched against title, executable and
// class.
func SelectWindow(selector string, windows []WindowInfo) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, errNoWindows
	}
	sel := strings.TrimSpace(selector)
	if sel == "" {
		for _, win := range windows {
			if win.Active {
				return win, nil
			}
		}
		return windows[len(windows)-1], nil
	}
	lower := strings.ToLower(sel)
	if lower == "active" {
		for _, win := range windows {
			if win.Active {
				return win, nil
			}
		}
		return WindowInfo{}, fmt.Errorf("no active window detected")
	}

	if key, val, ok := strings.Cut(sel, ":"); ok {
		switch strings.ToLower(key) {
		case "index":
			return windowByIndex(windows, strings.TrimSpace(val))
		case "id":
			id, err := parseWindowID(strings.TrimSpace(val))
			if err != nil {
				return WindowInfo{}, err
			}
			return windowByID(windows, id)
		case "pid":
			pid64, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
			if err != nil {
				return WindowInfo{}, fmt.Errorf("invalid pid %q", val)
			}
			for _, win := range windows {
				if win.PID == uint32(pid64) {
					return win, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window with pid %d not found", pid64)
		case "exec":
			needle := strings.ToLower(strings.TrimSpace(val))
			for _, win := range windows {
				if strings.Contains(strings.ToLower(win.Executable), needle) {
					return win, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window with exec %q not found", val)
		case "class":
			needle := strings.ToLower(strings.TrimSpace(val))
			for _, win := range windows {
				if strings.Contains(strings.ToLower(win.Class), needle) || strings.Contains(strings.ToLower(win.Instance), needle) {
					return win, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window with class %q not found", val)
		case "title", "name":
			needle := strings.ToLower(strings.TrimSpace(val))
			for _, win := range windows {
				if strings.Contains(strings.ToLower(win.Title), needle) {
					return win, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window with title %q not found", strings.TrimSpace(val))
		}
	}

	if _, err := strconv.Atoi(sel); err == nil {
		return windowByIndex(windows, sel)
	}
	if strings.HasPrefix(lower, "0x") {
		if id, err := parseWindowID(sel); err == nil {
			return windowByID(windows, id)
		}
	}

	needle := lower
	for _, win := range windows {
		if strings.Contains(strings.ToLower(win.Title), needle) ||
			strings.Contains(strings.ToLower(win.Executable), needle) ||
			strings.Contains(strings.ToLower(win.Class), needle) ||
			strings.Contains(strings.ToLower(win.Instance), needle) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("no window matched %q", selector)
}

func windowByIndex(windows []WindowInfo, val string) (WindowInfo, error) {
	idx, err := strconv.Atoi(val)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("invalid index %q", val)
	}
	if idx < 0 || idx >= len(windows) {
		return WindowInfo{}, fmt.Errorf("window index %d out of range", idx)
	}
	return windows[idx], nil
}

func windowByID(windows []WindowInfo, id uint32) (WindowInfo, error) {
	for _, win := range windows {
		if win.ID == id {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window id 0x%x not found", id)
}

func parseWindowID(val string) (uint32, error) {
	v := strings.TrimSpace(val)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
		base = 16
	}
	parsed, err := strconv.ParseUint(v, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", val)
	}
	return uint32(parsed), nil
}
