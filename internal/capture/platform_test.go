package capture

import (
	"image"
	"testing"
)

var testMonitors = []MonitorInfo{
	{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
	{Index: 1, Name: "DP-2", Rect: image.Rect(1920, 0, 4480, 1440), Primary: true},
}

func TestFindMonitor(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     int
		wantErr  bool
	}{
		{"empty picks first", "", 0, false},
		{"primary", "primary", 1, false},
		{"index", "1", 1, false},
		{"hash index", "#0", 0, false},
		{"name substring", "dp-2", 1, false},
		{"case insensitive", "EDP", 0, false},
		{"out of range", "5", 0, true},
		{"unknown name", "vga", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindMonitor(testMonitors, tt.selector)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Index != tt.want {
				t.Errorf("monitor index = %d, want %d", got.Index, tt.want)
			}
		})
	}

	if _, err := FindMonitor(nil, ""); err == nil {
		t.Error("expected error with no monitors")
	}
}

var testWindows = []WindowInfo{
	{Index: 0, ID: 0x100, Title: "Editor - main.go", Class: "Editor", Instance: "editor", PID: 100, Executable: "editor"},
	{Index: 1, ID: 0x200, Title: "Terminal", Class: "Term", Instance: "term", PID: 200, Executable: "term", Active: true},
	{Index: 2, ID: 0x300, Title: "Browser - docs", Class: "Browser", Instance: "browser", PID: 300, Executable: "browser"},
}

func TestSelectWindow(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		wantID   uint32
		wantErr  bool
	}{
		{"empty picks active", "", 0x200, false},
		{"active keyword", "active", 0x200, false},
		{"index prefix", "index:2", 0x300, false},
		{"bare index", "0", 0x100, false},
		{"id hex", "id:0x300", 0x300, false},
		{"id decimal", "id:512", 0x200, false},
		{"bare hex", "0x100", 0x100, false},
		{"pid", "pid:300", 0x300, false},
		{"exec", "exec:term", 0x200, false},
		{"class", "class:browser", 0x300, false},
		{"title prefix", "title:docs", 0x300, false},
		{"name alias", "name:terminal", 0x200, false},
		{"free substring", "main.go", 0x100, false},
		{"bad index", "index:9", 0, true},
		{"bad pid", "pid:abc", 0, true},
		{"no match", "zzz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectWindow(tt.selector, testWindows)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.ID != tt.wantID {
				t.Errorf("window id = 0x%x, want 0x%x", got.ID, tt.wantID)
			}
		})
	}

	if _, err := SelectWindow("", nil); err == nil {
		t.Error("expected error with no windows")
	}
}

func TestParseWindowID(t *testing.T) {
	if id, err := parseWindowID("0xFF"); err != nil || id != 255 {
		t.Errorf("parseWindowID(0xFF) = %d, %v", id, err)
	}
	if id, err := parseWindowID("42"); err != nil || id != 42 {
		t.Errorf("parseWindowID(42) = %d, %v", id, err)
	}
	if _, err := parseWindowID("nope"); err == nil {
		t.Error("expected error for invalid id")
	}
}
