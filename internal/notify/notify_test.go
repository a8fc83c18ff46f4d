package notify

import "testing"

func TestLoadPreferencesEnvOverrides(t *testing.T) {
	t.Setenv("SNAPMARK_NOTIFY_TITLE", "Shots")
	t.Setenv("SNAPMARK_NOTIFY_CAPTURE_TEXT", "Grabbed %s")

	prefs := LoadPreferences()
	if prefs.Title != "Shots" {
		t.Errorf("Title = %q", prefs.Title)
	}
	if got := prefs.Events[EventCapture].Template; got != "Grabbed %s" {
		t.Errorf("capture template = %q", got)
	}
	if got := prefs.Events[EventSave].Template; got != "Saved %s" {
		t.Errorf("save template = %q, want default", got)
	}
}

func TestNotifierDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	if n.enabledFor(EventCapture) || n.enabledFor(EventSave) || n.enabledFor(EventCopy) {
		t.Error("events should start disabled")
	}
	n.Enable(EventSave, true)
	if !n.enabledFor(EventSave) {
		t.Error("Enable did not take effect")
	}
	n.Enable(EventSave, false)
	if n.enabledFor(EventSave) {
		t.Error("disable did not take effect")
	}
}
