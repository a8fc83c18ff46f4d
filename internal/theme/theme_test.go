package theme

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `Name: midnight
Background: #101020
Foreground: #EEEEFF
ButtonBorder: #445566AA
UnknownKey: #123456
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "midnight" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background.R != 0x10 || th.Background.B != 0x20 {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.ButtonBorder.A != 0xAA {
		t.Errorf("ButtonBorder alpha = %d, want 0xAA", th.ButtonBorder.A)
	}
	// Keys missing from the file keep their defaults.
	if th.CheckerDark != Default().CheckerDark {
		t.Errorf("CheckerDark = %+v, want default", th.CheckerDark)
	}
}

func TestParseInvalidColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: red\n")); err == nil {
		t.Error("expected error for non-hex color")
	}
	if _, err := Parse(strings.NewReader("Background: #12\n")); err == nil {
		t.Error("expected error for short hex")
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := NewLoader()
	for _, name := range []string{"default", "dark"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name != name {
			t.Errorf("Load(%q).Name = %q", name, th.Name)
		}
	}
}

func TestLoaderFallbacks(t *testing.T) {
	l := NewLoader()
	th, err := l.Load("")
	if err != nil || th.Name != "Default" {
		t.Errorf("empty name should yield the built-in default, got %v, %v", th, err)
	}
	if _, err := l.Load("no-such-theme"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
