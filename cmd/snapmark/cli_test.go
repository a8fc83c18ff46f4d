package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/config"
)

func testRoot() *root {
	cfg := config.New()
	cfg.History.Enabled = false
	return &root{program: "snapmark", config: cfg}
}

func TestParseRect(t *testing.T) {
	cases := []struct {
		in   string
		want image.Rectangle
		ok   bool
	}{
		{"0,0,100x50", image.Rect(0, 0, 100, 50), true},
		{"10, 20, 30x40", image.Rect(10, 20, 40, 60), true},
		{"10,20,110,220", image.Rect(10, 20, 110, 220), true},
		{"5,5,5,5", image.Rectangle{}, false},
		{"0,0,0x50", image.Rectangle{}, false},
		{"1,2", image.Rectangle{}, false},
		{"a,b,cxd", image.Rectangle{}, false},
	}
	for _, c := range cases {
		got, err := parseRect(c.in)
		if (err == nil) != c.ok {
			t.Errorf("parseRect(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("parseRect(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseShadowOffset(t *testing.T) {
	p, err := parseShadowOffset("16,-8")
	if err != nil {
		t.Fatal(err)
	}
	if p != image.Pt(16, -8) {
		t.Errorf("offset = %v", p)
	}
	if _, err := parseShadowOffset("16"); err == nil {
		t.Error("expected error for single value")
	}
	if got := formatShadowOffset(image.Pt(3, 4)); got != "3,4" {
		t.Errorf("formatShadowOffset = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	col, name, err := parseColor("Red")
	if err != nil {
		t.Fatal(err)
	}
	if col.R != 255 || col.G != 0 || col.B != 0 {
		t.Errorf("palette red = %v", col)
	}
	if name != "Red" {
		t.Errorf("name = %q", name)
	}

	col, _, err = parseColor("rebeccapurple")
	if err != nil {
		t.Fatalf("svg name: %v", err)
	}
	if col.A != 255 {
		t.Errorf("svg color alpha = %d", col.A)
	}

	col, name, err = parseColor("#102030")
	if err != nil {
		t.Fatal(err)
	}
	if col.R != 0x10 || col.G != 0x20 || col.B != 0x30 || col.A != 255 {
		t.Errorf("hex color = %v", col)
	}
	if name != "" {
		t.Errorf("hex name = %q, want empty", name)
	}

	if _, _, err := parseColor("not-a-color"); err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestSplitDrawArgs(t *testing.T) {
	flags, pos := splitDrawArgs([]string{"line", "0", "0", "50", "50", "-color", "blue", "-to-clipboard", "-width=2"})
	wantFlags := []string{"-color", "blue", "-to-clipboard", "-width=2"}
	wantPos := []string{"line", "0", "0", "50", "50"}
	if strings.Join(flags, " ") != strings.Join(wantFlags, " ") {
		t.Errorf("flags = %v, want %v", flags, wantFlags)
	}
	if strings.Join(pos, " ") != strings.Join(wantPos, " ") {
		t.Errorf("positional = %v, want %v", pos, wantPos)
	}
}

func TestParseSnapshotCmdModes(t *testing.T) {
	r := testRoot()

	s, err := parseSnapshotCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if s.mode != "screen" {
		t.Errorf("default mode = %q", s.mode)
	}

	s, err = parseSnapshotCmd([]string{"window"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if s.mode != "window" {
		t.Errorf("positional mode = %q", s.mode)
	}

	if _, err := parseSnapshotCmd([]string{"bogus"}, r); err == nil {
		t.Error("expected usage error for unknown positional")
	}
}

func TestSnapshotRunWritesFile(t *testing.T) {
	orig := captureScreenFn
	captureScreenFn = func(string) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}
	defer func() { captureScreenFn = orig }()

	out := filepath.Join(t.TempDir(), "shot.png")
	s, err := parseSnapshotCmd([]string{"-output", out}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	s.out = &bytes.Buffer{}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestSnapshotRunCaptureError(t *testing.T) {
	orig := captureScreenFn
	captureScreenFn = func(string) (*image.RGBA, error) {
		return nil, errors.New("no display")
	}
	defer func() { captureScreenFn = orig }()

	s, err := parseSnapshotCmd(nil, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err == nil || !strings.Contains(err.Error(), "no display") {
		t.Errorf("Run error = %v", err)
	}
}

func TestParseDrawCmd(t *testing.T) {
	d, err := parseDrawCmd([]string{"-file", "in.png", "arrow", "0", "0", "100", "50", "-color", "blue"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if d.shape != "arrow" || len(d.coords) != 4 {
		t.Errorf("shape = %q coords = %v", d.shape, d.coords)
	}
	if d.colorName != "blue" {
		t.Errorf("color = %q", d.colorName)
	}

	d, err = parseDrawCmd([]string{"-file", "in.png", "text", "10", "20", "hello", "world"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if d.text != "hello world" {
		t.Errorf("text = %q", d.text)
	}

	if _, err := parseDrawCmd([]string{"-file", "in.png", "line", "1", "2", "3"}, testRoot()); err == nil {
		t.Error("expected error for missing coordinate")
	}
	if _, err := parseDrawCmd([]string{"-file", "in.png", "freehand", "1", "2", "3"}, testRoot()); err == nil {
		t.Error("expected error for odd freehand coordinates")
	}
	if _, err := parseDrawCmd([]string{"arrow", "0", "0", "1", "1"}, testRoot()); err == nil {
		t.Error("expected error without -file")
	}
}

func TestParseHistoryCmd(t *testing.T) {
	h, err := parseHistoryCmd(nil, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if h.op != "list" {
		t.Errorf("default op = %q", h.op)
	}

	h, err = parseHistoryCmd([]string{"remove", "abcd1234"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if h.op != "remove" || h.id != "abcd1234" {
		t.Errorf("op = %q id = %q", h.op, h.id)
	}

	if _, err := parseHistoryCmd([]string{"show"}, testRoot()); err == nil {
		t.Error("show without id should fail")
	}
	if _, err := parseHistoryCmd([]string{"bogus"}, testRoot()); err == nil {
		t.Error("unknown op should fail")
	}
}

func TestUsageErrorRendersTemplates(t *testing.T) {
	r := testRoot()
	r.fs = flag.NewFlagSet("snapmark", flag.ContinueOnError)
	cmds := []HelpData{r}

	s, err := parseSnapshotCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	cmds = append(cmds, s)

	d, err := parseDrawCmd([]string{"-file", "in.png", "line", "0", "0", "1", "1"}, r)
	if err != nil {
		t.Fatal(err)
	}
	cmds = append(cmds, d)

	h, err := parseHistoryCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	cmds = append(cmds, h)

	for _, c := range cmds {
		msg := (&UsageError{of: c}).Error()
		if !strings.Contains(msg, "Usage:") {
			t.Errorf("%s help missing usage line: %q", c.Template(), msg)
		}
		if strings.HasPrefix(msg, "usage: ") {
			t.Errorf("%s template failed to render", c.Template())
		}
	}
}

func TestFormatWindowLabel(t *testing.T) {
	win := capture.WindowInfo{Index: 3, ID: 0xabc, Class: "Term", PID: 42, Title: "shell", Active: true}
	label := formatWindowLabel(win)
	for _, want := range []string{"* ", "3:", "id:0x00000abc", "class:Term", "pid:42", "shell"} {
		if !strings.Contains(label, want) {
			t.Errorf("label %q missing %q", label, want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestInteractiveExecuteLine(t *testing.T) {
	i := &interactiveCmd{r: testRoot()}
	if err := i.executeLine("interactive"); err == nil {
		t.Error("nested interactive should fail")
	}
	if err := i.executeLine(""); err != nil {
		t.Errorf("blank line = %v", err)
	}
}

func TestCommandList(t *testing.T) {
	var c commandList
	if err := c.Set("version"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("colors"); err != nil {
		t.Fatal(err)
	}
	if got := c.String(); got != "version; colors" {
		t.Errorf("String = %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty = %q", got)
	}
}
