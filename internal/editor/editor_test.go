package editor

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

func TestShapeKind(t *testing.T) {
	cases := []struct {
		tool Tool
		kind annotation.Kind
		ok   bool
	}{
		{ToolFreehand, annotation.KindFreehand, true},
		{ToolLine, annotation.KindLine, true},
		{ToolArrow, annotation.KindArrow, true},
		{ToolRect, annotation.KindRect, true},
		{ToolOval, annotation.KindOval, true},
		{ToolMove, 0, false},
		{ToolText, 0, false},
	}
	for _, c := range cases {
		kind, ok := shapeKind(c.tool)
		if ok != c.ok {
			t.Errorf("shapeKind(%v) ok = %v, want %v", c.tool, ok, c.ok)
			continue
		}
		if ok && kind != c.kind {
			t.Errorf("shapeKind(%v) = %v, want %v", c.tool, kind, c.kind)
		}
	}
}

func TestGestureElement(t *testing.T) {
	ref := geometry.Rect{W: 200, H: 100}
	red := color.RGBA{255, 0, 0, 255}

	el, err := gestureElement(ToolLine, []image.Point{{0, 0}, {100, 50}}, red, 4, ref)
	if err != nil {
		t.Fatal(err)
	}
	if el.Kind != annotation.KindLine {
		t.Errorf("Kind = %v", el.Kind)
	}
	if len(el.Points) != 2 {
		t.Fatalf("Points = %d", len(el.Points))
	}
	if el.Points[1].X != 0.5 || el.Points[1].Y != 0.5 {
		t.Errorf("end point = %+v, want (0.5, 0.5)", el.Points[1])
	}

	// Intermediate points of a drag only matter for freehand.
	el, err = gestureElement(ToolRect, []image.Point{{10, 10}, {50, 50}, {90, 90}}, red, 4, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(el.Points) != 2 {
		t.Errorf("rect keeps %d points, want 2", len(el.Points))
	}

	el, err = gestureElement(ToolFreehand, []image.Point{{10, 10}, {50, 50}, {90, 90}}, red, 4, ref)
	if err != nil {
		t.Fatal(err)
	}
	if el.Kind != annotation.KindFreehand || len(el.Points) != 3 {
		t.Errorf("freehand = %v with %d points", el.Kind, len(el.Points))
	}
}

func TestGestureElementRejectsNonShapes(t *testing.T) {
	ref := geometry.Rect{W: 100, H: 100}
	if _, err := gestureElement(ToolMove, []image.Point{{0, 0}, {1, 1}}, color.RGBA{}, 1, ref); err == nil {
		t.Error("expected error for move tool")
	}
	if _, err := gestureElement(ToolText, []image.Point{{0, 0}, {1, 1}}, color.RGBA{}, 1, ref); err == nil {
		t.Error("expected error for text tool")
	}
}

func TestGestureElementDegenerateRef(t *testing.T) {
	ref := geometry.Rect{W: 0, H: 100}
	if _, err := gestureElement(ToolLine, []image.Point{{0, 0}, {1, 1}}, color.RGBA{}, 1, ref); err == nil {
		t.Error("expected error for degenerate reference rect")
	}
}

func TestEnsurePaletteColor(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	if idx := EnsurePaletteColor(red, ""); idx != 2 {
		t.Errorf("existing red index = %d, want 2", idx)
	}
	before := len(Palette())
	custom := color.RGBA{12, 34, 56, 255}
	idx := EnsurePaletteColor(custom, "Custom")
	if idx != before {
		t.Errorf("new color index = %d, want %d", idx, before)
	}
	// Second call must not duplicate.
	if again := EnsurePaletteColor(custom, ""); again != idx {
		t.Errorf("repeat index = %d, want %d", again, idx)
	}
	cols := PaletteColors()
	if cols[idx].Name != "Custom" {
		t.Errorf("name = %q, want Custom", cols[idx].Name)
	}
}

func TestEnsureWidth(t *testing.T) {
	if idx := EnsureWidth(4); WidthOptions()[idx] != 4 {
		t.Errorf("existing width lookup broken")
	}
	idx := EnsureWidth(3)
	opts := WidthOptions()
	if opts[idx] != 3 {
		t.Errorf("widths[%d] = %d, want 3", idx, opts[idx])
	}
	for i := 1; i < len(opts); i++ {
		if opts[i-1] >= opts[i] {
			t.Fatalf("widths not sorted: %v", opts)
		}
	}
	if idx := EnsureWidth(0); WidthOptions()[idx] != 1 {
		t.Errorf("sub-1 width should clamp to 1")
	}
}

func TestClampIndexes(t *testing.T) {
	if got := clampColorIndex(-5); got != 0 {
		t.Errorf("clampColorIndex(-5) = %d", got)
	}
	if got := clampColorIndex(9999); got != paletteLen()-1 {
		t.Errorf("clampColorIndex(9999) = %d", got)
	}
	if got := clampWidthIndex(9999); got != widthsLen()-1 {
		t.Errorf("clampWidthIndex(9999) = %d", got)
	}
	if got := clampTextSizeIndex(-1); got != 0 {
		t.Errorf("clampTextSizeIndex(-1) = %d", got)
	}
}

func TestFitZoom(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	winW := 100 + toolbarWidth
	winH := 100 + titleHeight + bottomHeight
	if z := fitZoom(img, winW, winH); z != 1 {
		t.Errorf("fitZoom = %v, want 1", z)
	}
	if z := fitZoom(img, winW, titleHeight+bottomHeight+50); z != 0.5 {
		t.Errorf("fitZoom = %v, want 0.5", z)
	}
}

func TestImageRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	r := imageRect(img, 800, 600, 2)
	want := image.Rect(toolbarWidth, titleHeight, toolbarWidth+200, titleHeight+100)
	if r != want {
		t.Errorf("imageRect = %v, want %v", r, want)
	}
}

func TestSessionDefaults(t *testing.T) {
	s := New(WithImage(image.NewRGBA(image.Rect(0, 0, 10, 10))), WithColorIndex(-1), WithWidthIndex(999))
	if s.ColorIdx != 0 {
		t.Errorf("ColorIdx = %d", s.ColorIdx)
	}
	if s.WidthIdx != widthsLen()-1 {
		t.Errorf("WidthIdx = %d", s.WidthIdx)
	}
	if s.History() == nil {
		t.Error("history not initialised")
	}
	if s.theme == nil {
		t.Error("theme not initialised")
	}
}

func TestSessionUndoDepth(t *testing.T) {
	s := New(WithUndoDepth(2))
	h := s.History()
	ref := geometry.Rect{W: 100, H: 100}
	for i := 0; i < 5; i++ {
		el, err := gestureElement(ToolLine, []image.Point{{0, 0}, {50, 50}}, color.RGBA{A: 255}, 1, ref)
		if err != nil {
			t.Fatal(err)
		}
		h.Commit(el)
	}
	undos := 0
	for h.Undo() {
		undos++
	}
	if undos != 2 {
		t.Errorf("undo count = %d, want 2", undos)
	}
}
