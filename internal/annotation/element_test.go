package annotation

import (
	"errors"
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/geometry"
)

func TestNewShapeNormalizes(t *testing.T) {
	ref := geometry.Rect{W: 200, H: 100}
	el, err := NewShape(KindArrow, geometry.Point{X: 100, Y: 50}, geometry.Point{X: 200, Y: 100}, color.RGBA{A: 255}, 4, ref)
	if err != nil {
		t.Fatal(err)
	}
	if el.Points[0] != (geometry.Point{X: 0.5, Y: 0.5}) {
		t.Errorf("start = %+v, want (0.5, 0.5)", el.Points[0])
	}
	if el.Points[1] != (geometry.Point{X: 1, Y: 1}) {
		t.Errorf("end = %+v, want (1, 1)", el.Points[1])
	}
	if el.StrokeWidth != 0.04 {
		t.Errorf("StrokeWidth = %v, want 0.04", el.StrokeWidth)
	}
}

func TestNewShapeDegenerateRect(t *testing.T) {
	_, err := NewShape(KindRect, geometry.Point{}, geometry.Point{X: 1, Y: 1}, color.RGBA{}, 1, geometry.Rect{W: 0, H: 50})
	if !errors.Is(err, ErrDegenerateRect) {
		t.Errorf("err = %v, want ErrDegenerateRect", err)
	}
}

func TestNewFreehand(t *testing.T) {
	ref := geometry.Rect{W: 100, H: 100}
	_, err := NewFreehand([]geometry.Point{{X: 1, Y: 1}}, color.RGBA{}, 1, ref)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}

	el, err := NewFreehand([]geometry.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 0}}, color.RGBA{}, 2, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(el.Points) != 3 || el.Kind != KindFreehand {
		t.Errorf("got %d points, kind %v", len(el.Points), el.Kind)
	}
}

func TestNewText(t *testing.T) {
	ref := geometry.Rect{W: 100, H: 100}
	_, err := NewText("", geometry.Point{}, color.RGBA{}, 16, ref)
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}

	el, err := NewText("hello", geometry.Point{X: 25, Y: 75}, color.RGBA{B: 255, A: 255}, 16, ref)
	if err != nil {
		t.Fatal(err)
	}
	if el.Text != "hello" || el.FontSize != 0.16 {
		t.Errorf("Text=%q FontSize=%v", el.Text, el.FontSize)
	}
}

func TestIDsUnique(t *testing.T) {
	ref := geometry.Rect{W: 10, H: 10}
	a, _ := NewShape(KindLine, geometry.Point{}, geometry.Point{X: 5, Y: 5}, color.RGBA{}, 1, ref)
	b, _ := NewShape(KindLine, geometry.Point{}, geometry.Point{X: 5, Y: 5}, color.RGBA{}, 1, ref)
	if a.ID == b.ID {
		t.Error("two elements share an ID")
	}
}

func TestCloneIndependence(t *testing.T) {
	ref := geometry.Rect{W: 10, H: 10}
	a, _ := NewFreehand([]geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, color.RGBA{}, 1, ref)
	c := a.Clone()
	c.Points[0].X = 0.9
	if a.Points[0].X == 0.9 {
		t.Error("Clone shares point storage")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"arrow", KindArrow, true},
		{"rectangle", KindRect, true},
		{"circle", KindOval, true},
		{"path", KindFreehand, true},
		{"blob", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
