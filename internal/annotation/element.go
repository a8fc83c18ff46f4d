// Package annotation holds the editing model for screenshot markup:
// resolution-independent elements and a bounded undo/redo history.
package annotation

import (
	"errors"
	"image/color"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/geometry"
)

// Kind identifies the shape of an element.
type Kind int

const (
	KindArrow Kind = iota
	KindText
	KindRect
	KindOval
	KindLine
	KindFreehand
)

func (k Kind) String() string {
	switch k {
	case KindArrow:
		return "arrow"
	case KindText:
		return "text"
	case KindRect:
		return "rect"
	case KindOval:
		return "oval"
	case KindLine:
		return "line"
	case KindFreehand:
		return "freehand"
	}
	return "unknown"
}

// ParseKind resolves a kind name as used on the command line.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "arrow":
		return KindArrow, true
	case "text":
		return KindText, true
	case "rect", "rectangle":
		return KindRect, true
	case "oval", "circle", "ellipse":
		return KindOval, true
	case "line":
		return KindLine, true
	case "freehand", "path":
		return KindFreehand, true
	}
	return 0, false
}

var (
	ErrDegenerateRect = errors.New("annotation: reference rect has no area")
	ErrTooFewPoints   = errors.New("annotation: freehand path needs at least two points")
	ErrEmptyText      = errors.New("annotation: text element needs text")
)

// Element is one annotation mark. Points, StrokeWidth and FontSize are
// stored normalized against the image the element was created over, so
// the same element renders correctly at any target resolution. Elements
// are value-like: once created they are never mutated, all edits flow
// through the History.
type Element struct {
	ID          uuid.UUID
	Kind        Kind
	Points      []geometry.Point
	Stroke      color.RGBA
	StrokeWidth float64
	Text        string
	FontSize    float64
}

// Clone returns a structurally independent copy.
func (e Element) Clone() Element {
	c := e
	c.Points = make([]geometry.Point, len(e.Points))
	copy(c.Points, e.Points)
	return c
}

// NewShape builds a two-point element (line, arrow, rect, oval) from
// raw pixel coordinates against ref.
func NewShape(kind Kind, start, end geometry.Point, stroke color.RGBA, width float64, ref geometry.Rect) (Element, error) {
	pts, err := normalizePoints([]geometry.Point{start, end}, ref)
	if err != nil {
		return Element{}, err
	}
	nw, ok := geometry.NormalizeLength(width, ref)
	if !ok {
		return Element{}, ErrDegenerateRect
	}
	return Element{
		ID:          uuid.New(),
		Kind:        kind,
		Points:      pts,
		Stroke:      stroke,
		StrokeWidth: nw,
	}, nil
}

// NewFreehand builds a path element from raw pixel coordinates.
func NewFreehand(points []geometry.Point, stroke color.RGBA, width float64, ref geometry.Rect) (Element, error) {
	if len(points) < 2 {
		return Element{}, ErrTooFewPoints
	}
	pts, err := normalizePoints(points, ref)
	if err != nil {
		return Element{}, err
	}
	nw, ok := geometry.NormalizeLength(width, ref)
	if !ok {
		return Element{}, ErrDegenerateRect
	}
	return Element{
		ID:          uuid.New(),
		Kind:        KindFreehand,
		Points:      pts,
		Stroke:      stroke,
		StrokeWidth: nw,
	}, nil
}

// NewText builds a text element anchored at a raw pixel position.
func NewText(text string, anchor geometry.Point, stroke color.RGBA, fontSize float64, ref geometry.Rect) (Element, error) {
	if text == "" {
		return Element{}, ErrEmptyText
	}
	pts, err := normalizePoints([]geometry.Point{anchor}, ref)
	if err != nil {
		return Element{}, err
	}
	nf, ok := geometry.NormalizeLength(fontSize, ref)
	if !ok {
		return Element{}, ErrDegenerateRect
	}
	return Element{
		ID:       uuid.New(),
		Kind:     KindText,
		Points:   pts,
		Stroke:   stroke,
		Text:     text,
		FontSize: nf,
	}, nil
}

func normalizePoints(raw []geometry.Point, ref geometry.Rect) ([]geometry.Point, error) {
	pts := make([]geometry.Point, len(raw))
	for i, p := range raw {
		n, ok := geometry.Normalize(p, ref)
		if !ok {
			return nil, ErrDegenerateRect
		}
		pts[i] = n
	}
	return pts, nil
}
