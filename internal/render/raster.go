// Package render turns annotation elements into pixels and handles
// image post-processing for export.
package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

// arrowheadAngle is the half-spread of the arrowhead triangle.
const arrowheadAngle = math.Pi / 6

// Rasterize draws els bottom to top onto dc. The context's origin is
// taken as the top-left of target; element geometry is denormalized
// against target's size.
func Rasterize(dc *gg.Context, els []annotation.Element, target image.Rectangle) {
	rect := geometry.Rect{W: float64(target.Dx()), H: float64(target.Dy())}
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	for _, el := range els {
		drawElement(dc, el, rect)
	}
}

// Overlay renders els onto a fresh transparent canvas sized to target.
func Overlay(els []annotation.Element, target image.Rectangle) *image.RGBA {
	dc := gg.NewContext(target.Dx(), target.Dy())
	Rasterize(dc, els, target)
	out := image.NewRGBA(target)
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}

// Flatten composes els over src at src's pixel bounds. src is not
// modified.
func Flatten(src image.Image, els []annotation.Element) *image.RGBA {
	bounds := src.Bounds()
	base := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(base, base.Bounds(), src, bounds.Min, draw.Src)
	dc := gg.NewContextForRGBA(base)
	Rasterize(dc, els, bounds)
	return base
}

func drawElement(dc *gg.Context, el annotation.Element, rect geometry.Rect) {
	if len(el.Points) == 0 {
		return
	}
	pts := make([]geometry.Point, len(el.Points))
	for i, p := range el.Points {
		pts[i] = geometry.Denormalize(p, rect)
	}
	width := geometry.DenormalizeLength(el.StrokeWidth, rect)
	dc.SetRGBA255(int(el.Stroke.R), int(el.Stroke.G), int(el.Stroke.B), int(el.Stroke.A))
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	switch el.Kind {
	case annotation.KindLine:
		if len(pts) < 2 {
			return
		}
		dc.DrawLine(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		dc.Stroke()
	case annotation.KindArrow:
		if len(pts) < 2 {
			return
		}
		drawArrow(dc, pts[0], pts[1], width)
	case annotation.KindRect:
		if len(pts) < 2 {
			return
		}
		x, y, w, h := cornerRect(pts[0], pts[1])
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	case annotation.KindOval:
		if len(pts) < 2 {
			return
		}
		x, y, w, h := cornerRect(pts[0], pts[1])
		dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
		dc.Stroke()
	case annotation.KindFreehand:
		if len(pts) < 2 {
			return
		}
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	case annotation.KindText:
		size := geometry.DenormalizeLength(el.FontSize, rect)
		dc.SetFontFace(faceForSize(size))
		dc.DrawString(el.Text, pts[0].X, pts[0].Y)
	}
}

// drawArrow strokes the shaft and fills a triangular head at the end
// point, swept arrowheadAngle to each side of the shaft direction.
func drawArrow(dc *gg.Context, from, to geometry.Point, width float64) {
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	head := 6 + 2*width
	left := geometry.Point{
		X: to.X - head*math.Cos(angle-arrowheadAngle),
		Y: to.Y - head*math.Sin(angle-arrowheadAngle),
	}
	right := geometry.Point{
		X: to.X - head*math.Cos(angle+arrowheadAngle),
		Y: to.Y - head*math.Sin(angle+arrowheadAngle),
	}
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
}

func cornerRect(a, b geometry.Point) (x, y, w, h float64) {
	x = math.Min(a.X, b.X)
	y = math.Min(a.Y, b.Y)
	w = math.Abs(b.X - a.X)
	h = math.Abs(b.Y - a.Y)
	return
}
