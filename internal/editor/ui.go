package editor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

const (
	titleHeight  = 24
	bottomHeight = 24
)

var toolbarWidth = 48

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Tool selects how mouse gestures on the canvas are interpreted.
type Tool int

const (
	ToolMove Tool = iota
	ToolFreehand
	ToolLine
	ToolArrow
	ToolRect
	ToolOval
	ToolText
)

// shapeKind maps a drawing tool to the element kind it produces. Move
// and Text do not produce shapes from drag gestures.
func shapeKind(t Tool) (annotation.Kind, bool) {
	switch t {
	case ToolFreehand:
		return annotation.KindFreehand, true
	case ToolLine:
		return annotation.KindLine, true
	case ToolArrow:
		return annotation.KindArrow, true
	case ToolRect:
		return annotation.KindRect, true
	case ToolOval:
		return annotation.KindOval, true
	}
	return 0, false
}

var goregularFont *opentype.Font
var textFaces []font.Face
var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	goregularFont = f
	for _, sz := range textSizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sz, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Fatalf("font face: %v", err)
		}
		textFaces = append(textFaces, face)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 48, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

func fitZoom(img *image.RGBA, winW, winH int) float64 {
	availW := winW - toolbarWidth
	availH := winH - titleHeight - bottomHeight
	zx := float64(availW) / float64(img.Bounds().Dx())
	zy := float64(availH) / float64(img.Bounds().Dy())
	if zx < zy {
		return zx
	}
	return zy
}

// imageRect returns the destination rectangle for drawing the image. It anchors
// the canvas origin just below the title bar instead of centering it so that
// the image position remains stable even when the window grows or shrinks.
func imageRect(img *image.RGBA, winW, winH int, zoom float64) image.Rectangle {
	w := int(float64(img.Bounds().Dx()) * zoom)
	h := int(float64(img.Bounds().Dy()) * zoom)
	x0 := toolbarWidth
	y0 := titleHeight
	return image.Rect(x0, y0, x0+w, y0+h)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdropCache holds a cached checkerboard backdrop.
var backdropCache *image.RGBA

// drawBackdrop fills dst with a cached checkerboard pattern.
func drawBackdrop(dst *image.RGBA, th *theme.Theme) {
	b := dst.Bounds()
	if backdropCache == nil || backdropCache.Bounds() != b {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, backdropCache.Bounds(), 8, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, b, backdropCache, image.Point{}, draw.Src)
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
// It delegates all interface methods to the wrapped Button while
// caching the result of Draw for each state.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

func buttonColors(th *theme.Theme, state ButtonState) (bg, text color.RGBA) {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover, th.ButtonTextHover
	case StatePressed:
		return th.ButtonBackgroundPress, th.ButtonTextPress
	}
	return th.ButtonBackground, th.ButtonText
}

type Shortcut struct {
	label  string
	action func()
	th     *theme.Theme
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	bg, text := buttonColors(s.th, state)
	draw.Draw(dst, s.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRectOutline(dst, s.rect, s.th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) {
	if r != s.rect {
		s.rect = r
	}
}

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// ToolButton represents a toolbar button that selects a drawing tool.
type ToolButton struct {
	label string
	tool  Tool
	th    *theme.Theme
	rect  image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, text := buttonColors(tb.th, state)
	draw.Draw(dst, tb.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) {
	if r != tb.rect {
		tb.rect = r
	}
}

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

var shortcutRects []Shortcut
var hoverShortcut = -1

var toolButtons []*CacheButton
var paletteRects []image.Rectangle
var widthRects []image.Rectangle
var textSizeRects []image.Rectangle
var hoverTool = -1
var hoverPalette = -1
var hoverWidth = -1
var hoverTextSize = -1

// keyboardAction maps a keyboard shortcut to the action name.
var keyboardAction = map[KeyShortcut]string{}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLinePx(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRectOutline(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLinePx(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLinePx(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLinePx(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLinePx(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawEllipseOutline(img *image.RGBA, cx, cy, rx, ry int, col color.Color, thick int) {
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prevX, prevY int
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Cos(angle)*float64(rx))
		y := cy + int(math.Sin(angle)*float64(ry))
		if i > 0 {
			drawLinePx(img, prevX, prevY, x, y, col, thick)
		} else {
			setThickPixel(img, x, y, thick, col)
		}
		prevX, prevY = x, y
	}
}

func drawArrowOutline(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	drawLinePx(img, x0, y0, x1, y1, col, thick)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	x2 := x1 - int(math.Cos(a1)*size)
	y2 := y1 - int(math.Sin(a1)*size)
	x3 := x1 - int(math.Cos(a2)*size)
	y3 := y1 - int(math.Sin(a2)*size)
	drawLinePx(img, x1, y1, x2, y2, col, thick)
	drawLinePx(img, x1, y1, x3, y3, col, thick)
}

func drawTitleBar(dst *image.RGBA, th *theme.Theme, width int, output string, unsaved bool) {
	draw.Draw(dst, image.Rect(0, 0, width, titleHeight),
		&image.Uniform{th.TabBackground}, image.Point{}, draw.Src)
	label := "Snapmark"
	if output != "" {
		label += "  " + output
	}
	if unsaved {
		label += " *"
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.TabText), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString(label)
}

func drawShortcuts(dst *image.RGBA, th *theme.Theme, width, height int, textMode bool, z float64, trigger func(string)) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	shortcutRects = shortcutRects[:0]
	zoomStr := fmt.Sprintf("+/-:zoom (%.0f%%)", z*100)
	var shortcuts []Shortcut
	if textMode {
		shortcuts = []Shortcut{
			{label: "Enter:place", th: th, action: func() { trigger("textdone") }},
			{label: "Esc:cancel", th: th, action: func() { trigger("textcancel") }},
		}
	} else {
		shortcuts = []Shortcut{
			{label: "^Z:undo", th: th, action: func() { trigger("undo") }},
			{label: "^Y:redo", th: th, action: func() { trigger("redo") }},
			{label: "^Bksp:clear", th: th, action: func() { trigger("clear") }},
			{label: zoomStr, th: th, action: func() { trigger("zoom") }},
			{label: "^C:copy", th: th, action: func() { trigger("copy") }},
			{label: "^S:save", th: th, action: func() { trigger("save") }},
			{label: "P:pin", th: th, action: func() { trigger("pin") }},
			{label: "Q:quit", th: th, action: func() { trigger("quit") }},
		}
	}
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		state := StateDefault
		if i == hoverShortcut {
			state = StateHover
		}
		sc.Draw(dst, state)
		shortcutRects = append(shortcutRects, *sc)
		x = sc.rect.Max.X + 8
	}
}

func drawToolbar(dst *image.RGBA, th *theme.Theme, tool Tool, colIdx, widthIdx, textSizeIdx int) {
	draw.Draw(dst, image.Rect(0, titleHeight, toolbarWidth, dst.Bounds().Max.Y),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	y := titleHeight
	for i, cb := range toolButtons {
		r := image.Rect(0, y, toolbarWidth, y+24)
		cb.SetRect(r)
		tb := cb.Button.(*ToolButton)
		state := StateDefault
		if tb.tool == tool {
			state = StatePressed
		} else if i == hoverTool {
			state = StateHover
		}
		cb.Draw(dst, state)
		y += 24
	}

	// color palette below tools
	y += 4
	x := 4
	paletteRects = paletteRects[:0]
	for i, p := range Palette() {
		rect := image.Rect(x, y, x+16, y+16)
		draw.Draw(dst, rect, &image.Uniform{p}, image.Point{}, draw.Src)
		if i == hoverPalette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == colIdx {
			drawRectOutline(dst, rect, color.White, 1)
		}
		paletteRects = append(paletteRects, rect)
		x += 18
		if x+16 > toolbarWidth {
			x = 4
			y += 18
		}
	}

	if _, ok := shapeKind(tool); ok {
		y += 4
		col := paletteColorAt(colIdx)
		widthRects = widthRects[:0]
		for i, w := range WidthOptions() {
			rect := image.Rect(0, y, toolbarWidth, y+16)
			bg, text := buttonColors(th, StateDefault)
			if i == widthIdx {
				bg, text = buttonColors(th, StatePressed)
			} else if i == hoverWidth {
				bg, text = buttonColors(th, StateHover)
			}
			draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13, Dot: fixed.P(4, y+12)}
			d.DrawString(fmt.Sprintf("%d", w))
			lineY := y + 8
			drawLinePx(dst, 30, lineY, toolbarWidth-4, lineY, col, w)
			widthRects = append(widthRects, rect)
			y += 16
		}
	}
	if tool == ToolText {
		y += 4
		col := paletteColorAt(colIdx)
		textSizeRects = textSizeRects[:0]
		for i, face := range textFaces {
			rect := image.Rect(0, y, toolbarWidth, y+24)
			bg, _ := buttonColors(th, StateDefault)
			if i == textSizeIdx {
				bg, _ = buttonColors(th, StatePressed)
			} else if i == hoverTextSize {
				bg, _ = buttonColors(th, StateHover)
			}
			draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
			baseline := y + face.Metrics().Ascent.Ceil()
			d.Dot = fixed.P(4, baseline)
			d.DrawString("Ab3")
			textSizeRects = append(textSizeRects, rect)
			y += 24
		}
	}
}

type paintState struct {
	width, height   int
	base            *image.RGBA
	elements        []annotation.Element
	zoom            float64
	offset          image.Point
	tool            Tool
	colorIdx        int
	widthIdx        int
	textSizeIdx     int
	preview         []image.Point
	previewActive   bool
	textInputActive bool
	textInput       string
	textPos         image.Point
	message         string
	messageUntil    time.Time
	unsaved         bool
	output          string
	th              *theme.Theme
	handleShortcut  func(string)
}

// drawPreview renders the in-progress gesture in window coordinates so
// a shape is visible before its release commits it to the history.
func drawPreview(dst *image.RGBA, st paintState, imgRect image.Rectangle) {
	if !st.previewActive || len(st.preview) < 2 {
		return
	}
	toScreen := func(p image.Point) image.Point {
		return image.Pt(
			imgRect.Min.X+int(float64(p.X)*st.zoom),
			imgRect.Min.Y+int(float64(p.Y)*st.zoom),
		)
	}
	col := paletteColorAt(st.colorIdx)
	thick := widthAt(st.widthIdx)
	a := toScreen(st.preview[0])
	b := toScreen(st.preview[len(st.preview)-1])
	switch st.tool {
	case ToolFreehand:
		prev := toScreen(st.preview[0])
		for _, p := range st.preview[1:] {
			sp := toScreen(p)
			drawLinePx(dst, prev.X, prev.Y, sp.X, sp.Y, col, thick)
			prev = sp
		}
	case ToolLine:
		drawLinePx(dst, a.X, a.Y, b.X, b.Y, col, thick)
	case ToolArrow:
		drawArrowOutline(dst, a.X, a.Y, b.X, b.Y, col, thick)
	case ToolRect:
		drawRectOutline(dst, image.Rect(a.X, a.Y, b.X, b.Y).Canon(), col, thick)
	case ToolOval:
		r := image.Rect(a.X, a.Y, b.X, b.Y).Canon()
		cx := (r.Min.X + r.Max.X) / 2
		cy := (r.Min.Y + r.Max.Y) / 2
		drawEllipseOutline(dst, cx, cy, r.Dx()/2, r.Dy()/2, col, thick)
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	drawBackdrop(b.RGBA(), st.th)
	if ctx.Err() != nil {
		return
	}

	composed := render.Flatten(st.base, st.elements)
	if ctx.Err() != nil {
		return
	}

	base := imageRect(composed, st.width, st.height, st.zoom)
	dst := base.Add(image.Pt(int(float64(st.offset.X)*st.zoom), int(float64(st.offset.Y)*st.zoom)))
	xdraw.NearestNeighbor.Scale(b.RGBA(), dst, composed, composed.Bounds(), draw.Over, nil)
	if ctx.Err() != nil {
		return
	}

	drawPreview(b.RGBA(), st, dst)
	if ctx.Err() != nil {
		return
	}

	drawTitleBar(b.RGBA(), st.th, st.width, st.output, st.unsaved)
	drawToolbar(b.RGBA(), st.th, st.tool, st.colorIdx, st.widthIdx, st.textSizeIdx)
	drawShortcuts(b.RGBA(), st.th, st.width, st.height, st.textInputActive, st.zoom, st.handleShortcut)

	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: b.RGBA(), Src: image.NewUniform(st.th.Foreground), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(b.RGBA(), rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		drawRectOutline(b.RGBA(), rect, st.th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	if st.textInputActive {
		d := &font.Drawer{Dst: b.RGBA(), Src: image.NewUniform(paletteColorAt(st.colorIdx)), Face: textFaces[st.textSizeIdx]}
		px := dst.Min.X + int(float64(st.textPos.X)*st.zoom)
		py := dst.Min.Y + int(float64(st.textPos.Y)*st.zoom)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.textInput + "|")
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
