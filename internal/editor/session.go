// Package editor runs the interactive annotation window. Marks made
// with the drawing tools are committed to an undoable history and only
// flattened into the image on save, copy or pin.
package editor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/overlay"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

// Session holds the state of one annotation window over one image.
type Session struct {
	Image    *image.RGBA
	Output   string
	ColorIdx int
	WidthIdx int

	theme    *theme.Theme
	hist     *annotation.History
	store    *history.Store
	notifier *notify.Notifier
	source   string

	updateCh    chan struct{}
	sendControl func(controlEvent)

	settingsMu sync.Mutex
	settingsFn func(colorIdx, widthIdx int)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithImage sets the image being annotated.
func WithImage(img *image.RGBA) Option { return func(s *Session) { s.Image = img } }

// WithOutput sets the output file path used when saving.
func WithOutput(out string) Option { return func(s *Session) { s.Output = out } }

// WithTheme sets the UI theme.
func WithTheme(th *theme.Theme) Option { return func(s *Session) { s.theme = th } }

// WithColorIndex sets the initial palette index for drawing tools.
func WithColorIndex(idx int) Option { return func(s *Session) { s.ColorIdx = idx } }

// WithWidthIndex sets the initial stroke width index for drawing tools.
func WithWidthIndex(idx int) Option { return func(s *Session) { s.WidthIdx = idx } }

// WithUndoDepth bounds the session's undo and redo stacks.
func WithUndoDepth(n int) Option {
	return func(s *Session) { s.hist = annotation.NewHistory(annotation.WithDepth(n)) }
}

// WithHistoryStore records saved images in the capture history.
func WithHistoryStore(st *history.Store) Option { return func(s *Session) { s.store = st } }

// WithNotifier sends desktop notifications on save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(s *Session) { s.notifier = n } }

// WithSource labels history entries recorded by this session.
func WithSource(src string) Option { return func(s *Session) { s.source = src } }

// WithSettingsListener registers a callback for when drawing settings change.
func WithSettingsListener(fn func(colorIdx, widthIdx int)) Option {
	return func(s *Session) { s.settingsFn = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(s *Session) { s.onClose = fn } }

// New creates a Session with the provided options.
func New(opts ...Option) *Session {
	s := &Session{
		ColorIdx: defaultColorIndex,
		WidthIdx: defaultWidthIndex,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	if s.hist == nil {
		s.hist = annotation.NewHistory()
	}
	if s.theme == nil {
		s.theme = theme.Default()
	}
	s.ColorIdx = clampColorIndex(s.ColorIdx)
	s.WidthIdx = clampWidthIndex(s.WidthIdx)
	return s
}

// History exposes the session's annotation history so marks can be
// committed from outside the window, for instance by the interactive
// command prompt.
func (s *Session) History() *annotation.History { return s.hist }

type controlEvent struct {
	ColorIdx *int
	WidthIdx *int
}

// NotifyImageChanged requests a repaint of the UI when the annotation
// state mutates outside the event loop.
func (s *Session) NotifyImageChanged() {
	if s.updateCh == nil {
		return
	}
	select {
	case s.updateCh <- struct{}{}:
	default:
	}
}

// ApplySettings synchronizes drawing settings between the CLI and UI.
func (s *Session) ApplySettings(colorIdx, widthIdx int) {
	colorIdx = clampColorIndex(colorIdx)
	widthIdx = clampWidthIndex(widthIdx)

	s.settingsMu.Lock()
	s.ColorIdx = colorIdx
	s.WidthIdx = widthIdx
	fn := s.settingsFn
	sender := s.sendControl
	s.settingsMu.Unlock()

	if sender != nil {
		ci := colorIdx
		wi := widthIdx
		sender(controlEvent{ColorIdx: &ci, WidthIdx: &wi})
	}
	if fn != nil {
		fn(colorIdx, widthIdx)
	}
}

func (s *Session) applySettingsFromUI(colorIdx, widthIdx int) {
	colorIdx = clampColorIndex(colorIdx)
	widthIdx = clampWidthIndex(widthIdx)

	s.settingsMu.Lock()
	s.ColorIdx = colorIdx
	s.WidthIdx = widthIdx
	fn := s.settingsFn
	s.settingsMu.Unlock()

	if fn != nil {
		fn(colorIdx, widthIdx)
	}
}

func (s *Session) setControlSender(fn func(controlEvent)) {
	s.settingsMu.Lock()
	s.sendControl = fn
	s.settingsMu.Unlock()
}

func (s *Session) notifyClose() {
	s.closeOnce.Do(func() {
		s.setControlSender(nil)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// gestureElement turns a finished drag gesture into an element. The
// points are raw pixel coordinates against ref.
func gestureElement(tool Tool, pts []image.Point, col color.RGBA, width float64, ref geometry.Rect) (annotation.Element, error) {
	kind, ok := shapeKind(tool)
	if !ok {
		return annotation.Element{}, fmt.Errorf("tool has no shape")
	}
	if kind == annotation.KindFreehand {
		gpts := make([]geometry.Point, len(pts))
		for i, p := range pts {
			gpts[i] = geometry.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		return annotation.NewFreehand(gpts, col, width, ref)
	}
	if len(pts) < 2 {
		return annotation.Element{}, annotation.ErrTooFewPoints
	}
	start := geometry.Point{X: float64(pts[0].X), Y: float64(pts[0].Y)}
	end := geometry.Point{X: float64(pts[len(pts)-1].X), Y: float64(pts[len(pts)-1].Y)}
	return annotation.NewShape(kind, start, end, col, width, ref)
}

// Run executes the UI loop using shiny's driver.
func (s *Session) Run() { driver.Main(s.Main) }

func (s *Session) Main(scr screen.Screen) {
	rgba := s.Image
	output := s.Output
	th := s.theme
	hist := s.hist
	colorIdx := clampColorIndex(s.ColorIdx)
	widthIdx := clampWidthIndex(s.WidthIdx)
	textSizeIdx := 0
	ref := geometry.RectFromImage(rgba.Bounds())

	// Ensure the toolbar is wide enough to fit the program title and all
	// tool button labels so the UI contents are not clipped on start up.
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("Snapmark").Ceil() + 8 // padding
	toolLabels := []string{"M:Move", "B:Draw", "L:Line", "A:Arrow", "X:Rect", "O:Oval", "T:Text"}
	for _, lbl := range toolLabels {
		w := d.MeasureString(lbl).Ceil() + 8
		if w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}

	width := rgba.Bounds().Dx() + toolbarWidth
	height := rgba.Bounds().Dy() + titleHeight + bottomHeight
	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Snapmark"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer s.notifyClose()

	if s.updateCh != nil {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-s.updateCh:
					w.Send(paint.Event{})
				case <-done:
					return
				}
			}
		}()
		defer close(done)
	}

	s.setControlSender(func(ev controlEvent) { w.Send(ev) })

	zoom := fitZoom(rgba, width, height)
	offset := image.Point{}

	var active bool
	var gesture []image.Point
	var moveStart image.Point
	var moveOffset image.Point
	var message string
	var messageUntil time.Time
	var unsaved bool
	var textInputActive bool
	var textInput string
	var textPos image.Point
	tool := ToolMove

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, scr, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	s.applySettingsFromUI(colorIdx, widthIdx)

	showMessage := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	flatten := func() *image.RGBA {
		return render.Flatten(rgba, hist.Elements())
	}

	keyboardAction = map[KeyShortcut]string{}
	actions := map[string]func(){}

	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := clipboard.WriteImage(flatten()); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		if s.notifier != nil {
			s.notifier.Copy("annotated image")
		}
		showMessage("image copied to clipboard")
	})

	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if output == "" {
			showMessage("no output file set")
			return
		}
		out, err := os.Create(output)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		flat := flatten()
		if err := png.Encode(out, flat); err != nil {
			log.Printf("save: %v", err)
			if cerr := out.Close(); cerr != nil {
				log.Printf("save: closing file: %v", cerr)
			}
			return
		}
		if err := out.Close(); err != nil {
			log.Printf("save: closing file: %v", err)
			return
		}
		if s.store != nil {
			if _, err := s.store.Add(flat, s.source); err != nil {
				log.Printf("record history: %v", err)
			}
		}
		if s.notifier != nil {
			s.notifier.Save(output)
		}
		unsaved = false
		showMessage(fmt.Sprintf("saved %s", output))
	})

	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if hist.Undo() {
			unsaved = true
		}
	})

	register("redo", shortcutList{{Rune: 'y', Modifiers: key.ModControl}}, func() {
		if hist.Redo() {
			unsaved = true
		}
	})

	register("clear", shortcutList{{Code: key.CodeDeleteBackspace, Modifiers: key.ModControl}}, func() {
		if hist.Len() == 0 {
			return
		}
		hist.Clear()
		unsaved = true
		showMessage("annotations cleared")
	})

	register("pin", shortcutList{{Rune: 'p'}}, func() {
		flat := flatten()
		go func() {
			if err := overlay.Show(scr, flat); err != nil {
				log.Printf("pin: %v", err)
			}
		}()
		showMessage("pinned")
	})

	register("textdone", shortcutList{{Code: key.CodeReturnEnter}}, func() {
		anchor := geometry.Point{X: float64(textPos.X), Y: float64(textPos.Y)}
		el, err := annotation.NewText(textInput, anchor, paletteColorAt(colorIdx), textSizes[textSizeIdx], ref)
		if err == nil {
			hist.Commit(el)
			unsaved = true
		}
		textInputActive = false
	})

	register("textcancel", shortcutList{{Code: key.CodeEscape}}, func() {
		textInputActive = false
	})

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	toolButtons = []*CacheButton{
		{Button: &ToolButton{label: "M:Move", tool: ToolMove, th: th}},
		{Button: &ToolButton{label: "B:Draw", tool: ToolFreehand, th: th}},
		{Button: &ToolButton{label: "L:Line", tool: ToolLine, th: th}},
		{Button: &ToolButton{label: "A:Arrow", tool: ToolArrow, th: th}},
		{Button: &ToolButton{label: "X:Rect", tool: ToolRect, th: th}},
		{Button: &ToolButton{label: "O:Oval", tool: ToolOval, th: th}},
		{Button: &ToolButton{label: "T:Text", tool: ToolText, th: th}},
	}
	for _, cb := range toolButtons {
		tb := cb.Button.(*ToolButton)
		t := tb
		tb.onSelect = func() {
			tool = t.tool
			active = false
			gesture = nil
		}
	}

	selectTool := func(t Tool) {
		tool = t
		active = false
		gesture = nil
		w.Send(paint.Event{})
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case controlEvent:
			if e.ColorIdx != nil {
				colorIdx = clampColorIndex(*e.ColorIdx)
			}
			if e.WidthIdx != nil {
				widthIdx = clampWidthIndex(*e.WidthIdx)
			}
			s.applySettingsFromUI(colorIdx, widthIdx)
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := paintState{
				width:           width,
				height:          height,
				base:            rgba,
				elements:        hist.Elements(),
				zoom:            zoom,
				offset:          offset,
				tool:            tool,
				colorIdx:        colorIdx,
				widthIdx:        widthIdx,
				textSizeIdx:     textSizeIdx,
				preview:         append([]image.Point(nil), gesture...),
				previewActive:   active && tool != ToolMove,
				textInputActive: textInputActive,
				textInput:       textInput,
				textPos:         textPos,
				message:         message,
				messageUntil:    messageUntil,
				unsaved:         unsaved,
				output:          output,
				th:              th,
				handleShortcut:  handleShortcut,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if int(e.Y) >= height-bottomHeight {
				p := image.Point{int(e.X), int(e.Y)}
				hoverShortcut = -1
				for i, sc := range shortcutRects {
					if p.In(sc.rect) {
						hoverShortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							sc.Activate()
						}
						break
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}
			if int(e.Y) < titleHeight {
				continue
			}

			if int(e.X) < toolbarWidth {
				pos := int(e.Y) - titleHeight
				idx := pos / 24
				if idx < len(toolButtons) {
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						toolButtons[idx].Activate()
						w.Send(paint.Event{})
					}
					hoverTool = idx
					if e.Direction == mouse.DirNone {
						w.Send(paint.Event{})
					}
					continue
				}
				pos -= len(toolButtons) * 24
				pos -= 4
				paletteCols := toolbarWidth / 18
				rows := (paletteLen() + paletteCols - 1) / paletteCols
				paletteHeight := rows * 18
				if pos >= 0 && pos < paletteHeight {
					colX := (int(e.X) - 4) / 18
					colY := pos / 18
					cidx := colY*paletteCols + colX
					if cidx >= 0 && cidx < paletteLen() {
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							colorIdx = cidx
							s.applySettingsFromUI(colorIdx, widthIdx)
							w.Send(paint.Event{})
						}
						hoverPalette = cidx
						if e.Direction == mouse.DirNone {
							w.Send(paint.Event{})
						}
						continue
					}
				}
				pos -= paletteHeight
				pos -= 4
				if _, ok := shapeKind(tool); ok && pos >= 0 {
					widx := pos / 16
					if widx >= 0 && widx < widthsLen() {
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							widthIdx = widx
							s.applySettingsFromUI(colorIdx, widthIdx)
							w.Send(paint.Event{})
						}
						hoverWidth = widx
						if e.Direction == mouse.DirNone {
							w.Send(paint.Event{})
						}
						continue
					}
				} else if tool == ToolText && pos >= 0 {
					idx := pos / 24
					if idx >= 0 && idx < len(textFaces) {
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							textSizeIdx = idx
							w.Send(paint.Event{})
						}
						hoverTextSize = idx
						if e.Direction == mouse.DirNone {
							w.Send(paint.Event{})
						}
						continue
					}
				}
				if e.Direction == mouse.DirNone {
					hoverTool = -1
					hoverPalette = -1
					hoverWidth = -1
					hoverTextSize = -1
					w.Send(paint.Event{})
				}
				continue
			}

			baseRect := imageRect(rgba, width, height, zoom)
			mx := int((float64(e.X)-float64(baseRect.Min.X))/zoom) - offset.X
			my := int((float64(e.Y)-float64(baseRect.Min.Y))/zoom) - offset.Y

			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				switch tool {
				case ToolMove:
					active = true
					moveStart = image.Point{int(e.X), int(e.Y)}
					moveOffset = offset
				case ToolText:
					if textInputActive {
						textPos = image.Point{mx, my}
					} else {
						textInputActive = true
						textInput = ""
						textPos = image.Point{mx, my}
					}
					w.Send(paint.Event{})
				default:
					active = true
					gesture = []image.Point{{mx, my}}
				}
				continue
			}

			if active && e.Direction == mouse.DirNone {
				switch tool {
				case ToolMove:
					dx := int(float64(int(e.X)-moveStart.X) / zoom)
					dy := int(float64(int(e.Y)-moveStart.Y) / zoom)
					offset = moveOffset.Add(image.Pt(dx, dy))
				case ToolFreehand:
					gesture = append(gesture, image.Point{mx, my})
				case ToolLine, ToolArrow, ToolRect, ToolOval:
					if len(gesture) == 1 {
						gesture = append(gesture, image.Point{mx, my})
					} else if len(gesture) >= 2 {
						gesture[len(gesture)-1] = image.Point{mx, my}
					}
				}
				w.Send(paint.Event{})
				continue
			}

			if active && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease {
				if tool == ToolMove {
					dx := int(float64(int(e.X)-moveStart.X) / zoom)
					dy := int(float64(int(e.Y)-moveStart.Y) / zoom)
					offset = moveOffset.Add(image.Pt(dx, dy))
				} else if _, ok := shapeKind(tool); ok {
					pts := append(gesture, image.Point{mx, my})
					el, err := gestureElement(tool, pts, paletteColorAt(colorIdx), float64(widthAt(widthIdx)), ref)
					if err == nil {
						hist.Commit(el)
						unsaved = true
					}
				}
				active = false
				gesture = nil
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if textInputActive {
				switch e.Code {
				case key.CodeReturnEnter:
					handleShortcut("textdone")
					continue
				case key.CodeEscape:
					handleShortcut("textcancel")
					continue
				case key.CodeDeleteBackspace:
					if len(textInput) > 0 {
						textInput = textInput[:len(textInput)-1]
						w.Send(paint.Event{})
					}
					continue
				}
				if e.Rune > 0 {
					textInput += string(e.Rune)
					w.Send(paint.Event{})
				}
				continue
			}
			// Registered shortcuts carry either a rune or a key code,
			// never both; try each form.
			byRune := KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}
			byCode := KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}
			if action, ok := keyboardAction[byRune]; ok {
				handleShortcut(action)
				continue
			}
			if action, ok := keyboardAction[byCode]; ok {
				handleShortcut(action)
				continue
			}
			switch e.Rune {
			case 'm', 'M':
				selectTool(ToolMove)
			case 'b', 'B':
				selectTool(ToolFreehand)
			case 'l', 'L':
				selectTool(ToolLine)
			case 'a', 'A':
				selectTool(ToolArrow)
			case 'x', 'X':
				selectTool(ToolRect)
			case 'o', 'O':
				selectTool(ToolOval)
			case 't', 'T':
				selectTool(ToolText)
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			case '+', '=':
				zoom *= 1.25
				w.Send(paint.Event{})
			case '-':
				zoom /= 1.25
				if zoom < 0.1 {
					zoom = 0.1
				}
				w.Send(paint.Event{})
			case -1:
				if tool != ToolMove {
					continue
				}
				switch e.Code {
				case key.CodeLeftArrow:
					offset.X -= 10
				case key.CodeRightArrow:
					offset.X += 10
				case key.CodeUpArrow:
					offset.Y -= 10
				case key.CodeDownArrow:
					offset.Y += 10
				default:
					continue
				}
				w.Send(paint.Event{})
			}
		}
	}
}
