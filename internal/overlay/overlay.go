// Package overlay shows a borderless always-on-screen window with a
// pinned image. The window stays until dismissed with Escape or q.
package overlay

import (
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run pins img in its own window and blocks until it is dismissed.
func Run(img image.Image) {
	driver.Main(func(s screen.Screen) {
		if err := Show(s, img); err != nil {
			log.Printf("overlay: %v", err)
		}
	})
}

// Show opens a pin window on an existing screen and services its
// events until the window is dismissed. It can run on its own
// goroutine next to another window's event loop.
func Show(s screen.Screen, img image.Image) error {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Title:  "Snapmark pin",
	})
	if err != nil {
		return err
	}
	defer w.Release()

	width := rgba.Bounds().Dx()
	height := rgba.Bounds().Dy()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			b, err := s.NewBuffer(image.Point{width, height})
			if err != nil {
				log.Printf("new buffer: %v", err)
				continue
			}
			draw.Draw(b.RGBA(), b.Bounds(), rgba, image.Point{}, draw.Src)
			w.Upload(image.Point{}, b, b.Bounds())
			w.Publish()
			b.Release()
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if e.Code == key.CodeEscape || e.Rune == 'q' || e.Rune == 'Q' {
				return nil
			}
		}
	}
}
