package render

import (
	"log"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontParsed *truetype.Font
	faceCache  sync.Map // int size -> font.Face
)

func loadFont() *truetype.Font {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse embedded font: %v", err)
			return
		}
		fontParsed = f
	})
	return fontParsed
}

// faceForSize returns a cached face for the given pixel size, rounded
// to whole points. Falls back to the fixed 7x13 face if the embedded
// font fails to parse.
func faceForSize(size float64) font.Face {
	pt := int(size + 0.5)
	if pt < 4 {
		pt = 4
	}
	if cached, ok := faceCache.Load(pt); ok {
		return cached.(font.Face)
	}
	f := loadFont()
	if f == nil {
		return basicfont.Face7x13
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(pt)})
	faceCache.Store(pt, face)
	return face
}
