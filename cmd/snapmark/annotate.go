package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
)

type annotateCmd struct {
	r *root

	fs      *flag.FlagSet
	mode    string
	file    string
	output  string
	display string
	window  string
	region  string
	color   string
	width   int
}

func (a *annotateCmd) Program() string        { return a.r.Program() }
func (a *annotateCmd) Template() string       { return "annotate.txt" }
func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseAnnotateCmd(args []string, parent *root) (*annotateCmd, error) {
	a := &annotateCmd{r: parent.subcommand("annotate")}
	a.fs = flag.NewFlagSet("annotate", flag.ContinueOnError)
	a.fs.StringVar(&a.mode, "mode", "", "source: screen, window, region, file, or clipboard")
	a.fs.StringVar(&a.file, "file", "", "open this image instead of capturing")
	a.fs.StringVar(&a.output, "output", "", "file Ctrl+S writes to (default annotated.png)")
	a.fs.StringVar(&a.display, "display", "", "monitor to capture, by index or name")
	a.fs.StringVar(&a.window, "window", "", "window selector for -mode window")
	a.fs.StringVar(&a.region, "region", "", "region to capture, x0,y0,x1,y1 or x,y,WxH")
	a.fs.StringVar(&a.color, "color", "", "initial drawing color")
	a.fs.IntVar(&a.width, "width", 0, "initial stroke width in pixels")
	a.fs.Usage = usageFunc(a)
	if err := a.fs.Parse(args); err != nil {
		return nil, err
	}

	for _, arg := range a.fs.Args() {
		switch arg {
		case "screen", "window", "region", "file", "clipboard":
			if a.mode == "" {
				a.mode = arg
			}
		default:
			// A bare path positional opens a file.
			if a.file == "" && (strings.ContainsRune(arg, '.') || strings.ContainsRune(arg, '/')) {
				a.file = arg
				continue
			}
			return nil, &UsageError{of: a}
		}
	}
	if a.mode == "" {
		if a.file != "" {
			a.mode = "file"
		} else {
			a.mode = "screen"
		}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	var (
		img    *image.RGBA
		source string
		err    error
	)
	switch a.mode {
	case "screen":
		img, err = captureScreenFn(a.display)
		source = "screen capture"
	case "window":
		var winInfo capture.WindowInfo
		img, winInfo, err = captureWindowFn(a.window)
		source = firstNonEmpty(winInfo.Title, "window capture")
	case "region":
		rect, rerr := parseRect(a.region)
		if rerr != nil {
			return rerr
		}
		img, err = captureRegionFn(rect)
		source = "region capture"
	case "file":
		if a.file == "" {
			return &UsageError{of: a}
		}
		img, err = loadImage(a.file)
		source = a.file
	case "clipboard":
		img, err = clipboardImage()
		source = "clipboard image"
	default:
		return fmt.Errorf("unknown annotate mode %q", a.mode)
	}
	if err != nil {
		return fmt.Errorf("annotate source: %w", err)
	}
	if a.mode != "file" && a.mode != "clipboard" {
		a.r.notifyCapture(source, img)
		a.r.recordCapture(img, source)
	}

	store, serr := a.r.historyStore()
	if serr != nil {
		fmt.Fprintf(os.Stderr, "warning: capture history unavailable: %v\n", serr)
	}

	colorIdx := editor.DefaultColorIndex()
	if a.color != "" {
		col, name, cerr := parseColor(a.color)
		if cerr != nil {
			return cerr
		}
		colorIdx = editor.EnsurePaletteColor(col, name)
	}
	widthIdx := editor.DefaultWidthIndex()
	if a.width > 0 {
		widthIdx = editor.EnsureWidth(a.width)
	}

	opts := []editor.Option{
		editor.WithImage(img),
		editor.WithOutput(firstNonEmpty(a.output, "annotated.png")),
		editor.WithTheme(a.r.activeTheme),
		editor.WithColorIndex(colorIdx),
		editor.WithWidthIndex(widthIdx),
		editor.WithNotifier(a.r.notifier),
		editor.WithSource(source),
	}
	if a.r.config != nil && a.r.config.Editor.UndoDepth > 0 {
		opts = append(opts, editor.WithUndoDepth(a.r.config.Editor.UndoDepth))
	}
	if store != nil {
		opts = append(opts, editor.WithHistoryStore(store))
	}
	editor.New(opts...).Run()
	return nil
}

// clipboardImage reads the current clipboard image into RGBA.
func clipboardImage() (*image.RGBA, error) {
	src, err := clipboard.ReadImage()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

// loadImage decodes a PNG or JPEG file into RGBA.
func loadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}
