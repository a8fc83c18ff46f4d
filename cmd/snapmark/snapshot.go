package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/render"
)

// Capture seams so tests can run the command without a display.
var (
	captureScreenFn = capture.CaptureScreen
	captureWindowFn = capture.CaptureWindowDetailed
	captureRegionFn = capture.CaptureRegionRect
)

type snapshotCmd struct {
	r *root

	fs          *flag.FlagSet
	output      string
	stdout      bool
	toClipboard bool
	mode        string
	display     string
	window      string
	region      string

	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowOpacity float64

	out io.Writer
}

func (s *snapshotCmd) Program() string        { return s.r.Program() }
func (s *snapshotCmd) Template() string       { return "snapshot.txt" }
func (s *snapshotCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseSnapshotCmd(args []string, parent *root) (*snapshotCmd, error) {
	s := &snapshotCmd{r: parent.subcommand("snapshot"), out: os.Stdout}
	defShadow := render.DefaultShadowOptions()

	s.fs = flag.NewFlagSet("snapshot", flag.ContinueOnError)
	s.fs.StringVar(&s.output, "output", "", "write the image to this file (default screenshot.png)")
	s.fs.BoolVar(&s.stdout, "stdout", false, "write the PNG to standard output instead of a file")
	s.fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the image to the clipboard instead of a file")
	s.fs.StringVar(&s.mode, "mode", "", "capture mode: screen, window, or region")
	s.fs.StringVar(&s.display, "display", "", "monitor to capture, by index or name")
	s.fs.StringVar(&s.window, "window", "", "window selector for -mode window")
	s.fs.StringVar(&s.region, "region", "", "region to capture, x0,y0,x1,y1 or x,y,WxH")
	s.fs.BoolVar(&s.shadow, "shadow", false, "add a drop shadow around the capture")
	s.fs.IntVar(&s.shadowRadius, "shadow-radius", defShadow.Radius, "shadow blur radius in pixels")
	s.fs.StringVar(&s.shadowOffset, "shadow-offset", formatShadowOffset(defShadow.Offset), "shadow offset as dx,dy")
	s.fs.Float64Var(&s.shadowOpacity, "shadow-opacity", defShadow.Opacity, "shadow opacity between 0 and 1")
	s.fs.Usage = usageFunc(s)
	if err := s.fs.Parse(args); err != nil {
		return nil, err
	}

	// A bare positional mode is accepted as shorthand for -mode.
	for _, arg := range s.fs.Args() {
		switch arg {
		case "screen", "window", "region":
			if s.mode == "" {
				s.mode = arg
			}
		default:
			return nil, &UsageError{of: s}
		}
	}
	if s.mode == "" {
		s.mode = "screen"
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	img, detail, err := s.capture()
	if err != nil {
		return err
	}
	s.r.notifyCapture(detail, img)
	s.r.recordCapture(img, detail)

	if s.shadow {
		offset, err := parseShadowOffset(s.shadowOffset)
		if err != nil {
			return err
		}
		res := render.ApplyShadow(img, render.ShadowOptions{
			Radius:  s.shadowRadius,
			Offset:  offset,
			Opacity: s.shadowOpacity,
		})
		img = res.Image
	}

	switch {
	case s.toClipboard:
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		s.r.notifyCopy(detail)
		return nil
	case s.stdout:
		return png.Encode(os.Stdout, img)
	default:
		output := firstNonEmpty(s.output, "screenshot.png")
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %s: %w", output, err)
		}
		s.r.notifySave(output)
		fmt.Fprintf(s.out, "saved %s\n", output)
		return nil
	}
}

func (s *snapshotCmd) capture() (*image.RGBA, string, error) {
	switch s.mode {
	case "screen":
		img, err := captureScreenFn(s.display)
		if err != nil {
			return nil, "", fmt.Errorf("capture screen: %w", err)
		}
		return img, "screen capture", nil
	case "window":
		img, info, err := captureWindowFn(s.window)
		if err != nil {
			return nil, "", fmt.Errorf("capture window: %w", err)
		}
		return img, firstNonEmpty(info.Title, "window capture"), nil
	case "region":
		rect, err := parseRect(s.region)
		if err != nil {
			return nil, "", err
		}
		img, err := captureRegionFn(rect)
		if err != nil {
			return nil, "", fmt.Errorf("capture region: %w", err)
		}
		return img, "region capture", nil
	default:
		return nil, "", fmt.Errorf("unknown capture mode %q", s.mode)
	}
}

// parseRect parses a region given either as corner coordinates
// "x0,y0,x1,y1" or as "x,y,WxH".
func parseRect(val string) (image.Rectangle, error) {
	parts := strings.Split(val, ",")
	switch len(parts) {
	case 4:
		coords := make([]int, 4)
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return image.Rectangle{}, fmt.Errorf("invalid region %q, want x0,y0,x1,y1 or x,y,WxH", val)
			}
			coords[i] = v
		}
		rect := image.Rect(coords[0], coords[1], coords[2], coords[3])
		if rect.Empty() {
			return image.Rectangle{}, fmt.Errorf("empty region %q", val)
		}
		return rect, nil
	case 3:
		x, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		dims := strings.SplitN(strings.TrimSpace(parts[2]), "x", 2)
		if err1 != nil || err2 != nil || len(dims) != 2 {
			return image.Rectangle{}, fmt.Errorf("invalid region %q, want x0,y0,x1,y1 or x,y,WxH", val)
		}
		w, err3 := strconv.Atoi(dims[0])
		h, err4 := strconv.Atoi(dims[1])
		if err3 != nil || err4 != nil || w <= 0 || h <= 0 {
			return image.Rectangle{}, fmt.Errorf("invalid region %q, want x0,y0,x1,y1 or x,y,WxH", val)
		}
		return image.Rect(x, y, x+w, y+h), nil
	default:
		return image.Rectangle{}, fmt.Errorf("invalid region %q, want x0,y0,x1,y1 or x,y,WxH", val)
	}
}

func parseShadowOffset(val string) (image.Point, error) {
	parts := strings.SplitN(val, ",", 2)
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q, want dx,dy", val)
	}
	dx, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	dy, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q, want dx,dy", val)
	}
	return image.Pt(dx, dy), nil
}

func formatShadowOffset(p image.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
