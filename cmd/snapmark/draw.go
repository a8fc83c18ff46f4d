package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/render"
)

type drawCmd struct {
	r *root

	fs          *flag.FlagSet
	file        string
	output      string
	colorName   string
	width       int
	fontSize    float64
	toClipboard bool

	shape  string
	coords []int
	text   string
}

func (d *drawCmd) Program() string        { return d.r.Program() }
func (d *drawCmd) Template() string       { return "draw.txt" }
func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

// Flags that take a value, for splitting flags out of a mixed
// flag/positional argument list.
var drawFlagNames = map[string]bool{
	"file":      true,
	"output":    true,
	"color":     true,
	"width":     true,
	"font-size": true,
}

var drawBoolFlags = map[string]bool{
	"to-clipboard": true,
}

// splitDrawArgs separates flag arguments from positionals so flags
// may appear after the shape and its coordinates.
func splitDrawArgs(args []string) (flags []string, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
			flags = append(flags, arg)
			continue
		}
		flags = append(flags, arg)
		if drawFlagNames[name] && !drawBoolFlags[name] && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return flags, positional
}

func parseDrawCmd(args []string, parent *root) (*drawCmd, error) {
	d := &drawCmd{r: parent.subcommand("draw")}
	d.fs = flag.NewFlagSet("draw", flag.ContinueOnError)
	d.fs.StringVar(&d.file, "file", "", "image to draw on")
	d.fs.StringVar(&d.output, "output", "", "output file (default overwrites the input)")
	d.fs.StringVar(&d.colorName, "color", "red", "stroke color")
	d.fs.IntVar(&d.width, "width", 4, "stroke width in pixels")
	d.fs.Float64Var(&d.fontSize, "font-size", editor.DefaultTextSize(), "text size in points")
	d.fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of a file")
	d.fs.Usage = usageFunc(d)

	flagArgs, positional := splitDrawArgs(args)
	if err := d.fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positional) == 0 {
		return nil, &UsageError{of: d}
	}
	d.shape = positional[0]
	rest := positional[1:]

	switch d.shape {
	case "line", "arrow", "rect", "oval":
		coords, err := expectInts(rest, 4)
		if err != nil {
			return nil, err
		}
		d.coords = coords
	case "freehand":
		if len(rest) < 4 || len(rest)%2 != 0 {
			return nil, fmt.Errorf("freehand needs an even number of coordinates, at least 4")
		}
		coords, err := expectInts(rest, len(rest))
		if err != nil {
			return nil, err
		}
		d.coords = coords
	case "text":
		coords, err := expectInts(rest, 2)
		if err != nil {
			return nil, err
		}
		d.coords = coords
		d.text = strings.Join(rest[2:], " ")
		if d.text == "" {
			return nil, fmt.Errorf("text shape needs a string after x y")
		}
	default:
		return nil, fmt.Errorf("unknown shape %q", d.shape)
	}
	if d.file == "" {
		return nil, fmt.Errorf("draw needs -file")
	}
	return d, nil
}

func expectInts(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", n, len(args))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func (d *drawCmd) Run() error {
	img, err := loadImage(d.file)
	if err != nil {
		return err
	}
	ref := geometry.RectFromImage(img.Bounds())
	col, _, err := parseColor(d.colorName)
	if err != nil {
		return err
	}

	var el annotation.Element
	switch d.shape {
	case "line", "arrow", "rect", "oval":
		kind, _ := annotation.ParseKind(d.shape)
		start := geometry.Point{X: float64(d.coords[0]), Y: float64(d.coords[1])}
		end := geometry.Point{X: float64(d.coords[2]), Y: float64(d.coords[3])}
		el, err = annotation.NewShape(kind, start, end, col, float64(d.width), ref)
	case "freehand":
		pts := make([]geometry.Point, 0, len(d.coords)/2)
		for i := 0; i+1 < len(d.coords); i += 2 {
			pts = append(pts, geometry.Point{X: float64(d.coords[i]), Y: float64(d.coords[i+1])})
		}
		el, err = annotation.NewFreehand(pts, col, float64(d.width), ref)
	case "text":
		anchor := geometry.Point{X: float64(d.coords[0]), Y: float64(d.coords[1])}
		el, err = annotation.NewText(d.text, anchor, col, d.fontSize, ref)
	}
	if err != nil {
		return fmt.Errorf("draw %s: %w", d.shape, err)
	}

	flat := render.Flatten(img, []annotation.Element{el})
	if d.toClipboard {
		if err := clipboard.WriteImage(flat); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		d.r.notifyCopy("marked-up image")
		return nil
	}
	output := firstNonEmpty(d.output, d.file)
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := png.Encode(f, flat); err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}
	d.r.notifySave(output)
	return nil
}

// parseColor resolves a palette name, an SVG 1.1 color name, or a
// #rrggbb hex value. The returned name is empty for hex colors.
func parseColor(val string) (color.RGBA, string, error) {
	lower := strings.ToLower(strings.TrimSpace(val))
	for _, pc := range editor.PaletteColors() {
		if strings.ToLower(pc.Name) == lower {
			return pc.Color, pc.Name, nil
		}
	}
	if c, ok := colornames.Map[lower]; ok {
		return c, titleCase(lower), nil
	}
	if strings.HasPrefix(lower, "#") && len(lower) == 7 {
		v, err := strconv.ParseUint(lower[1:], 16, 32)
		if err == nil {
			return color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			}, "", nil
		}
	}
	return color.RGBA{}, "", fmt.Errorf("unknown color %q", val)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
