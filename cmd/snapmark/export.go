package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

type exportCmd struct {
	r *root

	fs     *flag.FlagSet
	file   string
	output string
}

func (e *exportCmd) Program() string        { return e.r.Program() }
func (e *exportCmd) Template() string       { return "export.txt" }
func (e *exportCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseExportCmd(args []string, parent *root) (*exportCmd, error) {
	e := &exportCmd{r: parent.subcommand("export")}
	e.fs = flag.NewFlagSet("export", flag.ContinueOnError)
	e.fs.StringVar(&e.file, "file", "", "export this image instead of the latest capture")
	e.fs.StringVar(&e.output, "output", "", "PDF file to write (default derives from the input name)")
	e.fs.Usage = usageFunc(e)
	if err := e.fs.Parse(args); err != nil {
		return nil, err
	}
	if e.fs.NArg() == 1 && e.file == "" {
		e.file = e.fs.Arg(0)
	} else if e.fs.NArg() > 0 {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	source := e.file
	if source == "" {
		store, err := e.r.historyStore()
		if err != nil {
			return fmt.Errorf("open capture history: %w", err)
		}
		if store == nil {
			return fmt.Errorf("capture history is disabled; pass -file")
		}
		entry, err := store.Latest()
		if err != nil {
			return fmt.Errorf("no capture to export: %w", err)
		}
		source = entry.Path
	}

	img, err := loadImage(source)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	output := e.output
	if output == "" {
		output = strings.TrimSuffix(source, ".png") + ".pdf"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()
	maxW := pageW - left - right
	maxH := pageH - top - bottom

	// Fit the image inside the printable area, preserving aspect.
	w := maxW
	h := w * float64(img.Bounds().Dy()) / float64(img.Bounds().Dx())
	if h > maxH {
		h = maxH
		w = h * float64(img.Bounds().Dx()) / float64(img.Bounds().Dy())
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", opts, &buf)
	pdf.ImageOptions("capture", left, top, w, h, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	e.r.notifySave(output)
	fmt.Printf("exported %s\n", output)
	return nil
}
