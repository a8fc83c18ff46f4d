package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/snapmark/internal/overlay"
)

type pinCmd struct {
	r *root

	fs            *flag.FlagSet
	file          string
	fromClipboard bool
}

func (p *pinCmd) Program() string        { return p.r.Program() }
func (p *pinCmd) Template() string       { return "pin.txt" }
func (p *pinCmd) FlagSet() *flag.FlagSet { return p.fs }

func parsePinCmd(args []string, parent *root) (*pinCmd, error) {
	p := &pinCmd{r: parent.subcommand("pin")}
	p.fs = flag.NewFlagSet("pin", flag.ContinueOnError)
	p.fs.StringVar(&p.file, "file", "", "pin this image instead of the latest capture")
	p.fs.BoolVar(&p.fromClipboard, "clipboard", false, "pin the clipboard image instead of the latest capture")
	p.fs.Usage = usageFunc(p)
	if err := p.fs.Parse(args); err != nil {
		return nil, err
	}
	if p.fs.NArg() == 1 && p.file == "" {
		p.file = p.fs.Arg(0)
	} else if p.fs.NArg() > 0 {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func (p *pinCmd) Run() error {
	var img image.Image
	if p.file != "" {
		loaded, err := loadImage(p.file)
		if err != nil {
			return err
		}
		img = loaded
	} else if p.fromClipboard {
		loaded, err := clipboardImage()
		if err != nil {
			return err
		}
		img = loaded
	} else {
		store, err := p.r.historyStore()
		if err != nil {
			return fmt.Errorf("open capture history: %w", err)
		}
		if store == nil {
			return fmt.Errorf("capture history is disabled; pass -file")
		}
		entry, err := store.Latest()
		if err != nil {
			return fmt.Errorf("no capture to pin: %w", err)
		}
		loaded, err := loadImage(entry.Path)
		if err != nil {
			return err
		}
		img = loaded
	}
	overlay.Run(img)
	return nil
}
