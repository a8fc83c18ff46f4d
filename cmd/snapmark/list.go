package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/editor"
)

type monitorsCmd struct {
	r   *root
	fs  *flag.FlagSet
	out io.Writer
}

func (m *monitorsCmd) Program() string        { return m.r.Program() }
func (m *monitorsCmd) Template() string       { return "monitors.txt" }
func (m *monitorsCmd) FlagSet() *flag.FlagSet { return m.fs }

func parseMonitorsCmd(args []string, parent *root) (*monitorsCmd, error) {
	m := &monitorsCmd{r: parent.subcommand("monitors"), out: os.Stdout}
	m.fs = flag.NewFlagSet("monitors", flag.ContinueOnError)
	m.fs.Usage = usageFunc(m)
	if err := m.fs.Parse(args); err != nil {
		return nil, err
	}
	if m.fs.NArg() > 0 {
		return nil, &UsageError{of: m}
	}
	return m, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := capture.ListMonitors()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	for _, mon := range monitors {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		fmt.Fprintf(m.out, "%s %d: %dx%d+%d+%d  %s\n", marker, mon.Index,
			mon.Rect.Dx(), mon.Rect.Dy(), mon.Rect.Min.X, mon.Rect.Min.Y, mon.Name)
	}
	return nil
}

type windowsCmd struct {
	r   *root
	fs  *flag.FlagSet
	out io.Writer
}

func (w *windowsCmd) Program() string        { return w.r.Program() }
func (w *windowsCmd) Template() string       { return "windows.txt" }
func (w *windowsCmd) FlagSet() *flag.FlagSet { return w.fs }

func parseWindowsCmd(args []string, parent *root) (*windowsCmd, error) {
	w := &windowsCmd{r: parent.subcommand("windows"), out: os.Stdout}
	w.fs = flag.NewFlagSet("windows", flag.ContinueOnError)
	w.fs.Usage = usageFunc(w)
	if err := w.fs.Parse(args); err != nil {
		return nil, err
	}
	if w.fs.NArg() > 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *windowsCmd) Run() error {
	windows, err := capture.ListWindows()
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	for _, win := range windows {
		fmt.Fprintln(w.out, formatWindowLabel(win))
	}
	return nil
}

func formatWindowLabel(win capture.WindowInfo) string {
	var sb strings.Builder
	if win.Active {
		sb.WriteString("* ")
	} else {
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "%d: id:0x%08x", win.Index, win.ID)
	if win.Class != "" {
		fmt.Fprintf(&sb, "  class:%s", win.Class)
	}
	if win.PID != 0 {
		fmt.Fprintf(&sb, "  pid:%d", win.PID)
	}
	if win.Title != "" {
		fmt.Fprintf(&sb, "  %s", win.Title)
	}
	return sb.String()
}

type colorsCmd struct {
	r   *root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *colorsCmd) Program() string        { return c.r.Program() }
func (c *colorsCmd) Template() string       { return "colors.txt" }
func (c *colorsCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseColorsCmd(args []string, parent *root) (*colorsCmd, error) {
	c := &colorsCmd{r: parent.subcommand("colors"), out: os.Stdout}
	c.fs = flag.NewFlagSet("colors", flag.ContinueOnError)
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *colorsCmd) Run() error {
	def := editor.DefaultColorIndex()
	for i, pc := range editor.PaletteColors() {
		marker := " "
		if i == def {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %2d: \x1b[48;2;%d;%d;%dm  \x1b[0m %s\n",
			marker, i, pc.Color.R, pc.Color.G, pc.Color.B, pc.Name)
	}
	return nil
}

type widthsCmd struct {
	r   *root
	fs  *flag.FlagSet
	out io.Writer
}

func (w *widthsCmd) Program() string        { return w.r.Program() }
func (w *widthsCmd) Template() string       { return "widths.txt" }
func (w *widthsCmd) FlagSet() *flag.FlagSet { return w.fs }

func parseWidthsCmd(args []string, parent *root) (*widthsCmd, error) {
	w := &widthsCmd{r: parent.subcommand("widths"), out: os.Stdout}
	w.fs = flag.NewFlagSet("widths", flag.ContinueOnError)
	w.fs.Usage = usageFunc(w)
	if err := w.fs.Parse(args); err != nil {
		return nil, err
	}
	if w.fs.NArg() > 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *widthsCmd) Run() error {
	def := editor.DefaultWidthIndex()
	for i, width := range editor.WidthOptions() {
		marker := " "
		if i == def {
			marker = "*"
		}
		fmt.Fprintf(w.out, "%s %d: %dpx\n", marker, i, width)
	}
	return nil
}
