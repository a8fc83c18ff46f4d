package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/snapmark/internal/config"
)

type configCmd struct {
	r   *root
	fs  *flag.FlagSet
	op  string
	out io.Writer
}

func (c *configCmd) Program() string        { return c.r.Program() }
func (c *configCmd) Template() string       { return "config.txt" }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, parent *root) (*configCmd, error) {
	c := &configCmd{r: parent.subcommand("config"), out: os.Stdout}
	c.fs = flag.NewFlagSet("config", flag.ContinueOnError)
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.op = c.fs.Arg(0)
	switch c.op {
	case "print", "save":
		return c, nil
	}
	return nil, &UsageError{of: c}
}

func (c *configCmd) Run() error {
	cfg := c.r.config
	if cfg == nil {
		cfg = config.New()
	}
	switch c.op {
	case "print":
		fmt.Fprint(c.out, cfg.String())
		return nil
	case "save":
		loader := config.NewLoader(version, configPathOverride)
		path := loader.SavePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(c.out, "saved %s\n", path)
		return nil
	}
	return nil
}
