package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type historyCmd struct {
	r *root

	fs  *flag.FlagSet
	op  string
	id  string
	out io.Writer
}

func (h *historyCmd) Program() string        { return h.r.Program() }
func (h *historyCmd) Template() string       { return "history.txt" }
func (h *historyCmd) FlagSet() *flag.FlagSet { return h.fs }

func parseHistoryCmd(args []string, parent *root) (*historyCmd, error) {
	h := &historyCmd{r: parent.subcommand("history"), out: os.Stdout}
	h.fs = flag.NewFlagSet("history", flag.ContinueOnError)
	h.fs.Usage = usageFunc(h)
	if err := h.fs.Parse(args); err != nil {
		return nil, err
	}
	rest := h.fs.Args()
	if len(rest) == 0 {
		h.op = "list"
		return h, nil
	}
	h.op = rest[0]
	switch h.op {
	case "list", "clear", "prune":
		if len(rest) != 1 {
			return nil, &UsageError{of: h}
		}
	case "show", "remove":
		if len(rest) != 2 {
			return nil, &UsageError{of: h}
		}
		h.id = rest[1]
	default:
		return nil, &UsageError{of: h}
	}
	return h, nil
}

func (h *historyCmd) Run() error {
	store, err := h.r.historyStore()
	if err != nil {
		return fmt.Errorf("open capture history: %w", err)
	}
	if store == nil {
		return fmt.Errorf("capture history is disabled in the configuration")
	}

	switch h.op {
	case "list":
		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(h.out, "no captures recorded")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(h.out, "%s  %s  %dx%d  %s\n",
				shortID(e.ID.String()), e.CreatedAt.Format("2006-01-02 15:04:05"), e.Width, e.Height, e.Source)
		}
		return nil
	case "show":
		entry, err := store.Get(h.id)
		if err != nil {
			return err
		}
		fmt.Fprintln(h.out, entry.Path)
		return nil
	case "remove":
		return store.Remove(h.id)
	case "clear":
		return store.Clear()
	case "prune":
		n, err := store.Prune()
		if err != nil {
			return err
		}
		fmt.Fprintf(h.out, "removed %d entries\n", n)
		return nil
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
