package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(val string) error {
	*c = append(*c, val)
	return nil
}

type interactiveCmd struct {
	r *root

	fs       *flag.FlagSet
	commands commandList
	in       io.Reader
	out      io.Writer
}

func (i *interactiveCmd) Program() string        { return i.r.Program() }
func (i *interactiveCmd) Template() string       { return "interactive.txt" }
func (i *interactiveCmd) FlagSet() *flag.FlagSet { return i.fs }

func parseInteractiveCmd(args []string, parent *root) (*interactiveCmd, error) {
	i := &interactiveCmd{r: parent.subcommand("interactive"), in: os.Stdin, out: os.Stdout}
	i.fs = flag.NewFlagSet("interactive", flag.ContinueOnError)
	i.fs.Var(&i.commands, "e", "run this command and exit; may be repeated")
	i.fs.Usage = usageFunc(i)
	if err := i.fs.Parse(args); err != nil {
		return nil, err
	}
	if i.fs.NArg() > 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	if len(i.commands) > 0 {
		for _, line := range i.commands {
			if err := i.executeLine(line); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(i.in)
	fmt.Fprint(i.out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "exit", line == "quit":
			return nil
		default:
			if err := i.executeLine(line); err != nil {
				fmt.Fprintln(i.out, err)
			}
		}
		fmt.Fprint(i.out, "> ")
	}
	return scanner.Err()
}

// executeLine runs one command line through a fresh root so flag
// state never leaks between commands.
func (i *interactiveCmd) executeLine(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	// Nested prompts are pointless; skip the command word.
	if args[0] == "interactive" {
		return fmt.Errorf("already interactive")
	}
	return newRoot().Run(args)
}
