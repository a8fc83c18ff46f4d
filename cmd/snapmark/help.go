package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var helpTmpl = template.Must(template.New("help").Funcs(template.FuncMap{
	"flags": flagInfos,
}).ParseFS(helpFS, "templates/*.txt"))

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

func flagInfos(fs *flag.FlagSet) []flagInfo {
	var infos []flagInfo
	if fs == nil {
		return infos
	}
	fs.VisitAll(func(f *flag.Flag) {
		infos = append(infos, flagInfo{Name: f.Name, DefValue: f.DefValue, Usage: f.Usage})
	})
	return infos
}

// HelpData is what a command needs to expose for its usage text to be
// rendered from the embedded templates.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError renders a command's help template as its error text. The
// main function prints it without treating the run as a failure.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	var sb strings.Builder
	if err := helpTmpl.ExecuteTemplate(&sb, e.of.Template(), e.of); err != nil {
		return "usage: " + e.of.Program()
	}
	return strings.TrimRight(sb.String(), "\n")
}

// usageFunc adapts a HelpData into the func() signature flag.FlagSet
// expects for Usage.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprintln(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string { return "root.txt" }
