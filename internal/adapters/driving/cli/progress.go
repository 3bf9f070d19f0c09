package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure progressPrinter implements the interface.
var _ driven.ProgressReporter = (*progressPrinter)(nil)

// progressPrinter prints one line per indexed or skipped page.
type progressPrinter struct {
	out     io.Writer
	added   *color.Color
	skipped *color.Color
}

// newProgressPrinter writes to out, coloured when out is a terminal.
func newProgressPrinter(out io.Writer) *progressPrinter {
	p := &progressPrinter{
		out:     out,
		added:   color.New(color.FgGreen),
		skipped: color.New(color.FgYellow),
	}
	if !isTerminal(out) {
		p.added.DisableColor()
		p.skipped.DisableColor()
	} else {
		p.added.EnableColor()
		p.skipped.EnableColor()
	}
	return p
}

func (p *progressPrinter) Added(count int, lang, route string) {
	p.added.Fprint(p.out, "Added") //nolint:errcheck
	fmt.Fprintf(p.out, " %d [%s] %s\n", count, lang, route)
}

func (p *progressPrinter) Skipped(count int, route string, err error) {
	p.skipped.Fprint(p.out, "Skipped") //nolint:errcheck
	if err != nil {
		fmt.Fprintf(p.out, " %d %s: %v\n", count, route, err)
		return
	}
	fmt.Fprintf(p.out, " %d %s\n", count, route)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
