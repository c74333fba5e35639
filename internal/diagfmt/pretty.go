package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"nestml/internal/diag"
	"nestml/internal/source"
)

// Pretty renders diagnostics in a human-readable form. Callers sort the
// bag first for deterministic output. Each entry prints
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//
// followed by the offending source line with a caret underline, then
// notes and fix titles when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sevColor, sevLabel := severityStyle(d.Severity)
	start, _ := fs.Resolve(d.Primary)

	head := fmt.Sprintf("%s:%d:%d: ", displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col)
	if opts.Color {
		head += sevColor.Sprintf("%s %s", sevLabel, d.Code.ID())
	} else {
		head += fmt.Sprintf("%s %s", sevLabel, d.Code.ID())
	}
	fmt.Fprintf(w, "%s: %s\n", head, d.Message)

	if !opts.NoSource {
		writeSourceLine(w, fs, d.Primary, opts.Color)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nstart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				displayPath(fs, note.Span.File, opts.PathMode), nstart.Line, nstart.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", fix.Title)
		}
	}
}

// writeSourceLine quotes the line under the span and underlines the
// span with ^~~~. Spans that cross lines underline only the first.
func writeSourceLine(w io.Writer, fs *source.FileSet, span source.Span, colored bool) {
	f := fs.Get(span.File)
	if f == nil || span.Empty() {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)

	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	width := 1
	if end.Line == start.Line && int(end.Col) > col {
		width = int(end.Col) - col
	}
	if col-1+width > len(line) {
		width = len(line) - (col - 1)
		if width < 1 {
			width = 1
		}
	}

	marker := "^" + strings.Repeat("~", width-1)
	if colored {
		marker = color.New(color.FgHiGreen, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", col-1), marker)
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	if mode == PathModeBasename {
		return filepath.Base(f.Path)
	}
	return f.Path
}

func severityStyle(sev diag.Severity) (*color.Color, string) {
	switch sev {
	case diag.SevError:
		return color.New(color.FgHiRed, color.Bold), "error"
	case diag.SevWarning:
		return color.New(color.FgHiYellow, color.Bold), "warning"
	default:
		return color.New(color.FgHiBlue), "info"
	}
}

// Summary prints the closing error/warning count line.
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	errs := bag.CountBySeverity(diag.SevError)
	warns := bag.CountBySeverity(diag.SevWarning)
	if errs == 0 && warns == 0 {
		return
	}
	line := fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	if colored {
		switch {
		case errs > 0:
			line = color.New(color.FgHiRed).Sprint(line)
		default:
			line = color.New(color.FgHiYellow).Sprint(line)
		}
	}
	fmt.Fprintln(w, line)
}
