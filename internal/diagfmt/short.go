package diagfmt

import (
	"fmt"
	"io"

	"nestml/internal/diag"
	"nestml/internal/source"
)

// Short prints the one-line-per-diagnostic form shared with golden
// tests: "<sev> <CODE> <path>:<line>:<col> <message>", sorted.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, true)
	if out == "" {
		return
	}
	fmt.Fprintln(w, out)
}
