// Package diagfmt renders accumulated diagnostics for humans (pretty,
// short) and machines (JSON).
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeFull prints the path as registered in the FileSet.
	PathModeFull PathMode = iota
	// PathModeBasename prints only the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
	// NoSource suppresses the quoted source line and caret.
	NoSource bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	// Max обрезает вывод, не Bag.
	Max          int
	IncludeNotes bool
	IncludeFixes bool
}
