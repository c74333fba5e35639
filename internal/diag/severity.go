package diag

// Severity ranks how bad a diagnostic is. Errors fail a check run,
// warnings survive it, infos are advisory output only.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the golden-format spelling, upper case.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
