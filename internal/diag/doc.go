// Package diag defines the diagnostic model shared by all checker phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by unit validation and type reconciliation.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     surface alongside the finding.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration beyond the
// stable golden/short line form used by tests. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record: Severity (Info/Warning/Error), a compact
// numeric Code with a stable string form, a short human message, the primary
// source.Span, optional Notes, and optional Fixes. Diagnostics are collected,
// never thrown: a check pass reports every finding in one sweep.
//
// # Emitting diagnostics
//
// Phases emit through a diag.Reporter so storage stays pluggable. Use
// ReportError/ReportWarning to build a diagnostic fluently, chain WithNote or
// WithFix, then Emit. BagReporter aggregates into a Bag, which supports
// sorting, deduplication and merging for deterministic output.
package diag
