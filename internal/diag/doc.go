// Package diag defines the diagnostic model shared by the config loader,
// the driver and the CLI.
//
// A Diagnostic carries a Severity, a stable Code (see codes.go), a short
// message and the Location it refers to. Block failures additionally name
// the block kind. Producers emit through a Reporter; BagReporter collects
// into a Bag, which the CLI sorts and renders with internal/diagfmt.
//
// Package diag performs no formatting or I/O.
package diag
