// Package version holds build information for the brufmt CLI. The variables
// can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Anything
// after the patch number (a pre-release suffix) is printed as is.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}

// Line returns the one-line description printed by `brufmt version`.
func Line() string {
	var sb strings.Builder
	sb.WriteString("brufmt ")
	sb.WriteString(Colored())
	if GitCommit != "" {
		sb.WriteString(" (")
		sb.WriteString(GitCommit)
		sb.WriteString(")")
	}
	if BuildDate != "" {
		sb.WriteString(" built ")
		sb.WriteString(BuildDate)
	}
	return sb.String()
}
