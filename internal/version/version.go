package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the crane CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored раскрашивает major/minor/patch; всё, что не похоже на x.y.z, печатается как есть.
func Colored(enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		c.EnableColor()
		return c.Sprint(s)
	}
	out := paint(versionMajorColor, parts[0]) + "." +
		paint(versionMinorColor, parts[1]) + "." +
		paint(versionPatchColor, parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

// Describe returns the text printed by `crane version`.
func Describe(colored bool) string {
	var sb strings.Builder
	sb.WriteString("crane ")
	sb.WriteString(Colored(colored))
	if GitCommit != "" {
		sb.WriteString("\ncommit: " + GitCommit)
		if GitMessage != "" {
			sb.WriteString(" (" + GitMessage + ")")
		}
	}
	if BuildDate != "" {
		sb.WriteString("\nbuilt:  " + BuildDate)
	}
	return sb.String()
}
