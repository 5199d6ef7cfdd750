package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the names printed by String in any case.
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for sev, n := range severityNames {
		if n == upper {
			return Severity(sev), nil // #nosec G115 -- index of a three-element array
		}
	}
	return 0, fmt.Errorf("unknown severity %q (expected info|warning|error)", name)
}
