package seed

import (
	"strings"

	"github.com/agentstation/iibkit/pkg/errors"
)

// Mode is the browsing mode of the seeded pane.
type Mode string

const (
	// ModeWalk lists the directory live on every visit.
	ModeWalk Mode = "walk"
	// ModeScanned browses the indexed copy of the directory.
	ModeScanned Mode = "scanned"
	// ModeScannedFixed browses the index without rescanning.
	ModeScannedFixed Mode = "scanned-fixed"
)

// DefaultMode is the mode used by the CLI when none is given.
const DefaultMode = ModeWalk

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeWalk, ModeScanned, ModeScannedFixed}
}

// String returns the string representation of a mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m is a supported mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeWalk, ModeScanned, ModeScannedFixed:
		return true
	default:
		return false
	}
}

// ParseMode converts s to a Mode. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return DefaultMode, nil
	}
	if !m.IsValid() {
		return "", errors.NewValidationError("mode", s, "must be one of: walk, scanned, scanned-fixed")
	}
	return m, nil
}
