package ui

import (
	"strings"

	"github.com/fatih/color"
)

// StatusPalette maps a domain's status values to colorizers. One palette
// per domain replaces the per-column switch functions that otherwise
// accumulate.
type StatusPalette map[string]*color.Color

// Render colorizes a status value; unknown values pass through plain.
func (p StatusPalette) Render(status string) string {
	if c, ok := p[strings.ToLower(status)]; ok {
		return c.Sprint(status)
	}
	return status
}

// TestCaseStatuses covers test cases and executions.
var TestCaseStatuses = StatusPalette{
	"passed":  color.New(color.FgGreen),
	"failed":  color.New(color.FgRed),
	"blocked": color.New(color.FgYellow),
	"not-run": color.New(color.FgWhite),
	"pending": color.New(color.FgCyan),
}

// ReleaseStatuses covers the release lifecycle.
var ReleaseStatuses = StatusPalette{
	"planning":    color.New(color.FgCyan),
	"in_progress": color.New(color.FgYellow),
	"testing":     color.New(color.FgMagenta),
	"released":    color.New(color.FgGreen),
}

// ResultStatuses covers batch result runs.
var ResultStatuses = StatusPalette{
	"passed":  color.New(color.FgGreen),
	"failed":  color.New(color.FgRed),
	"running": color.New(color.FgYellow),
}

// RoleStatuses covers user roles in the users table.
var RoleStatuses = StatusPalette{
	"admin": color.New(color.FgMagenta),
	"user":  color.New(color.FgBlue),
}
