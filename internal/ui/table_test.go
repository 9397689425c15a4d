package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

type row struct {
	Name   string
	Status string
}

var testColumns = []Column[row]{
	{Key: "name", Header: "NAME", Cell: func(r row) string { return r.Name }},
	{Key: "status", Header: "STATUS", Cell: func(r row) string { return r.Status }},
}

func render(rows []row, opts TableOptions) []string {
	var b strings.Builder
	RenderTable(&b, testColumns, rows, opts)
	out := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	return out
}

func TestRenderTableKeepsInputOrder(t *testing.T) {
	lines := render([]row{{"beta", "passed"}, {"alpha", "failed"}}, TableOptions{})
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("missing header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "beta") || !strings.HasPrefix(lines[2], "alpha") {
		t.Errorf("input order not preserved: %v", lines[1:])
	}
}

func TestRenderTableSorts(t *testing.T) {
	rows := []row{{"beta", "passed"}, {"alpha", "failed"}, {"gamma", "blocked"}}

	lines := render(rows, TableOptions{SortKey: "name"})
	if !strings.HasPrefix(lines[1], "alpha") || !strings.HasPrefix(lines[3], "gamma") {
		t.Errorf("ascending sort wrong: %v", lines[1:])
	}

	lines = render(rows, TableOptions{SortKey: "name", SortDesc: true})
	if !strings.HasPrefix(lines[1], "gamma") {
		t.Errorf("descending sort wrong: %v", lines[1:])
	}

	// unknown sort key keeps input order
	lines = render(rows, TableOptions{SortKey: "nope"})
	if !strings.HasPrefix(lines[1], "beta") {
		t.Errorf("unknown sort key should keep order: %v", lines[1:])
	}
}

func TestRenderTableFilters(t *testing.T) {
	rows := []row{{"login test", "passed"}, {"logout test", "failed"}, {"search", "passed"}}

	lines := render(rows, TableOptions{Filter: "PASSED"})
	if len(lines) != 3 {
		t.Fatalf("case-insensitive filter should keep 2 rows, got %d lines", len(lines))
	}

	lines = render(rows, TableOptions{Filter: "nothing-matches"})
	if len(lines) != 1 {
		t.Errorf("expected header only, got %v", lines)
	}
}

func TestStatusPalette(t *testing.T) {
	color.NoColor = true

	if got := TestCaseStatuses.Render("passed"); got != "passed" {
		t.Errorf("known status changed text: %q", got)
	}
	if got := TestCaseStatuses.Render("weird"); got != "weird" {
		t.Errorf("unknown status should pass through: %q", got)
	}
	// lookup is case-insensitive, rendering keeps the original casing
	if got := ReleaseStatuses.Render("Released"); got != "Released" {
		t.Errorf("mixed case status mangled: %q", got)
	}
}

func TestDeref(t *testing.T) {
	if Deref(nil) != "-" {
		t.Error("nil should render as dash")
	}
	s := "value"
	if Deref(&s) != "value" {
		t.Error("non-nil should render its value")
	}
}
