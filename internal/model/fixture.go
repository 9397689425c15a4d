package model

import "time"

// Fixture is a reusable setup block belonging to a project. Test case
// steps reference fixtures either as an "extend" (test-level wrapper) or
// "inline" (called mid-test).
type Fixture struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"` // extend | inline
	Status     string     `json:"status"`
	Script     *string    `json:"playwright_script"`
	Filename   *string    `json:"filename"`
	ExportName *string    `json:"export_name"`
	FilePath   *string    `json:"fixture_file_path"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
	CreatedBy  *string    `json:"created_by"`
	UpdatedBy  *string    `json:"updated_by"`
}

// FixtureVersion is an immutable snapshot taken before each fixture update.
type FixtureVersion struct {
	ID        string    `json:"id"`
	FixtureID string    `json:"fixture_id"`
	Version   string    `json:"version"`
	Name      string    `json:"name"`
	Script    *string   `json:"playwright_script"`
	CreatedAt time.Time `json:"created_at"`
}
