package model

import "time"

// TestCase mirrors the `test_cases` table. Tags are stored as a comma
// separated string in the database and exposed as a list on the wire; the
// repository performs the conversion in both directions.
type TestCase struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Name         string     `json:"name"`
	Order        *int       `json:"order"`
	Status       string     `json:"status"` // passed | failed | blocked | not-run | pending
	Version      *string    `json:"version"`
	IsManual     bool       `json:"is_manual"`
	Tags         []string   `json:"tags"`
	TestFilePath *string    `json:"test_file_path"`
	Script       *string    `json:"playwright_script"`
	LastRun      *time.Time `json:"last_run"`
	LastRunBy    *string    `json:"last_run_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	CreatedBy    *string    `json:"created_by"`
	UpdatedBy    *string    `json:"updated_by"`
}

// TestCaseVersion is an immutable snapshot taken before each update so a
// release can pin the exact script it shipped with.
type TestCaseVersion struct {
	ID         string    `json:"id"`
	TestCaseID string    `json:"test_case_id"`
	Version    string    `json:"version"`
	Name       string    `json:"name"`
	Script     *string   `json:"playwright_script"`
	CreatedAt  time.Time `json:"created_at"`
}
