package model

import "time"

// Release mirrors the `releases` table. Status moves through
// planning -> in_progress -> testing -> released; (project_id, version)
// is unique.
type Release struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CreatedBy   *string    `json:"created_by"`
	UpdatedBy   *string    `json:"updated_by"`
}

// ReleaseTestCase pins a test case (at a specific version) into a release.
type ReleaseTestCase struct {
	ID         string     `json:"id"`
	ReleaseID  string     `json:"release_id"`
	TestCaseID string     `json:"test_case_id"`
	Version    string     `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
	CreatedBy  *string    `json:"created_by"`
}

// ReleaseTestCaseDetail joins the pin with the test case's current name and
// status for the release worklist view.
type ReleaseTestCaseDetail struct {
	ReleaseTestCase
	TestCaseName   string `json:"test_case_name"`
	TestCaseStatus string `json:"test_case_status"`
}

// ReleaseStats aggregates the pinned test cases of a release.
type ReleaseStats struct {
	TotalTestCases    int            `json:"total_test_cases"`
	TestCasesByStatus map[string]int `json:"test_cases_by_status"`
	ReleaseProgress   float64        `json:"release_progress"` // percentage of passed cases
}

// ReleaseSummary is a release plus its statistics, used by the project
// releases listing.
type ReleaseSummary struct {
	Release
	Stats ReleaseStats `json:"stats"`
}
