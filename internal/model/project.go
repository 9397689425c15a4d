package model

import "time"

// Project mirrors the `projects` table. Aggregate statistics (test case
// counts, pass rate) are computed in SQL and attached via ProjectStats,
// never stored on the row itself.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Environment string     `json:"environment"`
	ProjectPath *string    `json:"playwright_project_path"`
	LastRun     *time.Time `json:"last_run"`
	LastRunBy   *string    `json:"last_run_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CreatedBy   *string    `json:"created_by"`
	UpdatedBy   *string    `json:"updated_by"`
}

// ProjectStats carries the server-side aggregates joined onto a project in
// list-with-stats and detail responses.
type ProjectStats struct {
	TestCasesCount   int     `json:"test_cases_count"`
	SuccessRate      float64 `json:"success_rate"`
	TotalRuns        int     `json:"total_runs"`
	AvgExecutionTime float64 `json:"avg_execution_time"`
}

// ProjectWithStats is the list-with-stats row: a project plus its aggregates.
type ProjectWithStats struct {
	Project
	ProjectStats
}

// ProjectSetting is a key/value row scoped to a project; (project_id, key)
// is unique.
type ProjectSetting struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	CreatedBy *string    `json:"created_by"`
	UpdatedBy *string    `json:"updated_by"`
}
