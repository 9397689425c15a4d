package model

import "time"

// TestResult is one batch run grouping zero or more executions.
// ResultData holds the raw runner report as a JSON string; the server never
// interprets it.
type TestResult struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Name          *string    `json:"name"`
	FileName      *string    `json:"test_result_file_name"`
	Success       bool       `json:"success"`
	Status        string     `json:"status"`
	ExecutionTime *int       `json:"execution_time"` // milliseconds
	Output        *string    `json:"output"`
	ErrorMessage  *string    `json:"error_message"`
	ResultData    *string    `json:"result_data"`
	Browser       *string    `json:"browser"`
	VideoURL      *string    `json:"video_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	CreatedBy     *string    `json:"created_by"`
	LastRunBy     *string    `json:"last_run_by"`
}

// Execution is one run of a single test case within a TestResult.
type Execution struct {
	ID           string     `json:"id"`
	TestResultID string     `json:"test_result_id"`
	TestCaseID   string     `json:"test_case_id"`
	Status       string     `json:"status"`
	Duration     *int       `json:"duration"` // milliseconds
	ErrorMessage *string    `json:"error_message"`
	Output       *string    `json:"output"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Retries      int        `json:"retries"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// ResultStats aggregates the run history for a project or a test case.
type ResultStats struct {
	TotalRuns        int     `json:"total_runs"`
	SuccessfulRuns   int     `json:"successful_runs"`
	FailedRuns       int     `json:"failed_runs"`
	SuccessRate      float64 `json:"success_rate"`
	AvgExecutionTime float64 `json:"avg_execution_time"`
}
