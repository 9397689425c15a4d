package repository

import (
	"context"
	"database/sql"

	"github.com/qaops/test-manager/internal/model"
)

// ResultRepo reads test results and per-test-case executions. Rows are
// written by the external test runner; this service only serves and
// aggregates them, so there are no insert/update methods beyond what the
// run trigger needs.
type ResultRepo struct{ DB *sql.DB }

func NewResultRepo(db *sql.DB) *ResultRepo { return &ResultRepo{DB: db} }

const resultCols = "id,project_id,name,test_result_file_name,success,status,execution_time," +
	"output,error_message,result_data,browser,video_url,created_at,updated_at,created_by,last_run_by"

const executionCols = "id,test_result_id,test_case_id,status,duration,error_message,output," +
	"start_time,end_time,retries,created_at,updated_at"

func scanResult(scan func(dest ...any) error) (model.TestResult, error) {
	var (
		tr        model.TestResult
		name      sql.NullString
		fileName  sql.NullString
		execTime  sql.NullInt64
		output    sql.NullString
		errMsg    sql.NullString
		data      sql.NullString
		browser   sql.NullString
		video     sql.NullString
		updatedAt sql.NullTime
		createdBy sql.NullString
		lastRunBy sql.NullString
	)
	err := scan(&tr.ID, &tr.ProjectID, &name, &fileName, &tr.Success, &tr.Status, &execTime,
		&output, &errMsg, &data, &browser, &video, &tr.CreatedAt, &updatedAt, &createdBy, &lastRunBy)
	if err != nil {
		return model.TestResult{}, err
	}
	tr.Name = strPtr(name)
	tr.FileName = strPtr(fileName)
	tr.ExecutionTime = intPtr(execTime)
	tr.Output = strPtr(output)
	tr.ErrorMessage = strPtr(errMsg)
	tr.ResultData = strPtr(data)
	tr.Browser = strPtr(browser)
	tr.VideoURL = strPtr(video)
	tr.UpdatedAt = timePtr(updatedAt)
	tr.CreatedBy = strPtr(createdBy)
	tr.LastRunBy = strPtr(lastRunBy)
	return tr, nil
}

func scanExecution(scan func(dest ...any) error) (model.Execution, error) {
	var (
		ex        model.Execution
		duration  sql.NullInt64
		errMsg    sql.NullString
		output    sql.NullString
		start     sql.NullTime
		end       sql.NullTime
		updatedAt sql.NullTime
	)
	err := scan(&ex.ID, &ex.TestResultID, &ex.TestCaseID, &ex.Status, &duration, &errMsg,
		&output, &start, &end, &ex.Retries, &ex.CreatedAt, &updatedAt)
	if err != nil {
		return model.Execution{}, err
	}
	ex.Duration = intPtr(duration)
	ex.ErrorMessage = strPtr(errMsg)
	ex.Output = strPtr(output)
	ex.StartTime = timePtr(start)
	ex.EndTime = timePtr(end)
	ex.UpdatedAt = timePtr(updatedAt)
	return ex, nil
}

func (r *ResultRepo) collectResults(rows *sql.Rows) ([]model.TestResult, error) {
	defer rows.Close()
	out := []model.TestResult{}
	for rows.Next() {
		tr, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *ResultRepo) collectExecutions(rows *sql.Rows) ([]model.Execution, error) {
	defer rows.Close()
	out := []model.Execution{}
	for rows.Next() {
		ex, err := scanExecution(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// List returns results newest first, windowed by skip/limit.
func (r *ResultRepo) List(ctx context.Context, skip, limit int) ([]model.TestResult, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resultCols+" FROM test_results ORDER BY created_at DESC LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	return r.collectResults(rows)
}

// GetByID fetches a single result.
func (r *ResultRepo) GetByID(ctx context.Context, id string) (model.TestResult, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+resultCols+" FROM test_results WHERE id=? LIMIT 1", id)
	return scanResult(row.Scan)
}

// ListByProject returns the results of a project, newest first.
func (r *ResultRepo) ListByProject(ctx context.Context, projectID string, skip, limit int) ([]model.TestResult, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resultCols+" FROM test_results WHERE project_id=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		projectID, limit, skip)
	if err != nil {
		return nil, err
	}
	return r.collectResults(rows)
}

// Latest returns the most recent result of a project.
func (r *ResultRepo) Latest(ctx context.Context, projectID string) (model.TestResult, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+resultCols+" FROM test_results WHERE project_id=? ORDER BY created_at DESC LIMIT 1", projectID)
	return scanResult(row.Scan)
}

// GetExecution fetches one execution by id.
func (r *ResultRepo) GetExecution(ctx context.Context, id string) (model.Execution, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+executionCols+" FROM test_case_executions WHERE id=? LIMIT 1", id)
	return scanExecution(row.Scan)
}

// ListExecutionsByResult returns every execution under a result.
func (r *ResultRepo) ListExecutionsByResult(ctx context.Context, resultID string) ([]model.Execution, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+executionCols+" FROM test_case_executions WHERE test_result_id=? ORDER BY created_at", resultID)
	if err != nil {
		return nil, err
	}
	return r.collectExecutions(rows)
}

// ListExecutionsByTestCase returns the execution history of a test case,
// newest first.
func (r *ResultRepo) ListExecutionsByTestCase(ctx context.Context, testCaseID string, limit int) ([]model.Execution, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+executionCols+" FROM test_case_executions WHERE test_case_id=? ORDER BY created_at DESC LIMIT ?",
		testCaseID, limit)
	if err != nil {
		return nil, err
	}
	return r.collectExecutions(rows)
}

// ProjectStats aggregates the run history of a project in one query.
func (r *ResultRepo) ProjectStats(ctx context.Context, projectID string) (model.ResultStats, error) {
	var (
		s   model.ResultStats
		avg sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(success), 0),
		        COALESCE(AVG(execution_time), 0)
		 FROM test_results WHERE project_id=?`, projectID).
		Scan(&s.TotalRuns, &s.SuccessfulRuns, &avg)
	if err != nil {
		return model.ResultStats{}, err
	}
	s.FailedRuns = s.TotalRuns - s.SuccessfulRuns
	s.AvgExecutionTime = avg.Float64
	if s.TotalRuns > 0 {
		s.SuccessRate = float64(s.SuccessfulRuns) / float64(s.TotalRuns) * 100
	}
	return s, nil
}

// TestCaseStats aggregates the execution history of a test case.
func (r *ResultRepo) TestCaseStats(ctx context.Context, testCaseID string) (model.ResultStats, error) {
	var (
		s   model.ResultStats
		avg sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'passed'), 0),
		        COALESCE(AVG(duration), 0)
		 FROM test_case_executions WHERE test_case_id=?`, testCaseID).
		Scan(&s.TotalRuns, &s.SuccessfulRuns, &avg)
	if err != nil {
		return model.ResultStats{}, err
	}
	s.FailedRuns = s.TotalRuns - s.SuccessfulRuns
	s.AvgExecutionTime = avg.Float64
	if s.TotalRuns > 0 {
		s.SuccessRate = float64(s.SuccessfulRuns) / float64(s.TotalRuns) * 100
	}
	return s, nil
}
