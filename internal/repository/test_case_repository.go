package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// TestCaseRepo manages persistence for test cases and their version
// snapshots.
type TestCaseRepo struct{ DB *sql.DB }

func NewTestCaseRepo(db *sql.DB) *TestCaseRepo { return &TestCaseRepo{DB: db} }

const testCaseCols = "id,project_id,name,sort_order,status,version,is_manual,tags," +
	"test_file_path,playwright_script,last_run,last_run_by,created_at,updated_at,created_by,updated_by"

func scanTestCase(scan func(dest ...any) error) (model.TestCase, error) {
	var (
		tc        model.TestCase
		order     sql.NullInt64
		version   sql.NullString
		tags      sql.NullString
		filePath  sql.NullString
		script    sql.NullString
		lastRun   sql.NullTime
		lastRunBy sql.NullString
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := scan(&tc.ID, &tc.ProjectID, &tc.Name, &order, &tc.Status, &version, &tc.IsManual,
		&tags, &filePath, &script, &lastRun, &lastRunBy, &tc.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.TestCase{}, err
	}
	tc.Order = intPtr(order)
	tc.Version = strPtr(version)
	tc.Tags = splitTags(tags.String)
	tc.TestFilePath = strPtr(filePath)
	tc.Script = strPtr(script)
	tc.LastRun = timePtr(lastRun)
	tc.LastRunBy = strPtr(lastRunBy)
	tc.UpdatedAt = timePtr(updatedAt)
	tc.CreatedBy = strPtr(createdBy)
	tc.UpdatedBy = strPtr(updatedBy)
	return tc, nil
}

// CreateTestCaseParams carries the fields of a test case insert.
type CreateTestCaseParams struct {
	ProjectID    string
	Name         string
	Order        *int
	Status       string
	Version      *string
	IsManual     bool
	Tags         []string
	TestFilePath *string
	Script       *string
	CreatedBy    *string
}

// Create inserts a test case and its initial "1.0.0" version snapshot.
func (r *TestCaseRepo) Create(ctx context.Context, p CreateTestCaseParams) (model.TestCase, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO test_cases (id, project_id, name, sort_order, status, version, is_manual, tags,
		  test_file_path, playwright_script, created_by) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		id, p.ProjectID, p.Name, p.Order, p.Status, p.Version, p.IsManual, joinTags(p.Tags),
		p.TestFilePath, p.Script, p.CreatedBy)
	if err != nil {
		return model.TestCase{}, err
	}
	tc, err := r.GetByID(ctx, id)
	if err != nil {
		return model.TestCase{}, err
	}
	if _, err := r.SnapshotVersion(ctx, tc, "1.0.0"); err != nil {
		return model.TestCase{}, err
	}
	return tc, nil
}

// GetByID fetches a single test case.
func (r *TestCaseRepo) GetByID(ctx context.Context, id string) (model.TestCase, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+testCaseCols+" FROM test_cases WHERE id=? LIMIT 1", id)
	return scanTestCase(row.Scan)
}

// ListFilter narrows a test case listing. Empty fields match everything.
type ListFilter struct {
	ProjectID string
	Status    string
}

// List returns test cases matching the filter, ordered by their manual sort
// order then creation time.
func (r *TestCaseRepo) List(ctx context.Context, f ListFilter, skip, limit int) ([]model.TestCase, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.ProjectID != "" {
		where = append(where, "project_id=?")
		args = append(args, f.ProjectID)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	args = append(args, limit, skip)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+testCaseCols+" FROM test_cases WHERE "+strings.Join(where, " AND ")+
			" ORDER BY sort_order IS NULL, sort_order, created_at LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TestCase{}
	for rows.Next() {
		tc, err := scanTestCase(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// UpdateTestCaseParams carries the optional fields of a test case update.
type UpdateTestCaseParams struct {
	Name         *string
	Order        *int
	Status       *string
	Version      *string
	IsManual     *bool
	Tags         []string // nil leaves tags untouched
	TestFilePath *string
	Script       *string
	UpdatedBy    *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *TestCaseRepo) Update(ctx context.Context, id string, p UpdateTestCaseParams) (model.TestCase, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, *p.Name)
	}
	if p.Order != nil {
		set = append(set, "sort_order=?")
		args = append(args, *p.Order)
	}
	if p.Status != nil {
		set = append(set, "status=?")
		args = append(args, *p.Status)
	}
	if p.Version != nil {
		set = append(set, "version=?")
		args = append(args, *p.Version)
	}
	if p.IsManual != nil {
		set = append(set, "is_manual=?")
		args = append(args, *p.IsManual)
	}
	if p.Tags != nil {
		set = append(set, "tags=?")
		args = append(args, joinTags(p.Tags))
	}
	if p.TestFilePath != nil {
		set = append(set, "test_file_path=?")
		args = append(args, *p.TestFilePath)
	}
	if p.Script != nil {
		set = append(set, "playwright_script=?")
		args = append(args, *p.Script)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE test_cases SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		return model.TestCase{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus sets the run status and records who ran it.
func (r *TestCaseRepo) UpdateStatus(ctx context.Context, id, status string, lastRunBy *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE test_cases SET status=?, last_run=?, last_run_by=?, updated_at=NOW() WHERE id=?",
		status, time.Now().UTC(), lastRunBy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a test case row.
func (r *TestCaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM test_cases WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SnapshotVersion stores an immutable copy of the test case under the given
// version string. When version is empty one is derived from the number of
// existing snapshots ("1.<count>.0").
func (r *TestCaseRepo) SnapshotVersion(ctx context.Context, tc model.TestCase, version string) (model.TestCaseVersion, error) {
	if version == "" {
		var count int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM test_case_versions WHERE test_case_id=?", tc.ID).Scan(&count); err != nil {
			return model.TestCaseVersion{}, err
		}
		version = fmt.Sprintf("1.%d.0", count)
	}
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO test_case_versions (id, test_case_id, version, name, playwright_script) VALUES (?,?,?,?,?)",
		id, tc.ID, version, tc.Name, tc.Script)
	if err != nil {
		return model.TestCaseVersion{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+testCaseVersionCols+" FROM test_case_versions WHERE id=? LIMIT 1", id)
	return scanTestCaseVersion(row.Scan)
}

const testCaseVersionCols = "id,test_case_id,version,name,playwright_script,created_at"

func scanTestCaseVersion(scan func(dest ...any) error) (model.TestCaseVersion, error) {
	var (
		v      model.TestCaseVersion
		script sql.NullString
	)
	err := scan(&v.ID, &v.TestCaseID, &v.Version, &v.Name, &script, &v.CreatedAt)
	if err != nil {
		return model.TestCaseVersion{}, err
	}
	v.Script = strPtr(script)
	return v, nil
}

// ListVersions returns every snapshot of a test case, newest first.
func (r *TestCaseRepo) ListVersions(ctx context.Context, testCaseID string) ([]model.TestCaseVersion, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+testCaseVersionCols+" FROM test_case_versions WHERE test_case_id=? ORDER BY created_at DESC",
		testCaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TestCaseVersion{}
	for rows.Next() {
		v, err := scanTestCaseVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVersion fetches one snapshot of a test case by its version string.
func (r *TestCaseRepo) GetVersion(ctx context.Context, testCaseID, version string) (model.TestCaseVersion, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+testCaseVersionCols+" FROM test_case_versions WHERE test_case_id=? AND version=? LIMIT 1",
		testCaseID, version)
	return scanTestCaseVersion(row.Scan)
}

// RestoreVersion rewrites the test case with the content of a snapshot and
// stamps its version string.
func (r *TestCaseRepo) RestoreVersion(ctx context.Context, id string, v model.TestCaseVersion, updatedBy *string) (model.TestCase, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE test_cases SET name=?, playwright_script=?, version=?, updated_by=?, updated_at=NOW() WHERE id=?",
		v.Name, v.Script, v.Version, updatedBy, id)
	if err != nil {
		return model.TestCase{}, err
	}
	return r.GetByID(ctx, id)
}
