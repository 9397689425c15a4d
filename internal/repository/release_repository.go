package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// ReleaseRepo manages releases and the test cases pinned into them.
type ReleaseRepo struct{ DB *sql.DB }

func NewReleaseRepo(db *sql.DB) *ReleaseRepo { return &ReleaseRepo{DB: db} }

const releaseCols = "id,project_id,name,version,description,start_date,end_date,status," +
	"created_at,updated_at,created_by,updated_by"

func scanRelease(scan func(dest ...any) error) (model.Release, error) {
	var (
		rel         model.Release
		description sql.NullString
		endDate     sql.NullTime
		updatedAt   sql.NullTime
		createdBy   sql.NullString
		updatedBy   sql.NullString
	)
	err := scan(&rel.ID, &rel.ProjectID, &rel.Name, &rel.Version, &description,
		&rel.StartDate, &endDate, &rel.Status, &rel.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.Release{}, err
	}
	rel.Description = strPtr(description)
	rel.EndDate = timePtr(endDate)
	rel.UpdatedAt = timePtr(updatedAt)
	rel.CreatedBy = strPtr(createdBy)
	rel.UpdatedBy = strPtr(updatedBy)
	return rel, nil
}

// CreateReleaseParams carries the fields of a release insert.
type CreateReleaseParams struct {
	ProjectID   string
	Name        string
	Version     string
	Description *string
	StartDate   time.Time
	EndDate     *time.Time
	Status      string
	CreatedBy   *string
}

// Create inserts a release; a duplicate (project_id, version) pair is
// reported as ErrConflict.
func (r *ReleaseRepo) Create(ctx context.Context, p CreateReleaseParams) (model.Release, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO releases (id, project_id, name, version, description, start_date, end_date, status, created_by)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		id, p.ProjectID, p.Name, p.Version, p.Description, p.StartDate, p.EndDate, p.Status, p.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return model.Release{}, ErrConflict
		}
		return model.Release{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single release.
func (r *ReleaseRepo) GetByID(ctx context.Context, id string) (model.Release, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+releaseCols+" FROM releases WHERE id=? LIMIT 1", id)
	return scanRelease(row.Scan)
}

// GetByVersion fetches the release of a project with the given version.
func (r *ReleaseRepo) GetByVersion(ctx context.Context, projectID, version string) (model.Release, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+releaseCols+" FROM releases WHERE project_id=? AND version=? LIMIT 1",
		projectID, version)
	return scanRelease(row.Scan)
}

// ListByProject returns the releases of a project, newest start date first.
func (r *ReleaseRepo) ListByProject(ctx context.Context, projectID string) ([]model.Release, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+releaseCols+" FROM releases WHERE project_id=? ORDER BY start_date DESC", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Release{}
	for rows.Next() {
		rel, err := scanRelease(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// UpdateReleaseParams carries the optional fields of a release update.
type UpdateReleaseParams struct {
	Name        *string
	Version     *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
	UpdatedBy   *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *ReleaseRepo) Update(ctx context.Context, id string, p UpdateReleaseParams) (model.Release, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, *p.Name)
	}
	if p.Version != nil {
		set = append(set, "version=?")
		args = append(args, *p.Version)
	}
	if p.Description != nil {
		set = append(set, "description=?")
		args = append(args, *p.Description)
	}
	if p.StartDate != nil {
		set = append(set, "start_date=?")
		args = append(args, *p.StartDate)
	}
	if p.EndDate != nil {
		set = append(set, "end_date=?")
		args = append(args, *p.EndDate)
	}
	if p.Status != nil {
		set = append(set, "status=?")
		args = append(args, *p.Status)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE releases SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		if isDuplicate(err) {
			return model.Release{}, ErrConflict
		}
		return model.Release{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a release; pinned test cases cascade.
func (r *ReleaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM releases WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ----- release test cases -----

// AddTestCase pins a test case at a version into a release.
func (r *ReleaseRepo) AddTestCase(ctx context.Context, releaseID, testCaseID, version string, createdBy *string) (model.ReleaseTestCase, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO release_test_cases (id, release_id, test_case_id, version, created_by) VALUES (?,?,?,?,?)",
		id, releaseID, testCaseID, version, createdBy)
	if err != nil {
		if isDuplicate(err) {
			return model.ReleaseTestCase{}, ErrConflict
		}
		return model.ReleaseTestCase{}, err
	}
	var (
		rtc       model.ReleaseTestCase
		updatedAt sql.NullTime
		by        sql.NullString
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,release_id,test_case_id,version,created_at,updated_at,created_by FROM release_test_cases WHERE id=? LIMIT 1",
		id).Scan(&rtc.ID, &rtc.ReleaseID, &rtc.TestCaseID, &rtc.Version, &rtc.CreatedAt, &updatedAt, &by)
	if err != nil {
		return model.ReleaseTestCase{}, err
	}
	rtc.UpdatedAt = timePtr(updatedAt)
	rtc.CreatedBy = strPtr(by)
	return rtc, nil
}

// BulkAddTestCases pins several test cases at once, skipping ones already
// in the release, and returns how many rows were inserted. A missing test
// case still fails the whole batch at the foreign key.
func (r *ReleaseRepo) BulkAddTestCases(ctx context.Context, releaseID string, testCaseIDs []string, version string, createdBy *string) (int, error) {
	added := 0
	for _, tcID := range testCaseIDs {
		res, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO release_test_cases (id, release_id, test_case_id, version, created_by) VALUES (?,?,?,?,?)",
			uuid.NewString(), releaseID, tcID, version, createdBy)
		if err != nil {
			return added, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

// RemoveTestCase unpins a test case from a release.
func (r *ReleaseRepo) RemoveTestCase(ctx context.Context, releaseID, testCaseID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM release_test_cases WHERE release_id=? AND test_case_id=?", releaseID, testCaseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListTestCases returns the pins of a release joined with the current test
// case name and status.
func (r *ReleaseRepo) ListTestCases(ctx context.Context, releaseID string) ([]model.ReleaseTestCaseDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT rtc.id, rtc.release_id, rtc.test_case_id, rtc.version, rtc.created_at, rtc.updated_at, rtc.created_by,
		        tc.name, tc.status
		 FROM release_test_cases rtc
		 JOIN test_cases tc ON tc.id = rtc.test_case_id
		 WHERE rtc.release_id=? ORDER BY rtc.created_at`, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ReleaseTestCaseDetail{}
	for rows.Next() {
		var (
			d         model.ReleaseTestCaseDetail
			updatedAt sql.NullTime
			by        sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.ReleaseID, &d.TestCaseID, &d.Version, &d.CreatedAt,
			&updatedAt, &by, &d.TestCaseName, &d.TestCaseStatus); err != nil {
			return nil, err
		}
		d.UpdatedAt = timePtr(updatedAt)
		d.CreatedBy = strPtr(by)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats aggregates the pinned test cases of a release by current status.
// Progress is the share of pinned cases whose status is "passed".
func (r *ReleaseRepo) Stats(ctx context.Context, releaseID string) (model.ReleaseStats, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT tc.status, COUNT(*)
		 FROM release_test_cases rtc
		 JOIN test_cases tc ON tc.id = rtc.test_case_id
		 WHERE rtc.release_id=? GROUP BY tc.status`, releaseID)
	if err != nil {
		return model.ReleaseStats{}, err
	}
	defer rows.Close()

	stats := model.ReleaseStats{TestCasesByStatus: map[string]int{}}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return model.ReleaseStats{}, err
		}
		stats.TestCasesByStatus[status] = n
		stats.TotalTestCases += n
	}
	if err := rows.Err(); err != nil {
		return model.ReleaseStats{}, err
	}
	if stats.TotalTestCases > 0 {
		stats.ReleaseProgress = float64(stats.TestCasesByStatus["passed"]) / float64(stats.TotalTestCases) * 100
	}
	return stats, nil
}
