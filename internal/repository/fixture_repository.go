package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// FixtureRepo manages persistence for fixtures and their version
// snapshots. Versioning follows the same scheme as test cases: every
// update stores the previous row under a version string first.
type FixtureRepo struct{ DB *sql.DB }

func NewFixtureRepo(db *sql.DB) *FixtureRepo { return &FixtureRepo{DB: db} }

const fixtureCols = "id,project_id,name,type,status,playwright_script,filename," +
	"export_name,fixture_file_path,created_at,updated_at,created_by,updated_by"

const fixtureVersionCols = "id,fixture_id,version,name,playwright_script,created_at"

func scanFixture(scan func(dest ...any) error) (model.Fixture, error) {
	var (
		f          model.Fixture
		script     sql.NullString
		filename   sql.NullString
		exportName sql.NullString
		filePath   sql.NullString
		updatedAt  sql.NullTime
		createdBy  sql.NullString
		updatedBy  sql.NullString
	)
	err := scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Status, &script, &filename,
		&exportName, &filePath, &f.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.Fixture{}, err
	}
	f.Script = strPtr(script)
	f.Filename = strPtr(filename)
	f.ExportName = strPtr(exportName)
	f.FilePath = strPtr(filePath)
	f.UpdatedAt = timePtr(updatedAt)
	f.CreatedBy = strPtr(createdBy)
	f.UpdatedBy = strPtr(updatedBy)
	return f, nil
}

func scanFixtureVersion(scan func(dest ...any) error) (model.FixtureVersion, error) {
	var (
		v      model.FixtureVersion
		script sql.NullString
	)
	err := scan(&v.ID, &v.FixtureID, &v.Version, &v.Name, &script, &v.CreatedAt)
	if err != nil {
		return model.FixtureVersion{}, err
	}
	v.Script = strPtr(script)
	return v, nil
}

// CreateFixtureParams carries the fields of a fixture insert.
type CreateFixtureParams struct {
	ProjectID  string
	Name       string
	Type       string
	Status     string
	Script     *string
	Filename   *string
	ExportName *string
	FilePath   *string
	CreatedBy  *string
}

// Create inserts a fixture and its initial "1.0.0" version snapshot.
func (r *FixtureRepo) Create(ctx context.Context, p CreateFixtureParams) (model.Fixture, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO fixtures (id, project_id, name, type, status, playwright_script,
		  filename, export_name, fixture_file_path, created_by) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, p.ProjectID, p.Name, p.Type, p.Status, p.Script,
		p.Filename, p.ExportName, p.FilePath, p.CreatedBy)
	if err != nil {
		return model.Fixture{}, err
	}
	f, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Fixture{}, err
	}
	if _, err := r.SnapshotVersion(ctx, f, "1.0.0"); err != nil {
		return model.Fixture{}, err
	}
	return f, nil
}

// GetByID fetches a single fixture.
func (r *FixtureRepo) GetByID(ctx context.Context, id string) (model.Fixture, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+fixtureCols+" FROM fixtures WHERE id=? LIMIT 1", id)
	return scanFixture(row.Scan)
}

// List returns fixtures, optionally filtered to one project.
func (r *FixtureRepo) List(ctx context.Context, projectID string, skip, limit int) ([]model.Fixture, error) {
	where := "1=1"
	args := []any{}
	if projectID != "" {
		where = "project_id=?"
		args = append(args, projectID)
	}
	args = append(args, limit, skip)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+fixtureCols+" FROM fixtures WHERE "+where+" ORDER BY created_at LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Fixture{}
	for rows.Next() {
		f, err := scanFixture(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateFixtureParams carries the optional fields of a fixture update.
type UpdateFixtureParams struct {
	Name       *string
	Type       *string
	Status     *string
	Script     *string
	Filename   *string
	ExportName *string
	FilePath   *string
	UpdatedBy  *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *FixtureRepo) Update(ctx context.Context, id string, p UpdateFixtureParams) (model.Fixture, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, *p.Name)
	}
	if p.Type != nil {
		set = append(set, "type=?")
		args = append(args, *p.Type)
	}
	if p.Status != nil {
		set = append(set, "status=?")
		args = append(args, *p.Status)
	}
	if p.Script != nil {
		set = append(set, "playwright_script=?")
		args = append(args, *p.Script)
	}
	if p.Filename != nil {
		set = append(set, "filename=?")
		args = append(args, *p.Filename)
	}
	if p.ExportName != nil {
		set = append(set, "export_name=?")
		args = append(args, *p.ExportName)
	}
	if p.FilePath != nil {
		set = append(set, "fixture_file_path=?")
		args = append(args, *p.FilePath)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE fixtures SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		return model.Fixture{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus sets the fixture status.
func (r *FixtureRepo) UpdateStatus(ctx context.Context, id, status string, updatedBy *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE fixtures SET status=?, updated_by=?, updated_at=NOW() WHERE id=?",
		status, updatedBy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a fixture; its steps and versions cascade.
func (r *FixtureRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM fixtures WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SnapshotVersion stores an immutable copy of the fixture under the given
// version string; an empty version derives the next one from the snapshot
// count ("1.<count>.0").
func (r *FixtureRepo) SnapshotVersion(ctx context.Context, f model.Fixture, version string) (model.FixtureVersion, error) {
	if version == "" {
		var count int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM fixture_versions WHERE fixture_id=?", f.ID).Scan(&count); err != nil {
			return model.FixtureVersion{}, err
		}
		version = fmt.Sprintf("1.%d.0", count)
	}
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO fixture_versions (id, fixture_id, version, name, playwright_script) VALUES (?,?,?,?,?)",
		id, f.ID, version, f.Name, f.Script)
	if err != nil {
		return model.FixtureVersion{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+fixtureVersionCols+" FROM fixture_versions WHERE id=? LIMIT 1", id)
	return scanFixtureVersion(row.Scan)
}

// ListVersions returns every snapshot of a fixture, newest first.
func (r *FixtureRepo) ListVersions(ctx context.Context, fixtureID string) ([]model.FixtureVersion, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+fixtureVersionCols+" FROM fixture_versions WHERE fixture_id=? ORDER BY created_at DESC",
		fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FixtureVersion{}
	for rows.Next() {
		v, err := scanFixtureVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVersion fetches one snapshot of a fixture by its version string.
func (r *FixtureRepo) GetVersion(ctx context.Context, fixtureID, version string) (model.FixtureVersion, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+fixtureVersionCols+" FROM fixture_versions WHERE fixture_id=? AND version=? LIMIT 1",
		fixtureID, version)
	return scanFixtureVersion(row.Scan)
}

// RestoreVersion rewrites the fixture with the content of a snapshot.
func (r *FixtureRepo) RestoreVersion(ctx context.Context, id string, v model.FixtureVersion, updatedBy *string) (model.Fixture, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE fixtures SET name=?, playwright_script=?, updated_by=?, updated_at=NOW() WHERE id=?",
		v.Name, v.Script, updatedBy, id)
	if err != nil {
		return model.Fixture{}, err
	}
	return r.GetByID(ctx, id)
}
