package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// ProjectRepo manages persistence for projects.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectCols = "id,name,description,environment,playwright_project_path," +
	"last_run,last_run_by,created_at,updated_at,created_by,updated_by"

func scanProject(scan func(dest ...any) error) (model.Project, error) {
	var (
		p           model.Project
		description sql.NullString
		path        sql.NullString
		lastRun     sql.NullTime
		lastRunBy   sql.NullString
		updatedAt   sql.NullTime
		createdBy   sql.NullString
		updatedBy   sql.NullString
	)
	err := scan(&p.ID, &p.Name, &description, &p.Environment, &path,
		&lastRun, &lastRunBy, &p.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.Project{}, err
	}
	p.Description = strPtr(description)
	p.ProjectPath = strPtr(path)
	p.LastRun = timePtr(lastRun)
	p.LastRunBy = strPtr(lastRunBy)
	p.UpdatedAt = timePtr(updatedAt)
	p.CreatedBy = strPtr(createdBy)
	p.UpdatedBy = strPtr(updatedBy)
	return p, nil
}

// CreateProjectParams carries the fields of a project insert.
type CreateProjectParams struct {
	Name        string
	Description *string
	Environment string
	ProjectPath *string
	CreatedBy   string
}

// Create inserts a project and returns the stored row.
func (r *ProjectRepo) Create(ctx context.Context, p CreateProjectParams) (model.Project, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO projects (id, name, description, environment, playwright_project_path, created_by) VALUES (?,?,?,?,?,?)",
		id, p.Name, p.Description, p.Environment, p.ProjectPath, p.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return model.Project{}, ErrConflict
		}
		return model.Project{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single project.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (model.Project, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? LIMIT 1", id)
	return scanProject(row.Scan)
}

// List returns projects ordered by creation time.
func (r *ProjectRepo) List(ctx context.Context, skip, limit int) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+projectCols+" FROM projects ORDER BY created_at LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProjectParams carries the optional fields of a project update.
type UpdateProjectParams struct {
	Name        *string
	Description *string
	Environment *string
	ProjectPath *string
	UpdatedBy   *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *ProjectRepo) Update(ctx context.Context, id string, p UpdateProjectParams) (model.Project, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		set = append(set, "description=?")
		args = append(args, *p.Description)
	}
	if p.Environment != nil {
		set = append(set, "environment=?")
		args = append(args, *p.Environment)
	}
	if p.ProjectPath != nil {
		set = append(set, "playwright_project_path=?")
		args = append(args, *p.ProjectPath)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE projects SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		return model.Project{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a project. Dependent rows cascade at the schema level.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StampLastRun records who queued the latest run and when.
func (r *ProjectRepo) StampLastRun(ctx context.Context, id, by string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE projects SET last_run=?, last_run_by=? WHERE id=?", at, by, id)
	return err
}

// CountTestCases returns the number of test cases under a project.
func (r *ProjectRepo) CountTestCases(ctx context.Context, id string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM test_cases WHERE project_id=?", id).Scan(&n)
	return n, err
}
