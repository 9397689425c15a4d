package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// PageRepo manages persistence for pages and their locators.
type PageRepo struct{ DB *sql.DB }

func NewPageRepo(db *sql.DB) *PageRepo { return &PageRepo{DB: db} }

const pageCols = "id,project_id,name,created_at,updated_at,created_by,updated_by"
const locatorCols = "id,page_id,locator_key,locator_value,created_at,updated_at,created_by,updated_by"

func scanPage(scan func(dest ...any) error) (model.Page, error) {
	var (
		p         model.Page
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := scan(&p.ID, &p.ProjectID, &p.Name, &p.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.Page{}, err
	}
	p.UpdatedAt = timePtr(updatedAt)
	p.CreatedBy = strPtr(createdBy)
	p.UpdatedBy = strPtr(updatedBy)
	return p, nil
}

func scanLocator(scan func(dest ...any) error) (model.PageLocator, error) {
	var (
		l         model.PageLocator
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := scan(&l.ID, &l.PageID, &l.Key, &l.Value, &l.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.PageLocator{}, err
	}
	l.UpdatedAt = timePtr(updatedAt)
	l.CreatedBy = strPtr(createdBy)
	l.UpdatedBy = strPtr(updatedBy)
	return l, nil
}

// Create inserts a page and returns the stored row.
func (r *PageRepo) Create(ctx context.Context, projectID, name string, createdBy *string) (model.Page, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO pages (id, project_id, name, created_by) VALUES (?,?,?,?)",
		id, projectID, name, createdBy)
	if err != nil {
		return model.Page{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single page.
func (r *PageRepo) GetByID(ctx context.Context, id string) (model.Page, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+pageCols+" FROM pages WHERE id=? LIMIT 1", id)
	return scanPage(row.Scan)
}

// List returns pages, optionally filtered to one project.
func (r *PageRepo) List(ctx context.Context, projectID string, skip, limit int) ([]model.Page, error) {
	where := "1=1"
	args := []any{}
	if projectID != "" {
		where = "project_id=?"
		args = append(args, projectID)
	}
	args = append(args, limit, skip)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+pageCols+" FROM pages WHERE "+where+" ORDER BY created_at LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Page{}
	for rows.Next() {
		p, err := scanPage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update renames a page and returns the updated row.
func (r *PageRepo) Update(ctx context.Context, id string, name *string, updatedBy *string) (model.Page, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if name != nil {
		set = append(set, "name=?")
		args = append(args, *name)
	}
	if updatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *updatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE pages SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		return model.Page{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a page; its locators cascade at the schema level.
func (r *PageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM pages WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ----- locators -----

// CreateLocator inserts a locator under a page.
func (r *PageRepo) CreateLocator(ctx context.Context, pageID, key, value string, createdBy *string) (model.PageLocator, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO page_locators (id, page_id, locator_key, locator_value, created_by) VALUES (?,?,?,?,?)",
		id, pageID, key, value, createdBy)
	if err != nil {
		if isDuplicate(err) {
			return model.PageLocator{}, ErrConflict
		}
		return model.PageLocator{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+locatorCols+" FROM page_locators WHERE id=? LIMIT 1", id)
	return scanLocator(row.Scan)
}

// ListLocators returns the locators of a page ordered by key.
func (r *PageRepo) ListLocators(ctx context.Context, pageID string, skip, limit int) ([]model.PageLocator, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+locatorCols+" FROM page_locators WHERE page_id=? ORDER BY locator_key LIMIT ? OFFSET ?",
		pageID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PageLocator{}
	for rows.Next() {
		l, err := scanLocator(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLocator applies the non-nil fields of a locator belonging to the
// given page and returns the updated row.
func (r *PageRepo) UpdateLocator(ctx context.Context, pageID, locatorID string, key, value, updatedBy *string) (model.PageLocator, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if key != nil {
		set = append(set, "locator_key=?")
		args = append(args, *key)
	}
	if value != nil {
		set = append(set, "locator_value=?")
		args = append(args, *value)
	}
	if updatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *updatedBy)
	}
	args = append(args, locatorID, pageID)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE page_locators SET "+strings.Join(set, ",")+" WHERE id=? AND page_id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			return model.PageLocator{}, ErrConflict
		}
		return model.PageLocator{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish "missing" from "unchanged"
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM page_locators WHERE id=? AND page_id=?", locatorID, pageID).Scan(&exists); err != nil {
			return model.PageLocator{}, err
		}
		if exists == 0 {
			return model.PageLocator{}, sql.ErrNoRows
		}
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+locatorCols+" FROM page_locators WHERE id=? LIMIT 1", locatorID)
	return scanLocator(row.Scan)
}

// DeleteLocator removes one locator of a page.
func (r *PageRepo) DeleteLocator(ctx context.Context, pageID, locatorID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM page_locators WHERE id=? AND page_id=?", locatorID, pageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
