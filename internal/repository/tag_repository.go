package repository

import (
	"context"
	"database/sql"

	"github.com/qaops/test-manager/internal/model"
)

// TagRepo reads tag rows. Global tags have a NULL project_id.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// ListGlobal returns the tags available to every project.
func (r *TagRepo) ListGlobal(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, project_id, name, created_at FROM tags WHERE project_id IS NULL ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var (
			t         model.Tag
			projectID sql.NullString
		)
		if err := rows.Scan(&t.ID, &projectID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ProjectID = strPtr(projectID)
		out = append(out, t)
	}
	return out, rows.Err()
}
