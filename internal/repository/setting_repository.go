package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// SettingRepo manages project-scoped key/value settings. The schema has a
// unique index on (project_id, key) so duplicates surface as ErrConflict.
type SettingRepo struct{ DB *sql.DB }

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{DB: db} }

const settingCols = "id,project_id,setting_key,setting_value,created_at,updated_at,created_by,updated_by"

func scanSetting(scan func(dest ...any) error) (model.ProjectSetting, error) {
	var (
		s         model.ProjectSetting
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := scan(&s.ID, &s.ProjectID, &s.Key, &s.Value, &s.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.ProjectSetting{}, err
	}
	s.UpdatedAt = timePtr(updatedAt)
	s.CreatedBy = strPtr(createdBy)
	s.UpdatedBy = strPtr(updatedBy)
	return s, nil
}

// Create inserts a setting row for a project.
func (r *SettingRepo) Create(ctx context.Context, projectID, key, value string, createdBy *string) (model.ProjectSetting, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO project_settings (id, project_id, setting_key, setting_value, created_by) VALUES (?,?,?,?,?)",
		id, projectID, key, value, createdBy)
	if err != nil {
		if isDuplicate(err) {
			return model.ProjectSetting{}, ErrConflict
		}
		return model.ProjectSetting{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+settingCols+" FROM project_settings WHERE id=? LIMIT 1", id)
	return scanSetting(row.Scan)
}

// ListByProject returns all settings for a project ordered by key.
func (r *SettingRepo) ListByProject(ctx context.Context, projectID string) ([]model.ProjectSetting, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+settingCols+" FROM project_settings WHERE project_id=? ORDER BY setting_key", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ProjectSetting{}
	for rows.Next() {
		s, err := scanSetting(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Dict returns the settings of a project as a key -> value map.
func (r *SettingRepo) Dict(ctx context.Context, projectID string) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT setting_key, setting_value FROM project_settings WHERE project_id=?", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// GetByKey fetches a single setting of a project.
func (r *SettingRepo) GetByKey(ctx context.Context, projectID, key string) (model.ProjectSetting, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+settingCols+" FROM project_settings WHERE project_id=? AND setting_key=? LIMIT 1",
		projectID, key)
	return scanSetting(row.Scan)
}

// Upsert creates the setting when absent, otherwise overwrites its value.
func (r *SettingRepo) Upsert(ctx context.Context, projectID, key, value string, updatedBy *string) (model.ProjectSetting, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO project_settings (id, project_id, setting_key, setting_value, created_by)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE setting_value=VALUES(setting_value), updated_by=?, updated_at=NOW()`,
		uuid.NewString(), projectID, key, value, updatedBy, updatedBy)
	if err != nil {
		return model.ProjectSetting{}, err
	}
	return r.GetByKey(ctx, projectID, key)
}

// DeleteByKey removes one setting of a project.
func (r *SettingRepo) DeleteByKey(ctx context.Context, projectID, key string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM project_settings WHERE project_id=? AND setting_key=?", projectID, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
