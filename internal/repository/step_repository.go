package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/qaops/test-manager/internal/model"
)

// StepRepo manages the ordered steps of test cases and fixtures. A step
// belongs to exactly one parent; listings always come back sorted by the
// manual order column.
type StepRepo struct{ DB *sql.DB }

func NewStepRepo(db *sql.DB) *StepRepo { return &StepRepo{DB: db} }

const stepCols = "id,test_case_id,fixture_id,action,data,expected,playwright_script," +
	"sort_order,disabled,referenced_fixture_id,referenced_fixture_type," +
	"created_at,updated_at,created_by,updated_by"

func scanStep(scan func(dest ...any) error) (model.Step, error) {
	var (
		s         model.Step
		tcID      sql.NullString
		fxID      sql.NullString
		data      sql.NullString
		expected  sql.NullString
		script    sql.NullString
		refID     sql.NullString
		refType   sql.NullString
		updatedAt sql.NullTime
		createdBy sql.NullString
		updatedBy sql.NullString
	)
	err := scan(&s.ID, &tcID, &fxID, &s.Action, &data, &expected, &script,
		&s.Order, &s.Disabled, &refID, &refType, &s.CreatedAt, &updatedAt, &createdBy, &updatedBy)
	if err != nil {
		return model.Step{}, err
	}
	s.TestCaseID = strPtr(tcID)
	s.FixtureID = strPtr(fxID)
	s.Data = strPtr(data)
	s.Expected = strPtr(expected)
	s.Script = strPtr(script)
	s.ReferencedFixtureID = strPtr(refID)
	s.ReferencedFixtureType = strPtr(refType)
	s.UpdatedAt = timePtr(updatedAt)
	s.CreatedBy = strPtr(createdBy)
	s.UpdatedBy = strPtr(updatedBy)
	return s, nil
}

// CreateStepParams carries the fields of a step insert. Exactly one of
// TestCaseID and FixtureID must be set; the handler enforces this.
type CreateStepParams struct {
	TestCaseID            *string
	FixtureID             *string
	Action                string
	Data                  *string
	Expected              *string
	Script                *string
	Order                 int
	Disabled              bool
	ReferencedFixtureID   *string
	ReferencedFixtureType *string
	CreatedBy             *string
}

// Create inserts a step and returns the stored row.
func (r *StepRepo) Create(ctx context.Context, p CreateStepParams) (model.Step, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO steps (id, test_case_id, fixture_id, action, data, expected, playwright_script,
		  sort_order, disabled, referenced_fixture_id, referenced_fixture_type, created_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, p.TestCaseID, p.FixtureID, p.Action, p.Data, p.Expected, p.Script,
		p.Order, p.Disabled, p.ReferencedFixtureID, p.ReferencedFixtureType, p.CreatedBy)
	if err != nil {
		return model.Step{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single step.
func (r *StepRepo) GetByID(ctx context.Context, id string) (model.Step, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+stepCols+" FROM steps WHERE id=? LIMIT 1", id)
	return scanStep(row.Scan)
}

func (r *StepRepo) listBy(ctx context.Context, col, parentID string) ([]model.Step, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+stepCols+" FROM steps WHERE "+col+"=? ORDER BY sort_order", parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Step{}
	for rows.Next() {
		s, err := scanStep(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByTestCase returns the steps of a test case in execution order.
func (r *StepRepo) ListByTestCase(ctx context.Context, testCaseID string) ([]model.Step, error) {
	return r.listBy(ctx, "test_case_id", testCaseID)
}

// ListByFixture returns the steps of a fixture in execution order.
func (r *StepRepo) ListByFixture(ctx context.Context, fixtureID string) ([]model.Step, error) {
	return r.listBy(ctx, "fixture_id", fixtureID)
}

// MaxOrder returns the highest order value among the steps of a parent, or
// zero when the parent has none.
func (r *StepRepo) MaxOrder(ctx context.Context, parent StepParent, parentID string) (int, error) {
	var max sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT MAX(sort_order) FROM steps WHERE "+parent.column()+"=?", parentID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// UpdateStepParams carries the optional fields of a step update.
type UpdateStepParams struct {
	Action                *string
	Data                  *string
	Expected              *string
	Script                *string
	Order                 *int
	Disabled              *bool
	ReferencedFixtureID   *string
	ReferencedFixtureType *string
	UpdatedBy             *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *StepRepo) Update(ctx context.Context, id string, p UpdateStepParams) (model.Step, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if p.Action != nil {
		set = append(set, "action=?")
		args = append(args, *p.Action)
	}
	if p.Data != nil {
		set = append(set, "data=?")
		args = append(args, *p.Data)
	}
	if p.Expected != nil {
		set = append(set, "expected=?")
		args = append(args, *p.Expected)
	}
	if p.Script != nil {
		set = append(set, "playwright_script=?")
		args = append(args, *p.Script)
	}
	if p.Order != nil {
		set = append(set, "sort_order=?")
		args = append(args, *p.Order)
	}
	if p.Disabled != nil {
		set = append(set, "disabled=?")
		args = append(args, *p.Disabled)
	}
	if p.ReferencedFixtureID != nil {
		set = append(set, "referenced_fixture_id=?")
		args = append(args, *p.ReferencedFixtureID)
	}
	if p.ReferencedFixtureType != nil {
		set = append(set, "referenced_fixture_type=?")
		args = append(args, *p.ReferencedFixtureType)
	}
	if p.UpdatedBy != nil {
		set = append(set, "updated_by=?")
		args = append(args, *p.UpdatedBy)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE steps SET "+strings.Join(set, ",")+" WHERE id=?", args...); err != nil {
		return model.Step{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a step row.
func (r *StepRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM steps WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StepParent selects which side a step hangs off when reordering.
type StepParent int

const (
	StepParentTestCase StepParent = iota
	StepParentFixture
)

func (p StepParent) column() string {
	if p == StepParentFixture {
		return "fixture_id"
	}
	return "test_case_id"
}

// StepOrder is one entry of a reorder request.
type StepOrder struct {
	StepID string `json:"step_id"`
	Order  int    `json:"order"`
}

// Reorder rewrites the order column of the named steps, touching only
// steps that belong to the given parent. Unknown or foreign step ids are
// skipped silently, matching the partial-apply semantics of the endpoint.
func (r *StepRepo) Reorder(ctx context.Context, parent StepParent, parentID string, orders []StepOrder) error {
	for _, o := range orders {
		_, err := r.DB.ExecContext(ctx,
			"UPDATE steps SET sort_order=?, updated_at=NOW() WHERE id=? AND "+parent.column()+"=?",
			o.Order, o.StepID, parentID)
		if err != nil {
			return err
		}
	}
	return nil
}
