package model

import "time"

// Step is one ordered action inside a test case or a fixture. Exactly one
// of TestCaseID and FixtureID is set; a step may additionally reference a
// fixture to call at that point.
type Step struct {
	ID                    string     `json:"id"`
	TestCaseID            *string    `json:"test_case_id"`
	FixtureID             *string    `json:"fixture_id"`
	Action                string     `json:"action"`
	Data                  *string    `json:"data"`
	Expected              *string    `json:"expected"`
	Script                *string    `json:"playwright_script"`
	Order                 int        `json:"order"`
	Disabled              bool       `json:"disabled"`
	ReferencedFixtureID   *string    `json:"referenced_fixture_id"`
	ReferencedFixtureType *string    `json:"referenced_fixture_type"` // extend | inline
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at"`
	CreatedBy             *string    `json:"created_by"`
	UpdatedBy             *string    `json:"updated_by"`
}
