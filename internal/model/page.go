package model

import "time"

// Page is a named page belonging to a project; locators hang off it as a
// flat set of key -> selector records.
type Page struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	CreatedBy *string    `json:"created_by"`
	UpdatedBy *string    `json:"updated_by"`
}

// PageLocator is one named selector string on a page.
type PageLocator struct {
	ID        string     `json:"id"`
	PageID    string     `json:"page_id"`
	Key       string     `json:"locator_key"`
	Value     string     `json:"locator_value"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	CreatedBy *string    `json:"created_by"`
	UpdatedBy *string    `json:"updated_by"`
}
