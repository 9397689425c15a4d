package model

import "time"

// Tag is a label usable on test cases. A NULL project_id marks a global tag
// available to every project.
type Tag struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
