// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// TestRunQueuedEvent is published when a run is triggered for a project or
// a single test case. It carries enough information for the external test
// runner to pick up the job without querying the primary database.
type TestRunQueuedEvent struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	TestCaseID  string    `json:"test_case_id,omitempty"` // empty for whole-project runs
	TestName    string    `json:"test_name"`
	Environment string    `json:"environment"`
	RequestedBy string    `json:"requested_by"`
	QueuedAt    time.Time `json:"queued_at"`
}
