package client

import (
	"context"

	"github.com/qaops/test-manager/internal/model"
)

// SiblingExecution is one execution from the same result run, carrying the
// resolved test case name. When the name lookup failed the raw id stands in.
type SiblingExecution struct {
	model.Execution
	TestCaseName string `json:"test_case_name"`
}

// ExecutionDetail is the fully resolved view of one execution: the
// execution itself, its parent result, the test case that ran, and the
// sibling executions of the same run.
type ExecutionDetail struct {
	Execution model.Execution
	Result    model.TestResult
	TestCase  model.TestCase
	Siblings  []SiblingExecution
}

// FetchExecutionDetail aggregates the detail view. The fetches are
// sequenced: execution, then its parent result, then the test case, then
// the sibling executions with their name lookups. The first three are
// required; the sibling step degrades instead of failing — a lookup error
// for one name falls back to the raw id, and an error listing the siblings
// leaves the list empty. Name lookups are deduplicated per test case id.
func (c *Client) FetchExecutionDetail(ctx context.Context, executionID string) (ExecutionDetail, error) {
	var d ExecutionDetail

	exec, err := c.GetExecution(ctx, executionID)
	if err != nil {
		return d, err
	}
	d.Execution = exec

	res, err := c.GetResult(ctx, exec.TestResultID)
	if err != nil {
		return d, err
	}
	d.Result = res

	tc, err := c.GetTestCase(ctx, exec.TestCaseID)
	if err != nil {
		return d, err
	}
	d.TestCase = tc

	siblings, err := c.ListResultExecutions(ctx, res.ID)
	if err != nil {
		return d, nil
	}

	names := map[string]string{exec.TestCaseID: tc.Name}
	for _, s := range siblings {
		if _, ok := names[s.TestCaseID]; ok {
			continue
		}
		sc, err := c.GetTestCase(ctx, s.TestCaseID)
		if err != nil {
			names[s.TestCaseID] = s.TestCaseID
			continue
		}
		names[s.TestCaseID] = sc.Name
	}

	d.Siblings = make([]SiblingExecution, 0, len(siblings))
	for _, s := range siblings {
		d.Siblings = append(d.Siblings, SiblingExecution{Execution: s, TestCaseName: names[s.TestCaseID]})
	}
	return d, nil
}
