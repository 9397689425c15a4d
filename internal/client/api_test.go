package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The add-locator flow: a successful create is followed by a refetch of
// the full list, and the new row is present in what comes back.
func TestAddLocatorThenRefetch(t *testing.T) {
	type locator struct {
		ID    string `json:"id"`
		Key   string `json:"locator_key"`
		Value string `json:"locator_value"`
	}
	stored := []locator{{ID: "L1", Key: "submit", Value: "#submit"}}
	var sequence []string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sequence = append(sequence, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var body locator
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body.ID = fmt.Sprintf("L%d", len(stored)+1)
			stored = append(stored, body)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(body)
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		}
	})

	ctx := context.Background()
	created, err := c.CreateLocator(ctx, "P1", "cancel", "#cancel")
	require.NoError(t, err)
	require.Equal(t, "cancel", created.Key)

	locs, err := c.ListLocators(ctx, "P1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /pages/P1/locators",
		"GET /pages/P1/locators",
	}, sequence)

	found := false
	for _, l := range locs {
		if l.ID == created.ID && l.Key == "cancel" {
			found = true
		}
	}
	assert.True(t, found, "created locator missing from refetched list: %+v", locs)
}

func TestTestCaseVersionEndpoints(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/test-cases/T1/versions":
			w.Write([]byte(`[
				{"id":"V2","test_case_id":"T1","version":"1.1.0","name":"login","created_at":"2026-02-01T00:00:00Z"},
				{"id":"V1","test_case_id":"T1","version":"1.0.0","name":"login","created_at":"2026-01-01T00:00:00Z"}
			]`))
		case "/test-cases/T1/versions/1.0.0/restore":
			w.Write([]byte(`{"id":"T1","name":"login","version":"1.0.0","status":"not-run"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"not found"}`))
		}
	})

	ctx := context.Background()
	versions, err := c.ListTestCaseVersions(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "1.1.0", versions[0].Version)

	tc, err := c.RestoreTestCaseVersion(ctx, "T1", "1.0.0")
	require.NoError(t, err)
	require.NotNil(t, tc.Version)
	assert.Equal(t, "1.0.0", *tc.Version)

	assert.Equal(t, []string{
		"GET /test-cases/T1/versions",
		"POST /test-cases/T1/versions/1.0.0/restore",
	}, paths)
}

func TestListFixtureStepsKeepsOrder(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fixtures/F1/steps", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"S1","fixture_id":"F1","action":"open login page","order":1},
			{"id":"S2","fixture_id":"F1","action":"fill credentials","order":2}
		]`))
	})

	steps, err := c.ListFixtureSteps(context.Background(), "F1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Order)
	assert.Equal(t, "fill credentials", steps[1].Action)
}

func TestBulkAddReleaseTestCases(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/projects/P1/releases/R1/test-cases/bulk", r.URL.Path)
		var body struct {
			TestCaseIDs []string `json:"test_case_ids"`
			Version     string   `json:"version"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"T1", "T2", "T3"}, body.TestCaseIDs)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message":"Added %d test cases to release","added_count":%d}`, 2, 2)
	})

	res, err := c.BulkAddReleaseTestCases(context.Background(), "P1", "R1", []string{"T1", "T2", "T3"}, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, res.AddedCount)
}

func TestRecentRunsDecodes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test-results/analytics/recent-runs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total_runs": 3,
			"successful_runs": 2,
			"failed_runs": 1,
			"recent_results": [{"id":"R1","project_id":"P1","success":true,"status":"passed"}]
		}`))
	})

	a, err := c.RecentRuns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalRuns)
	assert.Equal(t, 2, a.SuccessfulRuns)
	require.Len(t, a.RecentResults, 1)
	assert.True(t, a.RecentResults[0].Success)
}
