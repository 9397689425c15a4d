package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaops/test-manager/internal/model"
)

// fakeAPI serves the endpoints the execution-detail aggregation touches
// and counts test case lookups per id.
type fakeAPI struct {
	mu          sync.Mutex
	nameLookups map[string]int

	execution model.Execution
	result    model.TestResult
	testCases map[string]model.TestCase
	siblings  []model.Execution
	failOn    map[string]int // path suffix -> status to answer with
}

func (f *fakeAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for suffix, status := range f.failOn {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.WriteHeader(status)
				w.Write([]byte(`{"detail":"boom"}`))
				return
			}
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/test-results/executions/"):
			json.NewEncoder(w).Encode(f.execution)
		case strings.HasSuffix(r.URL.Path, "/executions"):
			json.NewEncoder(w).Encode(f.siblings)
		case strings.HasPrefix(r.URL.Path, "/test-results/"):
			json.NewEncoder(w).Encode(f.result)
		case strings.HasPrefix(r.URL.Path, "/test-cases/"):
			id := strings.TrimPrefix(r.URL.Path, "/test-cases/")
			f.mu.Lock()
			f.nameLookups[id]++
			f.mu.Unlock()
			tc, ok := f.testCases[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"detail":"Test case not found"}`))
				return
			}
			json.NewEncoder(w).Encode(tc)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nameLookups: map[string]int{},
		execution:   model.Execution{ID: "E1", TestResultID: "R1", TestCaseID: "T1", Status: "passed"},
		result:      model.TestResult{ID: "R1", ProjectID: "P1", Status: "passed"},
		testCases: map[string]model.TestCase{
			"T1": {ID: "T1", ProjectID: "P1", Name: "login works"},
			"T2": {ID: "T2", ProjectID: "P1", Name: "logout works"},
		},
		siblings: []model.Execution{
			{ID: "X1", TestResultID: "R1", TestCaseID: "T1", Status: "passed"},
			{ID: "X2", TestResultID: "R1", TestCaseID: "T1", Status: "failed"},
		},
		failOn: map[string]int{},
	}
}

func TestExecutionDetailDeduplicatesNameLookups(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, &MemoryStore{})
	d, err := c.FetchExecutionDetail(context.Background(), "E1")
	require.NoError(t, err)

	// one lookup total for T1: the primary fetch seeds the name map
	assert.Equal(t, 1, api.nameLookups["T1"])

	require.Len(t, d.Siblings, 2)
	assert.Equal(t, "login works", d.Siblings[0].TestCaseName)
	assert.Equal(t, "login works", d.Siblings[1].TestCaseName)
}

func TestExecutionDetailResolvesDistinctNames(t *testing.T) {
	api := newFakeAPI()
	api.siblings = []model.Execution{
		{ID: "X1", TestResultID: "R1", TestCaseID: "T1", Status: "passed"},
		{ID: "X2", TestResultID: "R1", TestCaseID: "T2", Status: "passed"},
	}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, &MemoryStore{})
	d, err := c.FetchExecutionDetail(context.Background(), "E1")
	require.NoError(t, err)

	require.Len(t, d.Siblings, 2)
	assert.Equal(t, "login works", d.Siblings[0].TestCaseName)
	assert.Equal(t, "logout works", d.Siblings[1].TestCaseName)
}

func TestExecutionDetailFallsBackToRawID(t *testing.T) {
	api := newFakeAPI()
	api.siblings = append(api.siblings,
		model.Execution{ID: "X3", TestResultID: "R1", TestCaseID: "T-missing", Status: "blocked"})
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, &MemoryStore{})
	d, err := c.FetchExecutionDetail(context.Background(), "E1")
	require.NoError(t, err)

	require.Len(t, d.Siblings, 3)
	assert.Equal(t, "T-missing", d.Siblings[2].TestCaseName)
}

func TestExecutionDetailDegradesWithoutSiblings(t *testing.T) {
	api := newFakeAPI()
	api.failOn["/executions"] = http.StatusInternalServerError
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, &MemoryStore{})
	d, err := c.FetchExecutionDetail(context.Background(), "E1")
	require.NoError(t, err)

	// the page still renders, just without a worklist
	assert.Equal(t, "E1", d.Execution.ID)
	assert.Equal(t, "login works", d.TestCase.Name)
	assert.Empty(t, d.Siblings)
}

func TestExecutionDetailRequiredStepsFail(t *testing.T) {
	api := newFakeAPI()
	api.failOn["/test-results/executions/E1"] = http.StatusNotFound
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, &MemoryStore{})
	_, err := c.FetchExecutionDetail(context.Background(), "E1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
