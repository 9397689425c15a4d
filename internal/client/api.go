package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/qaops/test-manager/internal/model"
)

// Typed endpoint calls. These are thin: every one goes through Call so
// the error normalization in client.go applies uniformly.

// TokenInfo is one token plus its expiry as returned by the auth endpoints.
type TokenInfo struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// LoginResult is the session material returned by the login endpoint.
type LoginResult struct {
	User    model.User `json:"user"`
	Access  TokenInfo  `json:"access"`
	Refresh TokenInfo  `json:"refresh"`
}

// Login authenticates and stores the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.Call(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return LoginResult{}, err
	}
	if err := c.Tokens.SetToken(out.Access.Token); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Logout revokes the server session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Call(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if cerr := c.Tokens.Clear(); cerr != nil && err == nil {
		err = cerr
	}
	if err == ErrUnauthorized {
		// session was already gone
		return nil
	}
	return err
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.Call(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}

// CreateUserInput is the create-user form payload.
type CreateUserInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	var u model.User
	err := c.Call(ctx, http.MethodPost, "/users", in, &u)
	return u, err
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.Call(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Call(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := c.Call(ctx, http.MethodGet, "/projects", nil, &out)
	return out, err
}

func (c *Client) ListProjectsWithStats(ctx context.Context) ([]model.ProjectWithStats, error) {
	var out []model.ProjectWithStats
	err := c.Call(ctx, http.MethodGet, "/projects/with-stats", nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (model.ProjectWithStats, error) {
	var out model.ProjectWithStats
	err := c.Call(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &out)
	return out, err
}

// ListTestCases filters by project and status when non-empty.
func (c *Client) ListTestCases(ctx context.Context, projectID, status string) ([]model.TestCase, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/test-cases"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []model.TestCase
	err := c.Call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetTestCase(ctx context.Context, id string) (model.TestCase, error) {
	var out model.TestCase
	err := c.Call(ctx, http.MethodGet, "/test-cases/"+url.PathEscape(id), nil, &out)
	return out, err
}

// ListTestCaseVersions returns the snapshots of a test case, newest first.
func (c *Client) ListTestCaseVersions(ctx context.Context, id string) ([]model.TestCaseVersion, error) {
	var out []model.TestCaseVersion
	err := c.Call(ctx, http.MethodGet, "/test-cases/"+url.PathEscape(id)+"/versions", nil, &out)
	return out, err
}

// RestoreTestCaseVersion rolls a test case back to a snapshot.
func (c *Client) RestoreTestCaseVersion(ctx context.Context, id, version string) (model.TestCase, error) {
	var out model.TestCase
	err := c.Call(ctx, http.MethodPost,
		fmt.Sprintf("/test-cases/%s/versions/%s/restore", url.PathEscape(id), url.PathEscape(version)),
		nil, &out)
	return out, err
}

func (c *Client) ListTestCaseSteps(ctx context.Context, id string) ([]model.Step, error) {
	var out []model.Step
	err := c.Call(ctx, http.MethodGet, "/test-cases/"+url.PathEscape(id)+"/steps", nil, &out)
	return out, err
}

func (c *Client) ListFixtures(ctx context.Context, projectID string) ([]model.Fixture, error) {
	path := "/fixtures"
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}
	var out []model.Fixture
	err := c.Call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetFixture(ctx context.Context, id string) (model.Fixture, error) {
	var out model.Fixture
	err := c.Call(ctx, http.MethodGet, "/fixtures/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListFixtureSteps(ctx context.Context, id string) ([]model.Step, error) {
	var out []model.Step
	err := c.Call(ctx, http.MethodGet, "/fixtures/"+url.PathEscape(id)+"/steps", nil, &out)
	return out, err
}

func (c *Client) ListPages(ctx context.Context, projectID string) ([]model.Page, error) {
	path := "/pages"
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}
	var out []model.Page
	err := c.Call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ListLocators(ctx context.Context, pageID string) ([]model.PageLocator, error) {
	var out []model.PageLocator
	err := c.Call(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID)+"/locators", nil, &out)
	return out, err
}

func (c *Client) CreateLocator(ctx context.Context, pageID, key, value string) (model.PageLocator, error) {
	var out model.PageLocator
	err := c.Call(ctx, http.MethodPost, "/pages/"+url.PathEscape(pageID)+"/locators",
		map[string]string{"locator_key": key, "locator_value": value}, &out)
	return out, err
}

func (c *Client) DeleteLocator(ctx context.Context, pageID, locatorID string) error {
	return c.Call(ctx, http.MethodDelete,
		fmt.Sprintf("/pages/%s/locators/%s", url.PathEscape(pageID), url.PathEscape(locatorID)), nil, nil)
}

func (c *Client) ListReleases(ctx context.Context, projectID string) ([]model.ReleaseSummary, error) {
	var out []model.ReleaseSummary
	err := c.Call(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/releases", nil, &out)
	return out, err
}

// BulkAddResult reports how many cases a bulk pin actually added; already-pinned
// ids are skipped server-side and do not count.
type BulkAddResult struct {
	Message    string `json:"message"`
	AddedCount int    `json:"added_count"`
}

func (c *Client) BulkAddReleaseTestCases(ctx context.Context, projectID, releaseID string, testCaseIDs []string, version string) (BulkAddResult, error) {
	var out BulkAddResult
	err := c.Call(ctx, http.MethodPost,
		fmt.Sprintf("/projects/%s/releases/%s/test-cases/bulk", url.PathEscape(projectID), url.PathEscape(releaseID)),
		map[string]any{"test_case_ids": testCaseIDs, "version": version}, &out)
	return out, err
}

func (c *Client) ListResults(ctx context.Context, projectID string) ([]model.TestResult, error) {
	path := "/test-results"
	if projectID != "" {
		path = "/test-results/projects/" + url.PathEscape(projectID) + "/results"
	}
	var out []model.TestResult
	err := c.Call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetResult(ctx context.Context, id string) (model.TestResult, error) {
	var out model.TestResult
	err := c.Call(ctx, http.MethodGet, "/test-results/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) GetExecution(ctx context.Context, id string) (model.Execution, error) {
	var out model.Execution
	err := c.Call(ctx, http.MethodGet, "/test-results/executions/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListResultExecutions(ctx context.Context, resultID string) ([]model.Execution, error) {
	var out []model.Execution
	err := c.Call(ctx, http.MethodGet, "/test-results/"+url.PathEscape(resultID)+"/executions", nil, &out)
	return out, err
}

// RunAnalytics is the recent-runs rollup served by the analytics endpoint.
type RunAnalytics struct {
	TotalRuns      int                `json:"total_runs"`
	SuccessfulRuns int                `json:"successful_runs"`
	FailedRuns     int                `json:"failed_runs"`
	RecentResults  []model.TestResult `json:"recent_results"`
}

func (c *Client) RecentRuns(ctx context.Context) (RunAnalytics, error) {
	var out RunAnalytics
	err := c.Call(ctx, http.MethodGet, "/test-results/analytics/recent-runs", nil, &out)
	return out, err
}
