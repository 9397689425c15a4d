package router // route registration for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/qaops/test-manager/internal/config"
	"github.com/qaops/test-manager/internal/handler"
	"github.com/qaops/test-manager/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Projects    *handler.ProjectHandler
	TestCases   *handler.TestCaseHandler
	Fixtures    *handler.FixtureHandler
	Steps       *handler.StepHandler
	Pages       *handler.PageHandler
	TestResults *handler.TestResultHandler
	Tags        *handler.TagHandler
}

// Register wires every route onto the Echo instance. Unauthenticated
// operations live under /api/v1/auth plus the health check; everything
// else requires a valid access token.
func Register(e *echo.Echo, db *sql.DB, rdb *redis.Client, cfg config.Config, h Handlers) {
	// Health check for load balancers and monitoring. No auth, no limits.
	e.GET("/healthz", handler.Health(db))

	// Rate limiting applies to the whole API surface. With no Redis
	// client the middleware passes requests through untouched.
	cacheCfg := config.LoadCacheConfig()
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	pub := e.Group("/api/v1", rl)
	pub.POST("/auth/login", h.Auth.Login)
	pub.POST("/auth/refresh", h.Auth.Refresh)

	// Protected endpoints. Both roles may read and write; destructive
	// user administration stays ADMIN-only below.
	// Writes bump the cache generation so cached list responses never
	// outlive a mutation.
	api := e.Group("/api/v1", rl,
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("ADMIN", "USER"),
		middleware.NewCacheInvalidator(cacheCfg, rdb))

	api.GET("/auth/me", h.Auth.Me)
	// logout accepts a refresh token in the body (revoke one session) or
	// just the bearer token (revoke all sessions of the user)
	api.POST("/auth/logout", h.Auth.Logout)

	api.POST("/users", h.Users.Create)
	api.GET("/users", h.Users.List, cache)
	api.GET("/users/:id", h.Users.Get)
	api.PUT("/users/:id", h.Users.Update)
	api.DELETE("/users/:id", h.Users.Delete, middleware.RequireRole("ADMIN"))

	api.POST("/projects", h.Projects.Create)
	api.GET("/projects", h.Projects.List, cache)
	api.GET("/projects/with-stats", h.Projects.ListWithStats)
	api.GET("/projects/:id", h.Projects.Get)
	api.PUT("/projects/:id", h.Projects.Update)
	api.DELETE("/projects/:id", h.Projects.Delete)

	api.GET("/projects/:id/settings", h.Projects.ListSettings)
	api.GET("/projects/:id/settings/dict", h.Projects.SettingsDict)
	api.POST("/projects/:id/settings", h.Projects.CreateSetting)
	api.GET("/projects/:id/settings/:key", h.Projects.GetSetting)
	api.PUT("/projects/:id/settings/:key", h.Projects.UpsertSetting)
	api.DELETE("/projects/:id/settings/:key", h.Projects.DeleteSetting)

	api.POST("/projects/:id/releases", h.Projects.CreateRelease)
	api.GET("/projects/:id/releases", h.Projects.ListReleases)
	api.GET("/projects/:id/releases/:releaseId", h.Projects.GetRelease)
	api.PUT("/projects/:id/releases/:releaseId", h.Projects.UpdateRelease)
	api.DELETE("/projects/:id/releases/:releaseId", h.Projects.DeleteRelease)
	api.POST("/projects/:id/releases/:releaseId/test-cases", h.Projects.AddReleaseTestCase)
	api.POST("/projects/:id/releases/:releaseId/test-cases/bulk", h.Projects.BulkAddReleaseTestCases)
	api.GET("/projects/:id/releases/:releaseId/test-cases", h.Projects.ListReleaseTestCases)
	api.DELETE("/projects/:id/releases/:releaseId/test-cases/:testCaseId", h.Projects.RemoveReleaseTestCase)
	api.GET("/projects/:id/releases/:releaseId/stats", h.Projects.ReleaseStats)

	api.POST("/test-cases", h.TestCases.Create)
	api.GET("/test-cases", h.TestCases.List, cache)
	api.GET("/test-cases/:id", h.TestCases.Get)
	api.PUT("/test-cases/:id", h.TestCases.Update)
	api.PATCH("/test-cases/:id/status", h.TestCases.UpdateStatus)
	api.DELETE("/test-cases/:id", h.TestCases.Delete)
	api.GET("/test-cases/:id/versions", h.TestCases.ListVersions)
	api.GET("/test-cases/:id/versions/:version", h.TestCases.GetVersion)
	api.POST("/test-cases/:id/versions/:version/restore", h.TestCases.RestoreVersion)
	api.GET("/test-cases/:id/steps", h.Steps.ListForTestCase)
	api.POST("/test-cases/:id/steps", h.Steps.CreateForTestCase)
	api.PATCH("/test-cases/:id/steps/reorder", h.Steps.ReorderForTestCase)

	api.POST("/fixtures", h.Fixtures.Create)
	api.GET("/fixtures", h.Fixtures.List, cache)
	api.GET("/fixtures/:id", h.Fixtures.Get)
	api.PUT("/fixtures/:id", h.Fixtures.Update)
	api.PATCH("/fixtures/:id/status", h.Fixtures.UpdateStatus)
	api.DELETE("/fixtures/:id", h.Fixtures.Delete)
	api.GET("/fixtures/:id/versions", h.Fixtures.ListVersions)
	api.GET("/fixtures/:id/versions/:version", h.Fixtures.GetVersion)
	api.POST("/fixtures/:id/versions/:version/restore", h.Fixtures.RestoreVersion)
	api.GET("/fixtures/:id/versions/:version/steps", h.Fixtures.VersionSteps)
	api.GET("/fixtures/:id/steps", h.Steps.ListForFixture)
	api.POST("/fixtures/:id/steps", h.Steps.CreateForFixture)
	api.PATCH("/fixtures/:id/steps/reorder", h.Steps.ReorderForFixture)

	api.POST("/steps", h.Steps.Create)
	api.GET("/steps/:id", h.Steps.Get)
	api.PUT("/steps/:id", h.Steps.Update)
	api.DELETE("/steps/:id", h.Steps.Delete)

	api.POST("/pages", h.Pages.Create)
	api.GET("/pages", h.Pages.List, cache)
	api.GET("/pages/:id", h.Pages.Get)
	api.PUT("/pages/:id", h.Pages.Update)
	api.DELETE("/pages/:id", h.Pages.Delete)
	api.POST("/pages/:id/locators", h.Pages.CreateLocator)
	api.GET("/pages/:id/locators", h.Pages.ListLocators)
	api.PUT("/pages/:id/locators/:locatorId", h.Pages.UpdateLocator)
	api.DELETE("/pages/:id/locators/:locatorId", h.Pages.DeleteLocator)

	api.GET("/test-results", h.TestResults.List, cache)
	api.GET("/test-results/analytics/recent-runs", h.TestResults.RecentRuns)
	api.GET("/test-results/:id", h.TestResults.Get)
	api.GET("/test-results/:id/executions", h.TestResults.ListExecutions)
	api.GET("/test-results/executions/:id", h.TestResults.GetExecution)
	api.GET("/test-results/projects/:id/results", h.TestResults.ListByProject)
	api.GET("/test-results/projects/:id/results/latest", h.TestResults.LatestByProject)
	api.GET("/test-results/projects/:id/stats", h.TestResults.ProjectStats)
	api.GET("/test-results/test-cases/:id/executions", h.TestResults.ListByTestCase)
	api.GET("/test-results/test-cases/:id/stats", h.TestResults.TestCaseStats)
	api.POST("/test-results/projects/:id/run", h.TestResults.RunProject)
	api.POST("/test-results/test-cases/:id/run", h.TestResults.RunTestCase)

	api.GET("/tags", h.Tags.List, cache)
}
