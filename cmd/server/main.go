package main // API server entry point

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/config"
	"github.com/qaops/test-manager/internal/database"
	"github.com/qaops/test-manager/internal/handler"
	"github.com/qaops/test-manager/internal/queue"
	"github.com/qaops/test-manager/internal/repository"
	"github.com/qaops/test-manager/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it response caching and rate limiting
	// degrade to pass-through.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	projects := repository.NewProjectRepo(db)
	settings := repository.NewSettingRepo(db)
	releases := repository.NewReleaseRepo(db)
	cases := repository.NewTestCaseRepo(db)
	fixtures := repository.NewFixtureRepo(db)
	steps := repository.NewStepRepo(db)
	pages := repository.NewPageRepo(db)
	results := repository.NewResultRepo(db)
	tags := repository.NewTagRepo(db)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users, tokens),
		Users:       handler.NewUserHandler(cfg, users),
		Projects:    handler.NewProjectHandler(projects, settings, releases, results),
		TestCases:   handler.NewTestCaseHandler(cases, projects),
		Fixtures:    handler.NewFixtureHandler(fixtures, projects, steps),
		Steps:       handler.NewStepHandler(steps, cases, fixtures),
		Pages:       handler.NewPageHandler(pages, projects),
		TestResults: handler.NewTestResultHandler(results, projects, cases),
		Tags:        handler.NewTagHandler(tags),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, db, rdb, cfg, h)

	// Drain queued run requests into the run log. The consumer reconnects
	// on its own; a missing broker only disables the drain.
	go func() {
		if err := queue.StartRunConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
