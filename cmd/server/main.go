package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/skylineapts/strata-portal/internal/config"
	"github.com/skylineapts/strata-portal/internal/database"
	"github.com/skylineapts/strata-portal/internal/handler"
	"github.com/skylineapts/strata-portal/internal/levy"
	"github.com/skylineapts/strata-portal/internal/queue"
	"github.com/skylineapts/strata-portal/internal/ratelimit"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/router"
	"github.com/skylineapts/strata-portal/internal/session"
)

func main() {
	// A missing .env is fine in environments that set real variables.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Repositories
	users := repository.NewUserRepo(db)
	units := repository.NewUnitRepo(db)
	budget := repository.NewBudgetRepo(db)
	levies := repository.NewLevyRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)
	documents := repository.NewDocumentRepo(db)
	notices := repository.NewNoticeRepo(db)

	// Sessions live in process memory; a background sweep evicts records
	// idle past the timeout so abandoned sessions do not accumulate.
	store := session.NewStore()
	sessions := session.NewManager(store, users)
	go func() {
		for range time.Tick(5 * time.Minute) {
			store.PurgeExpired(session.IdleTimeout, time.Now())
		}
	}()

	// Failed-login counters go to Redis when it is reachable so limits
	// survive restarts; otherwise an in-process store serves the policy.
	rlCfg := config.LoadRateLimitConfig()
	var attempts ratelimit.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		attempts = ratelimit.NewRedisStore(rdb, rlCfg.Prefix)
		log.Printf("ratelimit: using redis attempt store")
	} else {
		attempts = ratelimit.NewMemoryStore()
		log.Printf("ratelimit: redis unavailable, using in-memory attempt store")
	}
	limiter := ratelimit.New(attempts, rlCfg.MaxAttempts, rlCfg.Window)

	engine := levy.NewEngine(db, units, levies, budget)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(sessions, users, limiter),
		Admin:       handler.NewAdminHandler(sessions, users),
		Levies:      handler.NewLevyHandler(sessions, engine),
		Budget:      handler.NewBudgetHandler(sessions, budget),
		Maintenance: handler.NewMaintenanceHandler(sessions, maintenance),
		Documents:   handler.NewDocumentHandler(sessions, documents),
		Units:       handler.NewUnitHandler(units, users),
		Notices:     handler.NewNoticeHandler(notices),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	router.Register(e, sessions, h, handler.BootstrapSkipper(users))

	// The consumer appends generated-levy events to the audit log.  It
	// retries its broker connection forever, so a missing broker only
	// costs the audit trail, never the portal.
	go func() {
		if err := queue.StartLevyConsumer(); err != nil {
			log.Printf("queue: levy consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
