package router

import (
	"net/http"

	authsvc "brixa-backend/internal/application/auth"
	distsvc "brixa-backend/internal/application/distributions"
	invsvc "brixa-backend/internal/application/investments"
	paysvc "brixa-backend/internal/application/payouts"
	propsvc "brixa-backend/internal/application/properties"
	reconsvc "brixa-backend/internal/application/reconciliation"
	txsvc "brixa-backend/internal/application/transactions"
	"brixa-backend/internal/application/underwriter"
	"brixa-backend/internal/config"
	"brixa-backend/internal/constants"
	"brixa-backend/internal/infrastructure/database"
	authhandler "brixa-backend/internal/interfaces/handlers/auth"
	disthandler "brixa-backend/internal/interfaces/handlers/distributions"
	healthhandler "brixa-backend/internal/interfaces/handlers/health"
	invhandler "brixa-backend/internal/interfaces/handlers/investments"
	payhandler "brixa-backend/internal/interfaces/handlers/payouts"
	prophandler "brixa-backend/internal/interfaces/handlers/properties"
	reconhandler "brixa-backend/internal/interfaces/handlers/reconciliation"
	txhandler "brixa-backend/internal/interfaces/handlers/transactions"
	"brixa-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		registry := &underwriter.Registry{Email: cfg.UnderwriterEmail}

		// Properties
		ps := &propsvc.Service{DB: db}
		ph := &prophandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/properties", middleware.RequireAuth())
		pg.Get("/view-property/:id", middleware.AuthorizePermission(constants.ViewData), ph.Get)

		// Investments
		is := &invsvc.Service{DB: db}
		ih := &invhandler.Handlers{Service: is}
		ig := app.Group("/api/v1/investments", middleware.RequireAuth())
		ig.Get("/view-investments", middleware.AuthorizePermission(constants.ViewData), ih.ListMine)

		// Distributions
		ds := &distsvc.Service{DB: db, Underwriter: registry, Currency: cfg.Currency}
		dh := &disthandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/distributions", middleware.RequireAuth())
		dg.Post("/create-draft", middleware.AuthorizePermission(constants.CreateDistribution), dh.CreateDraft)
		dg.Post("/submit/:id", middleware.AuthorizePermission(constants.SubmitDistribution), dh.Submit)
		dg.Post("/approve/:id", middleware.AuthorizePermission(constants.ApproveDistribution), dh.Approve)
		dg.Post("/reject/:id", middleware.AuthorizePermission(constants.ApproveDistribution), dh.Reject)
		dg.Post("/declare/:id", middleware.AuthorizePermission(constants.DeclareDistribution), dh.Declare)
		dg.Delete("/delete/:id", middleware.AuthorizePermission(constants.DeleteDistribution), dh.Delete)
		dg.Get("/view-distribution/:id", middleware.AuthorizePermission(constants.ViewData), dh.Get)
		dg.Get("/view-property/:property_id", middleware.AuthorizePermission(constants.ViewData), dh.ListByProperty)

		// Payouts
		pays := &paysvc.Service{DB: db}
		payh := &payhandler.Handlers{Service: pays}
		payg := app.Group("/api/v1/payouts", middleware.RequireAuth())
		payg.Post("/approve/:id", middleware.AuthorizePermission(constants.ManagePayouts), payh.Approve)
		payg.Post("/approve-batch", middleware.AuthorizePermission(constants.ManagePayouts), payh.ApproveBatch)
		payg.Post("/submit-batch", middleware.AuthorizePermission(constants.ManagePayouts), payh.SubmitBatch)
		payg.Patch("/update/:id", middleware.AuthorizePermission(constants.ManagePayouts), payh.Update)
		payg.Post("/bulk-status", middleware.AuthorizePermission(constants.ManagePayouts), payh.BulkStatus)
		payg.Post("/import-csv/:distribution_id", middleware.AuthorizePermission(constants.ManagePayouts), payh.ImportCSV)
		payg.Get("/view-user", payh.ListMine)

		// Reconciliation
		rs := &reconsvc.Service{DB: db, Underwriter: registry}
		rh := &reconhandler.Handlers{Service: rs}
		rg := app.Group("/api/v1/reconciliation", middleware.RequireAuth())
		rg.Post("/run", middleware.AuthorizePermission(constants.RunReconciliation), rh.Run)

		// Transactions
		txs := &txsvc.Service{DB: db}
		txh := &txhandler.Handlers{Service: txs}
		txg := app.Group("/api/v1/transactions", middleware.RequireAuth())
		txg.Get("/get-transactions", txh.ListMine)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
