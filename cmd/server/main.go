package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	complianceapp "github.com/writecarenotes/backend/internal/application/compliance"
	familyapp "github.com/writecarenotes/backend/internal/application/family"
	financeapp "github.com/writecarenotes/backend/internal/application/finance"
	hrapp "github.com/writecarenotes/backend/internal/application/hr"
	identityapp "github.com/writecarenotes/backend/internal/application/identity"
	medicationapp "github.com/writecarenotes/backend/internal/application/medication"
	migrationapp "github.com/writecarenotes/backend/internal/application/migration"
	payrollapp "github.com/writecarenotes/backend/internal/application/payroll"
	pilotapp "github.com/writecarenotes/backend/internal/application/pilot"
	residentapp "github.com/writecarenotes/backend/internal/application/resident"
	"github.com/writecarenotes/backend/internal/infrastructure/auth"
	"github.com/writecarenotes/backend/internal/infrastructure/config"
	"github.com/writecarenotes/backend/internal/infrastructure/logger"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
	"github.com/writecarenotes/backend/internal/infrastructure/persistence"
	"github.com/writecarenotes/backend/internal/infrastructure/scheduler"
	"github.com/writecarenotes/backend/internal/infrastructure/storage"
	"github.com/writecarenotes/backend/internal/infrastructure/telemetry"
	"github.com/writecarenotes/backend/internal/interfaces/http/handler"
	"github.com/writecarenotes/backend/internal/interfaces/http/middleware"
	"github.com/writecarenotes/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WriteCareNotes backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Root context cancelled on SIGINT/SIGTERM. Background workers hang off
	// this so a shutdown signal stops them all.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialise tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialise metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	careHomeRepo := persistence.NewGormCareHomeRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	residentRepo := persistence.NewGormResidentRepository(db.DB)
	carePlanRepo := persistence.NewGormCarePlanRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	prescriptionRepo := persistence.NewGormPrescriptionRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	administrationRepo := persistence.NewGormAdministrationRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	registrationRepo := persistence.NewGormRegistrationRepository(db.DB)
	payRunRepo := persistence.NewGormRunRepository(db.DB)
	payrollRecordRepo := persistence.NewGormRecordRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	requirementRepo := persistence.NewGormRequirementRepository(db.DB)
	complianceEventRepo := persistence.NewGormComplianceEventRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	updateRepo := persistence.NewGormUpdateRepository(db.DB)
	feedbackRepo := persistence.NewGormFeedbackRepository(db.DB)
	importJobRepo := persistence.NewGormImportJobRepository(db.DB)

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := blacklist.Close(); err != nil {
			log.Error("Error closing Redis connection", zap.Error(err))
		}
	}()

	// Document storage
	documentStore, err := storage.NewS3DocumentStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialise document storage", zap.Error(err))
	}
	if err := documentStore.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure document bucket", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(tenantRepo, userRepo, roleRepo, jwtService, blacklist, log)
	tenantService := identityapp.NewTenantService(tenantRepo, careHomeRepo, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	residentService := residentapp.NewResidentService(residentRepo, carePlanRepo, log)
	carePlanService := residentapp.NewCarePlanService(carePlanRepo, residentRepo, log)
	documentService := residentapp.NewDocumentService(documentRepo, residentRepo, documentStore, log)
	documentService.SetConfig(residentapp.DocumentServiceConfig{
		UploadURLExpiry:   cfg.Storage.PresignExpiry,
		DownloadURLExpiry: cfg.Storage.PresignExpiry,
	})
	medicationService := medicationapp.NewMedicationService(prescriptionRepo, scheduleRepo, administrationRepo, residentRepo, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo, registrationRepo, log)
	payRunService := payrollapp.NewPayRunService(payRunRepo, payrollRecordRepo, employeeRepo,
		payrolltax.NewCalculator(payrolltax.TaxYear2025()), log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, paymentRepo, ledgerRepo, residentRepo, log)
	ledgerService := financeapp.NewLedgerService(ledgerRepo, log)
	budgetService := financeapp.NewBudgetService(budgetRepo, log)
	complianceService := complianceapp.NewComplianceService(requirementRepo, complianceEventRepo, log)
	portalService := familyapp.NewPortalService(contactRepo, updateRepo, residentRepo, log)
	feedbackService := pilotapp.NewFeedbackService(feedbackRepo, cfg.Feedback.QueueSize, log)
	importService := migrationapp.NewResidentImportService(residentRepo, importJobRepo, log)

	// Pilot feedback collector drains the in-process queue into the database
	collector := pilotapp.NewCollector(feedbackService, pilotapp.CollectorConfig{
		FlushInterval: cfg.Feedback.PollInterval,
		BatchSize:     cfg.Feedback.BatchSize,
		MaxRetries:    cfg.Feedback.MaxRetries,
	}, log)
	if cfg.Feedback.AgentEnabled {
		collector.Start(ctx)
		log.Info("Feedback collector started",
			zap.Int("queue_size", cfg.Feedback.QueueSize),
			zap.Duration("poll_interval", cfg.Feedback.PollInterval))
	}

	// Due-date sweep across compliance, care plans and registrations
	dueSweep := scheduler.NewScheduler(tenantRepo, complianceService, carePlanService, employeeService, cfg.Scheduler, log)
	if cfg.Scheduler.Enabled {
		dueSweep.Start(ctx)
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	residentHandler := handler.NewResidentHandler(residentService)
	carePlanHandler := handler.NewCarePlanHandler(carePlanService)
	documentHandler := handler.NewDocumentHandler(documentService)
	medicationHandler := handler.NewMedicationHandler(medicationService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	payrollHandler := handler.NewPayrollHandler(payRunService)
	financeHandler := handler.NewFinanceHandler(invoiceService, ledgerService, budgetService)
	complianceHandler := handler.NewComplianceHandler(complianceService)
	familyHandler := handler.NewFamilyHandler(portalService)
	pilotHandler := handler.NewPilotHandler(feedbackService)
	migrationHandler := handler.NewMigrationHandler(importService)
	systemHandler := handler.NewSystemHandler(db, feedbackService, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}

	// Health endpoint outside API versioning for load balancers
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Identity: login/refresh are public, everything else needs a token
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.RequireResource("tenant"))
	identityRoutes.POST("/tenants", tenantHandler.Create)
	identityRoutes.GET("/tenants", tenantHandler.List)
	identityRoutes.GET("/tenants/:id", tenantHandler.Get)
	identityRoutes.PUT("/tenants/:id", tenantHandler.Update)
	identityRoutes.POST("/tenants/:id/suspend", tenantHandler.Suspend)
	identityRoutes.POST("/tenants/:id/activate", tenantHandler.Activate)
	identityRoutes.POST("/care-homes", tenantHandler.CreateCareHome)
	identityRoutes.GET("/care-homes", tenantHandler.ListCareHomes)
	identityRoutes.GET("/care-homes/:id", tenantHandler.GetCareHome)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireResource("user"))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id/roles", userHandler.AssignRoles)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.POST("/:id/disable", userHandler.Disable)

	roleRoutes := router.NewDomainGroup("roles", "/roles")
	roleRoutes.Use(middleware.RequireResource("role"))
	roleRoutes.POST("", userHandler.CreateRole)
	roleRoutes.GET("", userHandler.ListRoles)
	roleRoutes.PUT("/:id/permissions", userHandler.UpdateRolePermissions)

	// Resident care records
	residentRoutes := router.NewDomainGroup("residents", "/residents")
	residentRoutes.Use(middleware.RequireResource("resident"))
	residentRoutes.POST("", residentHandler.Create)
	residentRoutes.GET("", residentHandler.List)
	residentRoutes.GET("/:id", residentHandler.Get)
	residentRoutes.POST("/:id/admit", residentHandler.Admit)
	residentRoutes.POST("/:id/transfer", residentHandler.TransferRoom)
	residentRoutes.POST("/:id/discharge", residentHandler.Discharge)
	residentRoutes.POST("/:id/death", residentHandler.RecordDeath)
	residentRoutes.PUT("/:id/next-of-kin", residentHandler.SetNextOfKin)
	residentRoutes.PUT("/:id/gp", residentHandler.SetGP)
	residentRoutes.POST("/:id/care-plans", carePlanHandler.Create)
	residentRoutes.GET("/:id/care-plans", carePlanHandler.ListForResident)
	residentRoutes.POST("/:id/documents", documentHandler.InitiateUpload)
	residentRoutes.GET("/:id/documents", documentHandler.ListForResident)
	residentRoutes.POST("/:id/contacts", familyHandler.AddContact)
	residentRoutes.GET("/:id/contacts", familyHandler.ListContacts)

	carePlanRoutes := router.NewDomainGroup("care-plans", "/care-plans")
	carePlanRoutes.Use(middleware.RequireResource("resident"))
	carePlanRoutes.GET("/due", carePlanHandler.DueForReview)
	carePlanRoutes.POST("/:id/activate", carePlanHandler.Activate)
	carePlanRoutes.POST("/:id/review", carePlanHandler.Review)

	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.Use(middleware.RequireResource("resident"))
	documentRoutes.GET("/:id/download", documentHandler.Download)
	documentRoutes.DELETE("/:id", documentHandler.Delete)

	// Medication and MAR charting
	medicationRoutes := router.NewDomainGroup("medication", "/medication")
	medicationRoutes.Use(middleware.RequireResource("medication"))
	medicationRoutes.POST("/prescriptions", medicationHandler.CreatePrescription)
	medicationRoutes.GET("/prescriptions/:id", medicationHandler.GetPrescription)
	medicationRoutes.POST("/prescriptions/:id/discontinue", medicationHandler.Discontinue)
	medicationRoutes.POST("/prescriptions/:id/schedule", medicationHandler.GenerateSchedule)
	medicationRoutes.POST("/prescriptions/:id/prn", medicationHandler.RecordPRN)
	medicationRoutes.GET("/residents/:id/prescriptions", medicationHandler.ListPrescriptions)
	medicationRoutes.GET("/residents/:id/mar", medicationHandler.MARChart)
	medicationRoutes.POST("/slots/:id/administer", medicationHandler.RecordAdministration)

	// HR and payroll
	hrRoutes := router.NewDomainGroup("hr", "/hr")
	hrRoutes.Use(middleware.RequireResource("employee"))
	hrRoutes.POST("/employees", employeeHandler.Hire)
	hrRoutes.GET("/employees", employeeHandler.List)
	hrRoutes.GET("/employees/:id", employeeHandler.Get)
	hrRoutes.PUT("/employees/:id/tax", employeeHandler.SetTaxDetails)
	hrRoutes.PUT("/employees/:id/pension", employeeHandler.SetPension)
	hrRoutes.POST("/employees/:id/leave", employeeHandler.MarkOnLeave)
	hrRoutes.POST("/employees/:id/reinstate", employeeHandler.Reinstate)
	hrRoutes.POST("/employees/:id/leaving", employeeHandler.RecordLeaving)
	hrRoutes.POST("/employees/:id/registrations", employeeHandler.AddRegistration)
	hrRoutes.POST("/registrations/:id/renew", employeeHandler.RenewRegistration)
	hrRoutes.GET("/registrations/expiring", employeeHandler.ExpiringRegistrations)

	payrollRoutes := router.NewDomainGroup("payroll", "/payroll")
	payrollRoutes.Use(middleware.RequireResource("payroll"))
	payrollRoutes.POST("/runs", payrollHandler.Run)
	payrollRoutes.GET("/runs", payrollHandler.List)
	payrollRoutes.GET("/runs/:id", payrollHandler.Get)
	payrollRoutes.POST("/runs/:id/approve", payrollHandler.Approve)
	payrollRoutes.POST("/runs/:id/complete", payrollHandler.Complete)
	payrollRoutes.GET("/employees/:id/payslips", payrollHandler.Payslips)

	// Finance: invoicing, ledger, budgets
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.Use(middleware.RequireResource("finance"))
	financeRoutes.POST("/invoices", financeHandler.CreateInvoice)
	financeRoutes.GET("/invoices", financeHandler.ListInvoices)
	financeRoutes.GET("/invoices/overdue", financeHandler.ListOverdue)
	financeRoutes.GET("/invoices/:id", financeHandler.GetInvoice)
	financeRoutes.POST("/invoices/:id/issue", financeHandler.IssueInvoice)
	financeRoutes.POST("/invoices/:id/payments", financeHandler.RecordPayment)
	financeRoutes.GET("/invoices/:id/payments", financeHandler.ListPayments)
	financeRoutes.POST("/invoices/:id/void", financeHandler.VoidInvoice)
	financeRoutes.POST("/accounts", financeHandler.CreateAccount)
	financeRoutes.GET("/accounts", financeHandler.ListAccounts)
	financeRoutes.POST("/accounts/:id/deactivate", financeHandler.DeactivateAccount)
	financeRoutes.GET("/accounts/:id/entries", financeHandler.AccountEntries)
	financeRoutes.POST("/journals", financeHandler.PostJournal)
	financeRoutes.GET("/trial-balance", financeHandler.TrialBalance)
	financeRoutes.POST("/budgets", financeHandler.CreateBudget)
	financeRoutes.GET("/budgets/positions", financeHandler.YearPositions)
	financeRoutes.POST("/budgets/:id/spend", financeHandler.RecordSpend)
	financeRoutes.PUT("/budgets/:id/planned", financeHandler.ReviseBudget)

	// Regulatory compliance
	complianceRoutes := router.NewDomainGroup("compliance", "/compliance")
	complianceRoutes.Use(middleware.RequireResource("compliance"))
	complianceRoutes.POST("/requirements", complianceHandler.Create)
	complianceRoutes.GET("/requirements", complianceHandler.List)
	complianceRoutes.GET("/requirements/due", complianceHandler.Due)
	complianceRoutes.GET("/requirements/:id", complianceHandler.Get)
	complianceRoutes.POST("/requirements/:id/completions", complianceHandler.RecordCompletion)
	complianceRoutes.GET("/requirements/:id/completions", complianceHandler.History)
	complianceRoutes.POST("/requirements/:id/retire", complianceHandler.Retire)

	// Family portal
	familyRoutes := router.NewDomainGroup("family", "/family")
	familyRoutes.Use(middleware.RequireResource("family"))
	familyRoutes.PUT("/contacts/:id/access-level", familyHandler.SetAccessLevel)
	familyRoutes.POST("/contacts/:id/revoke", familyHandler.RevokeAccess)
	familyRoutes.GET("/contacts/:id/updates", familyHandler.UpdatesForContact)
	familyRoutes.POST("/updates", familyHandler.PublishUpdate)
	familyRoutes.POST("/updates/:id/acknowledge", familyHandler.Acknowledge)

	// Pilot feedback: submission is open to any authenticated user, triage
	// needs the pilot permission
	pilotRoutes := router.NewDomainGroup("pilot", "/pilot")
	pilotRoutes.POST("/feedback", pilotHandler.Submit)
	pilotRoutes.GET("/feedback", middleware.RequireResource("pilot"), pilotHandler.List)
	pilotRoutes.GET("/feedback/stats", middleware.RequireResource("pilot"), pilotHandler.Stats)
	pilotRoutes.GET("/feedback/:id", middleware.RequireResource("pilot"), pilotHandler.Get)
	pilotRoutes.POST("/feedback/:id/review", middleware.RequireResource("pilot"), pilotHandler.Review)
	pilotRoutes.POST("/feedback/:id/action", middleware.RequireResource("pilot"), pilotHandler.Action)
	pilotRoutes.POST("/feedback/:id/dismiss", middleware.RequireResource("pilot"), pilotHandler.Dismiss)

	// CSV migration
	migrationRoutes := router.NewDomainGroup("migration", "/migration")
	migrationRoutes.Use(middleware.RequireResource("migration"))
	migrationRoutes.POST("/residents", migrationHandler.ImportResidents)
	migrationRoutes.GET("/jobs", migrationHandler.ListJobs)
	migrationRoutes.GET("/jobs/:id", migrationHandler.GetJob)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(authRoutes).
		Register(identityRoutes).
		Register(userRoutes).
		Register(roleRoutes).
		Register(residentRoutes).
		Register(carePlanRoutes).
		Register(documentRoutes).
		Register(medicationRoutes).
		Register(hrRoutes).
		Register(payrollRoutes).
		Register(financeRoutes).
		Register(complianceRoutes).
		Register(familyRoutes).
		Register(pilotRoutes).
		Register(migrationRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Background workers observe ctx cancellation; wait for them to drain
	if cfg.Feedback.AgentEnabled {
		collector.Wait()
	}
	if cfg.Scheduler.Enabled {
		dueSweep.Wait()
	}

	log.Info("Server exited gracefully")
}
