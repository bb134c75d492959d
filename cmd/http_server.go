package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/advance"
	advancePostgres "github.com/frahmantamala/staff-requests/internal/advance/postgres"
	"github.com/frahmantamala/staff-requests/internal/auth"
	authPostgres "github.com/frahmantamala/staff-requests/internal/auth/postgres"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/staff-requests/internal/dashboard/postgres"
	"github.com/frahmantamala/staff-requests/internal/leave"
	leavePostgres "github.com/frahmantamala/staff-requests/internal/leave/postgres"
	"github.com/frahmantamala/staff-requests/internal/mail"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/push"
	pushPostgres "github.com/frahmantamala/staff-requests/internal/push/postgres"
	"github.com/frahmantamala/staff-requests/internal/servicerequest"
	servicePostgres "github.com/frahmantamala/staff-requests/internal/servicerequest/postgres"
	"github.com/frahmantamala/staff-requests/internal/transport"
	"github.com/frahmantamala/staff-requests/internal/transport/rest"
	"github.com/frahmantamala/staff-requests/internal/transport/swagger"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
	"github.com/frahmantamala/staff-requests/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *Database
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

// Database bundles the gorm handle used by repositories and an sqlx handle
// over the same pool for reporting queries.
type Database struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

func (d *Database) Close() error {
	return d.SQLX.Close()
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight email and push deliveries finish before the pool closes
		if err := deps.Bus.Drain(ctx); err != nil {
			deps.Logger.Error("Event bus drain error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	if cfg.Server.OpenAPIPath != "" {
		if _, err := swagger.Load(context.Background(), cfg.Server.OpenAPIPath); err != nil {
			return nil, err
		}
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(lg)
	base := transport.NewBaseHandler(lg, bus)
	mailer := mail.New(cfg.Mail, lg)

	userSvc := user.NewService(userPostgres.NewUserRepository(db.Gorm), user.NewMailWelcomeSender(mailer, cfg.App), cfg.Security.BCryptCost, lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authSvc := auth.NewService(authPostgres.NewRepository(db.Gorm), tokens, lg)

	pushSvc := push.NewService(pushPostgres.NewSubscriptionRepository(db.Gorm), push.NewWebPushSender(cfg.Push), cfg.Push.VAPIDPublicKey, lg)
	notification.NewDispatcher(userSvc, mailer, pushSvc, cfg.App, lg).Register(bus)

	policy := cfg.Policy.WithDefaults()
	advanceSvc := advance.NewService(advancePostgres.NewAdvanceRepository(db.Gorm), userSvc, advance.PolicyFrom(policy), lg)
	leaveSvc := leave.NewService(leavePostgres.NewLeaveRepository(db.Gorm), userSvc, leave.AllowancesFrom(policy), policy.Location(), lg)
	serviceSvc := servicerequest.NewService(servicePostgres.NewServiceRequestRepository(db.Gorm), userSvc, cfg.External.APISecret, lg)
	notificationSvc := notification.NewService(notificationPostgres.NewNotificationRepository(db.Gorm), lg)
	dashboardSvc := dashboard.NewService(dashboardPostgres.NewDashboardRepository(db.SQLX), lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:         rest.NewHealthHandler(db.SQLX.DB, nil),
		Auth:           auth.NewHandler(base, authSvc),
		RBAC:           auth.NewRoleAuthorization(base),
		User:           user.NewHandler(base, userSvc),
		Advance:        advance.NewHandler(base, advanceSvc),
		Leave:          leave.NewHandler(base, leaveSvc),
		ServiceRequest: servicerequest.NewHandler(base, serviceSvc),
		Notification:   notification.NewHandler(base, notificationSvc),
		Push:           push.NewHandler(base, pushSvc),
		Dashboard:      dashboard.NewHandler(base, dashboardSvc),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	})

	return &Dependencies{
		Config: cfg,
		DB:     db,
		Bus:    bus,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB opens one pgx pool and hands it to both gorm and sqlx.
func initDB(cfg internal.DatabaseConfig) (*Database, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Database{Gorm: gormDB, SQLX: dbConn}, nil
}
