// Package web wires the fiber application: middleware, handlers and the
// lifecycle of the HTTP server.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	accesslog "github.com/CargoLink-Admin/CargoLink-Admin/internal/logger/adapter/fiber"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/queue"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/storage"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/job"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/notification"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/post"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/role"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/setting"
	adminuser "github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/admin/user"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/dashboard"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/login"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/logout"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/public"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: report not-alive first, so the
	// load balancer drains this instance before the listener stops.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(
	cfg *config.Config,
	db *gorm.DB,
	store *storage.Storage,
	producer *queue.Producer,
) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "CargoLink-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/healthz",
	}))

	// basic auth middleware
	app.Use(AuthMiddleware)

	// Initialize auth service
	authService := auth.NewService(db)

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	service.alive.Store(true)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with access checks)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)
	dashboard.Handler.Init(app, cfg, db, authService)
	adminuser.Handler.Init(app, cfg, db, authService)
	role.Handler.Init(app, cfg, db, authService)
	post.Handler.Init(app, cfg, db, authService, store, producer)
	job.Handler.Init(app, cfg, db, authService, store)
	notification.Handler.Init(app, cfg, db, authService)
	setting.Handler.Init(app, cfg, db, authService)
	public.Handler.Init(app, cfg, db, store, producer)

	// redirect root to the dashboard endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
