// Package daemon assembles the service: database, session store, object
// storage, queue and the web application.
package daemon

import (
	"context"
	"fmt"

	fiberstorage "github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/dsn"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/logger"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/queue"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/storage"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	producer   *queue.Producer
	consumer   *queue.Consumer
	stop       context.CancelFunc
}

// Start runs the daemon until a shutdown signal arrives.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	// Stop the queue consumer and flush the producer.
	d.stop()

	if err := d.consumer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue consumer")
	}

	if err := d.producer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue producer")
	}

	return nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
		return nil
	}

	db := openDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.MenuAccess{},
		&models.Post{},
		&models.JobOffer{},
		&models.JobApplication{},
		&models.Notification{},
		&models.SiteSetting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(newSessionStorage(cfg))

	store := newObjectStorage(cfg)

	producer := queue.NewProducer(cfg.Queue)
	consumer := queue.NewConsumer(cfg.Queue, queue.NewNotifier(db))

	ctx, stop := context.WithCancel(context.Background())
	go consumer.Listen(ctx)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, store, producer),
		producer:   producer,
		consumer:   consumer,
		stop:       stop,
	}
}

// openDatabase connects gorm with the configured engine.
func openDatabase(cfg *config.Config) *gorm.DB {
	dialector := gormmysql.Open(dsn.Create(cfg))
	if cfg.DB.Engine == config.EnginePostgres {
		dialector = gormpostgres.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	return db
}

// newSessionStorage builds the fiber session backend on the same engine as
// the main database.
func newSessionStorage(cfg *config.Config) fiberstorage.Storage {
	if cfg.DB.Engine == config.EnginePostgres {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}

// newObjectStorage builds the upload backend: MinIO when configured, an
// in-process store in dev mode, none otherwise.
func newObjectStorage(cfg *config.Config) *storage.Storage {
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init object storage")
			return nil
		}

		if err := client.EnsureBucket(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure storage bucket")
			return nil
		}

		return storage.NewStorage(client)
	}

	if cfg.DevMode {
		log.Warn().Msg("dev mode: storing uploads in memory")
		return storage.NewStorage(storage.NewMemory("cargolink-dev"))
	}

	log.Warn().Msg("no object storage configured: uploads disabled")

	return nil
}
