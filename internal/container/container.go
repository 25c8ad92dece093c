// Package container builds the process-wide clients, repositories and services
// once at startup and hands them to the router and binaries.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/config"
	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/broadcast"
	"github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/search"
	gcsinfra "github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/storage"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-user-terms/pkg/mailer/templates"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Container holds shared components. Optional clients are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool      *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	JWT       *helpers.JWTManager

	Users  repository.UserRepository
	Terms  repository.TermsRepository
	Pinger Pinger

	Hub   *broadcast.Hub
	Relay *broadcast.RedisRelay

	UserService      *application.UserService
	TermsService     *application.TermsService
	BroadcastService *application.BroadcastService

	closers []func()
}

// New connects every configured backend and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.openClients(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.Wire()
	return c, nil
}

// NewInMemory wires the services over the in-memory repositories and no external clients.
func NewInMemory(cfg *config.Config, logger *logrus.Logger) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Users:  memory.NewUserRepository(),
		Terms:  memory.NewTermsRepository(),
		Pinger: memory.Pinger{},
	}
	c.Wire()
	return c
}

func (c *Container) openStorage(ctx context.Context) error {
	switch c.Config.StorageDriver {
	case config.StorageMemory:
		c.Users = memory.NewUserRepository()
		c.Terms = memory.NewTermsRepository()
		c.Pinger = memory.Pinger{}
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	case config.StoragePostgres:
		dsn := c.Config.PostgresDSN()
		if c.Config.MigrationsEnabled {
			if err := pginfra.RunMigrations(dsn, c.Logger); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		pool, err := pginfra.NewPool(ctx, dsn, c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		c.Pool = pool
		c.closers = append(c.closers, pool.Close)
		c.Users = pginfra.NewUserRepository(pool)
		c.Terms = pginfra.NewTermsRepository(pool)
		c.Pinger = pginfra.NewPinger(pool)
		return nil
	}
	return errors.New("unsupported STORAGE_DRIVER: " + c.Config.StorageDriver)
}

// openClients connects the optional backends. Redis is required once configured;
// search, queue and archive failures only disable the feature.
func (c *Container) openClients(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis: %w", err)
		}
		c.Redis = rdb
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = helpers.CheckES(pctx, es)
			cancel()
		}
		if err != nil {
			c.Logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			c.ES = es
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			c.Logger.WithError(err).Warn("rabbitmq disabled; emails will not be queued")
		} else {
			c.RabbitPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			c.Logger.WithError(err).Warn("gcs disabled; terms will not be archived")
		} else {
			c.GCS = gcs
			c.closers = append(c.closers, func() { _ = gcs.Close() })
		}
	}
	return nil
}

// Wire builds the JWT manager, broadcast hub and services from whatever is set on c.
func (c *Container) Wire() {
	cfg := c.Config
	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	opts := []application.UserOption{application.WithDemoSettings(cfg.DemoEmailDomain, cfg.DemoMaxCount)}
	if c.ES != nil {
		opts = append(opts, application.WithSearchIndex(search.NewUserIndex(c.ES, cfg.ESUsersIndex)))
	}
	if c.RabbitPub != nil {
		opts = append(opts, application.WithEmailJobs(c.RabbitPub, mailtpl.Brand{
			AppName:     cfg.AppName,
			CompanyName: cfg.CompanyName,
			SupportURL:  cfg.SupportURL,
		}))
	}
	c.UserService = application.NewUserService(c.Users, c.Terms, c.JWT, c.Logger, opts...)

	var archive application.TermsArchiver
	if c.GCS != nil {
		archive = gcsinfra.NewTermsArchive(c.GCS, cfg.GCSBucket)
	}
	c.TermsService = application.NewTermsService(c.Terms, archive, c.Logger)

	c.Hub = broadcast.NewHub(cfg.BroadcastBuffer)
	var pub application.BroadcastPublisher = c.Hub
	if c.Redis != nil {
		c.Relay = broadcast.NewRedisRelay(c.Redis, cfg.BroadcastChannel, c.Hub, c.Logger)
		pub = c.Relay
	}
	c.BroadcastService = application.NewBroadcastService(pub)
}

// Close releases clients in reverse order of creation.
func (c *Container) Close() {
	if c.Hub != nil {
		c.Hub.Close()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
