package app

import (
	"context"
	"log"
	"os"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/database"
	"hireflow/internal/database/migration"
	dbpostgres "hireflow/internal/database/postgres"
	"hireflow/internal/database/seeder"
	"hireflow/internal/delivery/http/routes"
	"hireflow/internal/infrastructure/cache"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Logger *log.Logger
	Routes *routes.Registry
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := seeder.Run(ctx, db, logger, seeder.Defaults()...); err != nil {
		_ = db.Close()
		return nil, err
	}

	queueCache := cache.NewRedis(cfg.Redis, logger)

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  queueCache,
		Logger: logger,
		Routes: routes.NewRegistry(cfg, db, queueCache, logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
