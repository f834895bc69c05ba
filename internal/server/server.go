// Package server boots every subsystem of the admin backend and runs them
// until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gorm.io/gorm"

	appgraphql "github.com/shashiranjanraj/bizadmin/app/graphql"
	"github.com/shashiranjanraj/bizadmin/app/listeners"
	"github.com/shashiranjanraj/bizadmin/app/routes"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/app"
	"github.com/shashiranjanraj/bizadmin/pkg/broker"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/database"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/graphql"
	grpcserver "github.com/shashiranjanraj/bizadmin/pkg/grpc"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/migration"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
	"github.com/shashiranjanraj/bizadmin/pkg/schedule"
	"github.com/shashiranjanraj/bizadmin/pkg/sse"
	"github.com/shashiranjanraj/bizadmin/pkg/storage"
	"github.com/shashiranjanraj/bizadmin/pkg/ws"

	// migrations and seeders register themselves
	_ "github.com/shashiranjanraj/bizadmin/database/migrations"
	_ "github.com/shashiranjanraj/bizadmin/database/seeders"
)

const queueWorkers = 4

// Server is a booted backend.
type Server struct {
	DB        *gorm.DB
	Services  *services.Services
	Events    *sse.Broker
	History   *ws.Hub
	App       *app.Application
	Scheduler *schedule.Scheduler

	closers []func()
}

// Boot connects the database (running pending migrations), the cache,
// storage, the broker and the queue, then builds the HTTP application.
// Optional backends that fail to connect are logged and skipped.
func Boot(ctx context.Context) (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &Server{}
	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("logs: mongo sink disabled", "error", err)
		} else {
			s.closers = append(s.closers, closeLogs)
		}
	}

	if err := database.Connect(); err != nil {
		return nil, err
	}
	s.DB = database.DB
	s.closers = append(s.closers, func() { _ = database.Close() })

	ran, err := migration.New(s.DB).Run(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if len(ran) > 0 {
		logger.Info("migrations applied", "names", ran)
	}

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: using in-memory store", "error", err)
	}
	if err := storage.Connect(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if err := broker.Connect(config.KafkaBrokers(), config.KafkaTopic()); err != nil {
		logger.Warn("broker: kafka disabled", "error", err)
	}
	s.closers = append(s.closers, func() { _ = broker.Default.Close() })

	q := queue.Default()
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		q.SetDriver(queue.NewRedisDriver(ctx, cache.RDB))
	}
	q.UseStore(queue.GormFailedStore{DB: s.DB})

	s.Services = services.New(s.DB)
	s.Events = sse.NewBroker()
	s.History = ws.NewHub()
	listeners.Register(event.Default, s.Events, s.History, q)

	schema, err := appgraphql.Schema(s.Services)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("graphql: %w", err)
	}

	deps := routes.Deps{
		DB:       s.DB,
		Services: s.Services,
		Auth:     config.AuthEnabled(),
		Events:   s.Events,
		History:  s.History,
		GraphQL:  graphql.Handler(schema),
	}
	if local, ok := storage.Use("local").(*storage.Local); ok {
		deps.Storage = http.StripPrefix("/storage", local.Handler())
	}
	s.App = app.New().Routes(func(r *router.Router) { routes.Register(r, deps) })
	s.Scheduler = Schedule(s.DB, s.Services)
	return s, nil
}

// Run serves until ctx is done and then stops every background worker.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	// background loops stop as soon as the HTTP listener is gone, even when
	// it failed before ctx was cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.History.Run(ctx) }()
	go func() { defer wg.Done(); s.App.Limiter().RunSweeper(ctx) }()

	workers := queue.Default().StartWorkers(ctx, queueWorkers)
	s.Scheduler.Start(ctx)

	var g *grpcserver.Server
	drain := func() {
		cancel()
		g.Stop()
		workers.Wait()
		s.Scheduler.Wait()
		wg.Wait()
		event.Default.Close()
	}

	if port := config.GRPCPort(); port != "" {
		g = grpcserver.New()
		if err := g.Start(":" + port); err != nil {
			g = nil
			drain()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Watch(ctx, func(ctx context.Context) error { return database.Ping(ctx, s.DB) }, 15*time.Second)
		}()
	}

	err := app.Serve(ctx, ":"+config.AppPort(), s.App.Handler())
	if err != nil {
		logger.Error("http: serve failed", "error", err)
	}
	drain()
	return err
}

// Close releases connections in reverse order of opening.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Schedule registers the periodic maintenance tasks.
func Schedule(db *gorm.DB, svcs *services.Services) *schedule.Scheduler {
	sched := schedule.New()
	sched.Every(time.Minute).Name("entity-rows").WithoutOverlapping().Run(func(ctx context.Context) error {
		return RefreshRowGauges(ctx, svcs)
	})
	sched.Cron("0 3 * * *").Name("prune-failed-jobs").Run(func(ctx context.Context) error {
		n, err := queue.GormFailedStore{DB: db}.Prune(ctx, 30*24*time.Hour)
		if n > 0 {
			logger.Info("failed jobs pruned", "count", n)
		}
		return err
	})
	return sched
}
