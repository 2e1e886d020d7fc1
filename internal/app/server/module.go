// Package server composes the pubhub process with fx.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"pubhub/internal/app/config"
	httpapi "pubhub/internal/app/http"
	"pubhub/internal/app/http/handler"
	"pubhub/internal/app/wiring"
	"pubhub/internal/domain"
	"pubhub/internal/domain/notification"
	"pubhub/internal/infrastructure/async"
	"pubhub/internal/infrastructure/db/pg"
	"pubhub/internal/infrastructure/logging"
	"pubhub/internal/infrastructure/telemetry"
)

func Module() fx.Option {
	return fx.Module("pubhub",
		fx.Provide(
			config.Load,
			provideLogger,
			provideRepos,
			provideBus,
			provideWorkerPool,
			provideDeliverer,
			provideServices,
			provideHTTPServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(setupTelemetry, registerLifecycle),
	)
}

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.LogLevel, cfg.ServiceName)
}

// setupTelemetry installs the global providers before anything records.
func setupTelemetry(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	shutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
	}, log)
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(shutdown))
	return nil
}

func provideRepos(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (wiring.Repos, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, state is lost on exit")
		return wiring.MemoryRepos(), nil
	}

	db, err := pg.ConnectWithRetry(context.Background(), cfg.DatabaseURL, cfg.ConnectTimeout.Duration, log)
	if err != nil {
		return wiring.Repos{}, err
	}
	if err := pg.Migrate(db); err != nil {
		_ = db.Close()
		return wiring.Repos{}, err
	}
	lc.Append(fx.StopHook(db.Close))
	return wiring.PostgresRepos(db), nil
}

func provideBus(cfg config.Config, log *zap.Logger) (*async.Bus, domain.EventPublisher) {
	bus := async.NewBus(log, async.WithHandlerTimeout(cfg.Bus.HandlerTimeout.Duration))
	return bus, bus
}

func provideWorkerPool(cfg config.Config, log *zap.Logger) *async.WorkerPool {
	return async.NewWorkerPool(context.Background(), cfg.NotifyWorkers, 0, log)
}

func provideDeliverer(pool *async.WorkerPool, log *zap.Logger) notification.Deliverer {
	return async.NewNotificationDeliverer(pool, nil, log)
}

func provideServices(repos wiring.Repos, events domain.EventPublisher, log *zap.Logger) wiring.Services {
	return wiring.NewServices(repos, events, log)
}

func provideHTTPServer(cfg config.Config, svc wiring.Services, log *zap.Logger) *http.Server {
	h := handler.New(
		svc.Users,
		svc.Publications,
		svc.Donations,
		svc.Catalogue,
		svc.Notifications,
		svc.Reports,
		svc.Events,
		log,
	)
	router := httpapi.NewRouter(h, log)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.Instrument(router, cfg.ServiceName),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Repos     wiring.Repos
	Bus       *async.Bus
	Pool      *async.WorkerPool
	Deliverer notification.Deliverer
	Server    *http.Server
	Log       *zap.Logger
}

// registerLifecycle subscribes the handlers, starts the bus, replays what a
// previous run left unhandled and only then opens the HTTP listener. Stop
// runs in reverse: no new requests, drain the bus, then the delivery pool.
func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := wiring.Subscribe(p.Bus, wiring.Handlers(p.Repos, p.Deliverer, p.Log)); err != nil {
				return err
			}
			if err := p.Bus.Run(context.Background()); err != nil {
				return err
			}

			recovered, err := wiring.NewRecoverer(p.Repos, p.Bus, p.Config.RecoveryWindow.Duration, p.Log).Recover(ctx)
			if err != nil {
				return err
			}
			p.Log.Info("recovery sweep finished", zap.Int("republished", recovered))

			ln, err := net.Listen("tcp", p.Server.Addr)
			if err != nil {
				return err
			}
			go func() {
				p.Log.Info("server starting", zap.String("addr", p.Server.Addr))
				if err := p.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Log.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Log.Info("shutting down...")
			err := p.Server.Shutdown(ctx)
			if berr := p.Bus.Close(ctx); berr != nil {
				err = errors.Join(err, berr)
			}
			p.Pool.Shutdown()
			_ = p.Log.Sync()
			return err
		},
	})
}
