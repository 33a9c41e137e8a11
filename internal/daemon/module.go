package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/api"
	"github.com/matheus3301/p2pm/internal/bus"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/config"
	"github.com/matheus3301/p2pm/internal/httpapi"
	"github.com/matheus3301/p2pm/internal/lock"
	"github.com/matheus3301/p2pm/internal/logging"
	"github.com/matheus3301/p2pm/internal/persist"
	"github.com/matheus3301/p2pm/internal/profile"
	"github.com/matheus3301/p2pm/internal/reply"
	"github.com/matheus3301/p2pm/internal/status"
	"github.com/matheus3301/p2pm/internal/store"
	"github.com/matheus3301/p2pm/internal/store/boltkv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	SocketPath  string         // optional override for testing; empty = use default
	Config      *config.Config // optional; nil = resolve from ~/.p2pm
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Options(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Module("daemon",
			fx.Supply(p),
			fx.Provide(
				provideConfig,
				provideLogger,
				provideBus,
				provideClock,
				provideStateMachine,
				provideLock,
				provideBlobStore,
				persist.NewGateway,
				provideChatStore,
				provideSimulator,
				provideProfileService,
				api.NewChatService,
				api.NewMessageService,
				provideHTTPServer,
				NewServer,
			),
			fx.Invoke(registerLifecycle),
		),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if p.Config != nil {
		return p.Config, nil
	}
	return config.Resolve(profile.ConfigPath(), profile.EnvPath())
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName, cfg.Log.Level)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideClock() clock.Clock {
	return clock.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(lc fx.Lifecycle, p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName), p.ProfileName)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	// Appended first, so it is released after every other hook has stopped.
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := l.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			return nil
		},
	})
	return l, nil
}

// provideBlobStore opens the configured backend. It takes the lock so the
// file is never opened by a second daemon.
func provideBlobStore(lc fx.Lifecycle, p Params, cfg *config.Config, _ *lock.Lock, logger *zap.Logger) (persist.BlobStore, error) {
	var (
		blobs interface {
			persist.BlobStore
			io.Closer
		}
		path string
	)
	switch cfg.Storage.Backend {
	case config.BackendBolt:
		path = profile.BoltPath(p.ProfileName)
		s, err := boltkv.Open(path)
		if err != nil {
			return nil, err
		}
		blobs = s
	case config.BackendSQLite, "":
		path = profile.DBPath(p.ProfileName)
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		result, err := db.Migrate()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if result.Changed {
			logger.Info("migrations applied", zap.Uint("version", result.Version))
		} else {
			logger.Info("migrations up to date", zap.Uint("version", result.Version))
		}
		blobs = db
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	logger.Info("store initialized", zap.String("backend", cfg.Storage.Backend), zap.String("path", path))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return blobs.Close()
		},
	})
	return blobs, nil
}

func provideChatStore(gw *persist.Gateway, clk clock.Clock, b *bus.Bus, logger *zap.Logger) *chat.Store {
	snap := persist.Bootstrap(gw, clk.Now(), logger)
	return chat.New(snap, chat.Options{
		Clock:     clk,
		Persister: gw,
		Bus:       b,
		Logger:    logger.Named("chat"),
	})
}

func provideSimulator(s *chat.Store, clk clock.Clock, cfg *config.Config, b *bus.Bus, logger *zap.Logger) *reply.Simulator {
	sim := reply.NewSimulator(s, clk, reply.Config{
		MinDelay: cfg.Reply.MinDelay.Std(),
		MaxDelay: cfg.Reply.MaxDelay.Std(),
	}, b, logger.Named("reply"))
	s.SetReplyScheduler(sim)
	return sim
}

func provideProfileService(p Params, cfg *config.Config, clk clock.Clock, m *status.Machine, s *chat.Store, sim *reply.Simulator, logger *zap.Logger) *api.ProfileService {
	return api.NewProfileService(p.ProfileName, cfg.Storage.Backend, clk, m, s, sim, logger)
}

func provideHTTPServer(profileSvc *api.ProfileService, chatSvc *api.ChatService, msgSvc *api.MessageService, logger *zap.Logger) *httpapi.Server {
	logger = logger.Named("http")
	h := httpapi.NewHandler(profileSvc, chatSvc, msgSvc, logger)
	return httpapi.NewServer(httpapi.NewRouter(h, logger), logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, httpSrv *httpapi.Server, cfg *config.Config, s *chat.Store, sim *reply.Simulator, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if cfg.HTTP.Addr != "" {
				if err := httpSrv.Start(cfg.HTTP.Addr); err != nil {
					_ = machine.Transition(status.Error)
					return err
				}
			}

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()

			if _, ok := s.Identity(); ok {
				_ = machine.Transition(status.Ready)
			} else {
				logger.Info("no identity found, onboarding required")
				_ = machine.Transition(status.Onboarding)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sim.Stop()
			var errs []error
			if cfg.HTTP.Addr != "" {
				errs = append(errs, httpSrv.Shutdown(ctx))
			}
			srv.Stop(ctx)
			logger.Info("daemon stopped")
			return errors.Join(errs...)
		},
	})
}
