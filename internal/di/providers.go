package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskboard/internal/application/gateway"
	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/application/tasksync"
	"taskboard/internal/daemon"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/infrastructure/config"
	"taskboard/internal/infrastructure/logger"
	"taskboard/internal/infrastructure/persistence/cache"
	"taskboard/internal/infrastructure/persistence/filesystem"
	"taskboard/internal/infrastructure/persistence/memory"
	"taskboard/internal/infrastructure/persistence/mongo"
	"taskboard/internal/infrastructure/persistence/redis"
	"taskboard/internal/infrastructure/session"
	"taskboard/pkg/clock"
)

// Provider functions

func ProvideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	log, closeFn, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, func() { _ = closeFn() }, nil
}

func ProvideClock() clock.Clock {
	return clock.NewMonotonic()
}

func ProvideDocumentStore(cfg *config.Config, log *slog.Logger) (repository.DocumentStore, func(), error) {
	if cfg.Storage.Backend == config.BackendDaemon {
		return daemon.NewClient(cfg.SocketPath(), log), func() {}, nil
	}
	return OpenBackend(context.Background(), cfg.Storage.Backend, cfg, log)
}

// OpenBackend connects the named document store. The cleanup releases
// connections held by network backends.
func OpenBackend(ctx context.Context, backend string, cfg *config.Config, log *slog.Logger) (repository.DocumentStore, func(), error) {
	switch backend {
	case config.BackendFilesystem:
		return filesystem.NewDocumentStore(cfg.Storage.DataPath, log), func() {}, nil

	case config.BackendMemory:
		return memory.NewDocumentStore(), func() {}, nil

	case config.BackendMongo:
		st, err := mongo.Connect(ctx, cfg.Storage.Mongo, log)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := st.Close(ctx); err != nil {
				log.Warn("failed to disconnect mongo", "error", err)
			}
		}, nil

	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, cfg.Storage.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewDocumentStore(rdb, cfg.Storage.Redis.KeyPrefix, log), func() {
			if err := rdb.Close(); err != nil {
				log.Warn("failed to close redis", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

func ProvideTaskGateway(st repository.DocumentStore, clk clock.Clock, log *slog.Logger) repository.TaskGateway {
	return gateway.NewDocumentGateway(st, clk, log)
}

func ProvideTaskStore(clk clock.Clock) *store.TaskStore {
	return store.NewTaskStore(clk)
}

func ProvideValidationService() *service.ValidationService {
	return service.NewValidationService()
}

func ProvideNotificationHub(log *slog.Logger) *notify.Hub {
	return notify.NewHub(log)
}

func ProvideSyncService(
	gw repository.TaskGateway,
	taskStore *store.TaskStore,
	validation *service.ValidationService,
	hub *notify.Hub,
	log *slog.Logger,
	cfg *config.Config,
) (*tasksync.Service, error) {
	policy, err := tasksync.ParseFetchFailurePolicy(cfg.Sync.FetchFailurePolicy)
	if err != nil {
		return nil, err
	}
	return tasksync.NewService(gw, taskStore, validation, hub, log, policy), nil
}

func ProvideIdentityStore(cfg *config.Config) *session.IdentityStore {
	return session.NewIdentityStore(cfg.Session.File)
}

// ProvideDaemonServer builds the daemon around its configured backend,
// optionally behind the query cache. On the filesystem backend the watcher
// drops cached queries when task files change outside the daemon.
func ProvideDaemonServer(cfg *config.Config, log *slog.Logger) (*daemon.Server, func(), error) {
	backend, closeBackend, err := OpenBackend(context.Background(), cfg.Daemon.Backend, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var (
		served  repository.DocumentStore = backend
		cached  *cache.DocumentStore
		watcher *filesystem.Watcher
	)
	if cfg.Daemon.Cache {
		cached = cache.NewDocumentStore(backend, log)
		served = cached
	}

	server := daemon.NewServer(served, cfg.SocketPath(), log)

	if fsStore, ok := backend.(*filesystem.DocumentStore); ok && cached != nil && cfg.Daemon.Watch {
		watcher, err = filesystem.NewWatcher(fsStore.Paths(), log, cached.Invalidate)
		if err != nil {
			closeBackend()
			return nil, nil, err
		}
		if err := watcher.Start(); err != nil {
			_ = watcher.Close()
			closeBackend()
			return nil, nil, err
		}
	}

	cleanup := func() {
		if watcher != nil {
			if err := watcher.Close(); err != nil {
				log.Warn("failed to close watcher", "error", err)
			}
		}
		closeBackend()
	}
	return server, cleanup, nil
}
