package di

import (
	"log/slog"

	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/application/tasksync"
	"taskboard/internal/daemon"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/infrastructure/config"
	"taskboard/internal/infrastructure/session"
	"taskboard/pkg/clock"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	// Repositories
	DocumentStore repository.DocumentStore
	TaskGateway   repository.TaskGateway
	Identity      *session.IdentityStore

	// Domain Services
	ValidationService *service.ValidationService

	// Application
	TaskStore     *store.TaskStore
	Notifications *notify.Hub
	Sync          *tasksync.Service
}

// DaemonContainer holds the daemon's dependencies
type DaemonContainer struct {
	Config *config.Config
	Logger *slog.Logger
	Server *daemon.Server
}
