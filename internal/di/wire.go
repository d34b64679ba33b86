//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"taskboard/internal/infrastructure/config"
)

// InitializeContainer sets up all dependencies of the client applications
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(
		// Infrastructure
		ProvideLogger,
		ProvideClock,
		ProvideDocumentStore,
		ProvideIdentityStore,

		// Domain Services
		ProvideValidationService,

		// Application
		ProvideTaskGateway,
		ProvideTaskStore,
		ProvideNotificationHub,
		ProvideSyncService,

		// Wire the container
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}

// InitializeDaemon sets up the daemon server and its backend
func InitializeDaemon(cfg *config.Config) (*DaemonContainer, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideDaemonServer,
		wire.Struct(new(DaemonContainer), "*"),
	)
	return nil, nil, nil
}
