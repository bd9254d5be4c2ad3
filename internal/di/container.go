// Package di provides dependency injection configuration for the API server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/di/providers"
	"github.com/bloglist/bloglist/internal/server"
	"github.com/bloglist/bloglist/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideBlogService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideAuthService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services so that configuration and connection
// errors surface before the server starts listening.
func Bootstrap(injector *do.RootScope) (*server.Server, error) {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*providers.LoginLimiterHandle](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*service.BlogService](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*service.UserService](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return nil, err
	}
	return do.Invoke[*server.Server](injector)
}
