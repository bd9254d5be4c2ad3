package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/service"
	"github.com/bloglist/bloglist/internal/validation"
)

// ProvideTokenService provides the JWT issuer and verifier.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewTokenService(cfg.Secret, cfg.TokenTTL)
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideBlogService provides the blog service.
func ProvideBlogService(i do.Injector) (*service.BlogService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	rec := do.MustInvoke[*metrics.InMemoryRecorder](i)
	return service.NewBlogService(store, v, rec), nil
}

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	rec := do.MustInvoke[*metrics.InMemoryRecorder](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewUserService(store, rec, log), nil
}

// ProvideAuthService provides the login service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	rec := do.MustInvoke[*metrics.InMemoryRecorder](i)
	return service.NewAuthService(store, tokens, rec), nil
}
