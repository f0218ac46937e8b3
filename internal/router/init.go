package router

import (
	"github.com/prometheus/client_golang/prometheus"

	userapp "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/container"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/cache"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/router/modules"
)

type AccountModuleDeps struct {
	Repo    repo.AccountRepository
	Service *userapp.Service
	Handler *handlers.AccountHandler
}

// buildRepository picks Postgres when a pool is available, otherwise the in-memory store,
// and puts the Redis read cache in front when Redis is configured.
func buildRepository() repo.AccountRepository {
	var r repo.AccountRepository
	if pool := container.GetPGPool(); pool != nil {
		r = pginfra.NewAccountRepository(pool)
	} else {
		r = memory.NewAccountRepository()
	}
	return cache.Wrap(r, container.GetRedis(), container.GetConfig().AccountCacheTTL, container.GetLogger())
}

func buildAccountDeps() AccountModuleDeps {
	cfg := container.GetConfig()
	r := buildRepository()

	service := userapp.NewService(r, container.GetHasher(), container.GetJWT(), container.GetLogger())
	if es := container.GetES(); es != nil {
		service.Index = search.NewAccountIndex(es, cfg.ESAccountsIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		service.Notifier = userapp.NewEmailNotifier(pub, cfg.AppName)
	}

	handler := handlers.NewAccountHandler(service, container.GetLogger())

	return AccountModuleDeps{
		Repo:    r,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildAccountDeps()
	r.Add(modules.NewAccountModule(deps.Handler, container.GetJWT()))

	var gatherer prometheus.Gatherer
	if reg := container.GetMetrics(); reg != nil {
		gatherer = reg
	}
	r.AddRoot(modules.NewSystemModule(gatherer))
}
