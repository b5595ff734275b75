package service

import (
	"context"

	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type ProviderService interface {
	// Get returns the stored provider config. ErrNoProvider when unset.
	Get(ctx context.Context) (types.Provider, error)

	// Set validates and stores a provider config.
	Set(ctx context.Context, cfg types.Provider) error

	// ListModels fetches the models a candidate provider config can serve,
	// without persisting anything.
	ListModels(ctx context.Context, cfg types.Provider) ([]string, error)

	// TestConnection runs a trivial completion against a candidate config.
	TestConnection(ctx context.Context, cfg types.Provider) error
}

type providerSvc struct {
	store     *db.DB
	log       *log.Logger
	newClient clientFactory
}

func newProviderSvc(store *db.DB, logger *log.Logger, factory clientFactory) ProviderService {
	return &providerSvc{store: store, log: logger, newClient: factory}
}

// ----- methods -----------------------------------------------------------------------------

func (s *providerSvc) Get(ctx context.Context) (types.Provider, error) {
	cfg, err := s.store.GetProvider(ctx)
	if err != nil {
		if db.IsNoRows(err) {
			return types.Provider{}, wrapErr("ProviderService.Get", ErrNoProvider)
		}
		return types.Provider{}, wrapErr("ProviderService.Get", err)
	}
	return cfg, nil
}

func (s *providerSvc) Set(ctx context.Context, cfg types.Provider) error {
	if cfg.Kind == "" || cfg.Endpoint == "" || cfg.Model == "" {
		return wrapErr("ProviderService.Set", ErrValidation)
	}
	if _, err := s.newClient(cfg); err != nil {
		return wrapErr("ProviderService.Set", err)
	}

	if err := s.store.SetProvider(ctx, cfg); err != nil {
		return wrapErr("ProviderService.Set", err)
	}

	s.log.Info("provider configured", "type", cfg.Kind, "model", cfg.Model)
	return nil
}

func (s *providerSvc) ListModels(ctx context.Context, cfg types.Provider) ([]string, error) {
	client, err := s.newClient(cfg)
	if err != nil {
		return nil, wrapErr("ProviderService.ListModels", err)
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, wrapErr("ProviderService.ListModels", err)
	}
	return models, nil
}

func (s *providerSvc) TestConnection(ctx context.Context, cfg types.Provider) error {
	client, err := s.newClient(cfg)
	if err != nil {
		return wrapErr("ProviderService.TestConnection", err)
	}

	if _, err := client.Complete(ctx, "Say hello", ""); err != nil {
		return wrapErr("ProviderService.TestConnection", err)
	}
	return nil
}
