package adapter

import (
	"PropSync/internal/config"
	"PropSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ProviderRegistry instantiates and holds one adapter per configured
// provider. Providers in config without a registered factory are skipped
// with a warning so a bad entry never takes the service down.
type ProviderRegistry struct {
	cfg      *config.Config
	logger   *logrus.Logger
	adapters map[string]interfaces.ProviderAdapter
}

func NewProviderRegistry(cfg *config.Config, logger *logrus.Logger) *ProviderRegistry {
	r := &ProviderRegistry{
		cfg:      cfg,
		logger:   logger,
		adapters: make(map[string]interfaces.ProviderAdapter),
	}
	r.initFromFactories()
	return r
}

func (r *ProviderRegistry) initFromFactories() {
	for name := range r.cfg.Providers {
		provCfg := r.cfg.Providers[name]
		factory, ok := GetFactory(name)
		if !ok {
			r.logger.WithField("provider", name).Warn("no adapter registered for configured provider, skipping")
			continue
		}
		inst, err := factory(name, &provCfg, r.logger)
		if err != nil {
			r.logger.WithError(err).WithField("provider", name).Error("failed to build adapter")
			continue
		}
		r.adapters[name] = inst
		r.logger.WithField("provider", name).Info("provider adapter ready")
	}
}

// Get returns the adapter for a provider name.
func (r *ProviderRegistry) Get(name string) (interfaces.ProviderAdapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// All returns every ready adapter keyed by provider name.
func (r *ProviderRegistry) All() map[string]interfaces.ProviderAdapter {
	out := make(map[string]interfaces.ProviderAdapter, len(r.adapters))
	for k, v := range r.adapters {
		out[k] = v
	}
	return out
}
