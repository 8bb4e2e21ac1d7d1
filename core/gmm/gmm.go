// Package gmm is the seam between the selection engine and external
// ground-motion models. Providers and correlation models register under a
// name; the engine looks them up by the names carried in the config and
// treats them as black boxes from there on.
package gmm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// Provider evaluates a ground-motion model for one scenario and period,
// returning the median log spectral acceleration and its log standard
// deviation. Implementations must reject scenarios outside their declared
// applicability with schema.ErrInvalidScenario.
type Provider interface {
	Name() string
	Evaluate(s schema.Scenario, period float64) (medianLn, sigmaLn float64, err error)
}

// CorrelationFunc returns the correlation coefficient between log spectral
// accelerations at two periods. Implementations must be symmetric in their
// arguments and return 1 for equal periods.
type CorrelationFunc interface {
	Name() string
	Rho(ti, tj float64) float64
}

// ProviderFactory builds a provider from the validated config.
type ProviderFactory func(cfg *contract.Config) (Provider, error)

var (
	registryMu   sync.RWMutex
	providers    = make(map[string]ProviderFactory)
	correlations = make(map[string]CorrelationFunc)
)

// RegisterProvider registers a ground-motion model factory under a name.
// Later registrations under the same name win, which lets callers override
// built-ins.
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	providers[name] = factory
}

// RegisterCorrelation registers a correlation model under a name.
func RegisterCorrelation(c CorrelationFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	correlations[c.Name()] = c
}

// NewProvider looks up and builds the named ground-motion model.
func NewProvider(name string, cfg *contract.Config) (Provider, error) {
	registryMu.RLock()
	factory, ok := providers[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", schema.ErrUnknownGMPE, name, ProviderNames())
	}
	return factory(cfg)
}

// NewCorrelation looks up the named correlation model.
func NewCorrelation(name string) (CorrelationFunc, error) {
	registryMu.RLock()
	c, ok := correlations[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", schema.ErrUnknownCorrelationModel, name, CorrelationNames())
	}
	return c, nil
}

// ProviderNames returns the registered ground-motion model names, sorted.
func ProviderNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CorrelationNames returns the registered correlation model names, sorted.
func CorrelationNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(correlations))
	for name := range correlations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
