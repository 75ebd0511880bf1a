package adapter

import (
	"fmt"

	"PropSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

var factoryRegistry = make(map[string]interfaces.AdapterFactory)

// Register is called from adapter package init functions.
func Register(name string, factory interfaces.AdapterFactory) {
	if factory == nil {
		panic(fmt.Sprintf("nil factory for provider %s", name))
	}
	if _, exists := factoryRegistry[name]; exists {
		logrus.Warnf("provider %s already registered, overriding", name)
	}
	factoryRegistry[name] = factory
}

// GetFactory returns the factory registered under name.
func GetFactory(name string) (interfaces.AdapterFactory, bool) {
	factory, ok := factoryRegistry[name]
	return factory, ok
}

// ListFactories lists every registered provider name.
func ListFactories() []string {
	names := make([]string, 0, len(factoryRegistry))
	for name := range factoryRegistry {
		names = append(names, name)
	}
	return names
}
