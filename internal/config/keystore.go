package config

import (
	"fmt"
	"sync"
)

// RegistryKeyStore persists TV pairing keys in a Registry. It satisfies
// tv.KeyStore. Every saved key is written to disk immediately so a key the TV
// issued is never lost if the process dies mid-session.
type RegistryKeyStore struct {
	mu       sync.Mutex
	registry *Registry
}

// NewRegistryKeyStore wraps reg.
func NewRegistryKeyStore(reg *Registry) *RegistryKeyStore {
	return &RegistryKeyStore{registry: reg}
}

// LoadClientKey returns the key stored for host.
func (s *RegistryKeyStore) LoadClientKey(host string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ClientKey(host)
}

// SaveClientKey records key for host and saves the registry.
func (s *RegistryKeyStore) SaveClientKey(host, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.registry.ClientKey(host); ok && existing == key {
		return nil
	}
	s.registry.SetClientKey(host, key)
	if err := s.registry.Save(); err != nil {
		return fmt.Errorf("failed to persist client key for %s: %w", HostKey(host), err)
	}
	return nil
}
