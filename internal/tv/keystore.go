package tv

import "sync"

// KeyStore persists the client keys TVs issue at registration, keyed by the
// normalized session address ("ws://<host>:3000").
type KeyStore interface {
	// LoadClientKey returns the stored key for host, if any
	LoadClientKey(host string) (string, bool)

	// SaveClientKey stores key for host
	SaveClientKey(host, key string) error
}

// NopKeyStore remembers nothing. Every connection pairs from scratch.
type NopKeyStore struct{}

// LoadClientKey always misses
func (NopKeyStore) LoadClientKey(string) (string, bool) { return "", false }

// SaveClientKey discards the key
func (NopKeyStore) SaveClientKey(string, string) error { return nil }

// MemoryKeyStore keeps keys for the lifetime of the process.
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

// NewMemoryKeyStore creates an empty store
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]string)}
}

// LoadClientKey returns the key stored for host
func (s *MemoryKeyStore) LoadClientKey(host string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keys[host]
	return key, ok
}

// SaveClientKey stores key for host
func (s *MemoryKeyStore) SaveClientKey(host, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys == nil {
		s.keys = make(map[string]string)
	}
	s.keys[host] = key
	return nil
}
