package config

import (
	"strings"
	"time"

	"github.com/muurk/webos3d/internal/protocol"
)

// Registry represents the entire user configuration file.
// It stores paired TVs and application preferences.
type Registry struct {
	Version     int            `yaml:"version"`
	TVs         map[string]*TV `yaml:"tvs,omitempty"` // Keyed by bare host (see HostKey)
	Preferences *Preferences   `yaml:"preferences,omitempty"`

	// path is where Save writes; empty means the default config path
	path string
}

// TV represents what is remembered about a single television.
type TV struct {
	Nickname  string    `yaml:"nickname,omitempty"`   // User-friendly name
	ClientKey string    `yaml:"client_key,omitempty"` // Pairing key issued by the TV
	LastIP    string    `yaml:"last_ip,omitempty"`    // Last known IP address
	LastSeen  time.Time `yaml:"last_seen,omitempty"`  // Last discovery/connection time
	Model     string    `yaml:"model,omitempty"`      // SSDP SERVER header, if discovered
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultHost       string            `yaml:"default_host,omitempty"`       // Host used when --host is not given
	AppName           string            `yaml:"app_name"`                     // Name shown in the TV's pairing prompt
	AutoDiscover      bool              `yaml:"auto_discover"`                // Run SSDP discovery when no host is known
	DiscoverTries     int               `yaml:"discover_tries"`               // SSDP attempts
	DiscoverTimeout   int               `yaml:"discover_timeout"`             // SSDP receive window in seconds
	ConnectPointer    bool              `yaml:"connect_pointer"`              // Open the pointer channel at connect
	KeepaliveInterval int               `yaml:"keepalive_interval"`           // Ping interval in seconds for watch
	RenderModes       map[string]string `yaml:"render_modes,omitempty"`       // Renderer mode -> 3D mode overrides
	MDNSService       string            `yaml:"mdns_service,omitempty"`       // Service type for mDNS fallback
	MDNSFallback      bool              `yaml:"mdns_fallback"`                // Try mDNS when SSDP finds nothing
}

// Default preference values
const (
	DefaultAppName           = "webos3d"
	DefaultDiscoverTries     = 5
	DefaultDiscoverTimeout   = 3
	DefaultKeepaliveInterval = 60
)

// DefaultPreferences returns the preferences used when none are configured.
func DefaultPreferences() *Preferences {
	return &Preferences{
		AppName:           DefaultAppName,
		AutoDiscover:      true,
		DiscoverTries:     DefaultDiscoverTries,
		DiscoverTimeout:   DefaultDiscoverTimeout,
		ConnectPointer:    true,
		KeepaliveInterval: DefaultKeepaliveInterval,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		TVs:         make(map[string]*TV),
		Preferences: DefaultPreferences(),
	}
}

// HostKey reduces a host in any accepted form ("10.0.0.5", "ws://10.0.0.5:3000/")
// to the bare host used as the registry key.
func HostKey(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, protocol.WebSocketScheme)
	host = strings.TrimSuffix(host, "/")
	host = strings.TrimSuffix(host, ":"+protocol.ControlPort)
	return host
}

// GetTV retrieves a TV by host. Returns nil if it is not in the registry.
func (r *Registry) GetTV(host string) *TV {
	return r.TVs[HostKey(host)]
}

// EnsureTV ensures a TV entry exists in the registry and returns it.
func (r *Registry) EnsureTV(host string) *TV {
	if r.TVs == nil {
		r.TVs = make(map[string]*TV)
	}

	key := HostKey(host)
	if tv, exists := r.TVs[key]; exists {
		return tv
	}

	tv := &TV{}
	r.TVs[key] = tv
	return tv
}

// UpdateTVLastSeen updates the last seen timestamp and IP for a TV.
func (r *Registry) UpdateTVLastSeen(host, ip string) {
	tv := r.EnsureTV(host)
	tv.LastSeen = time.Now()
	tv.LastIP = ip
}

// SetTVNickname sets a user-friendly nickname for a TV.
func (r *Registry) SetTVNickname(host, nickname string) {
	r.EnsureTV(host).Nickname = nickname
}

// ClientKey returns the stored pairing key for host.
func (r *Registry) ClientKey(host string) (string, bool) {
	tv := r.GetTV(host)
	if tv == nil || tv.ClientKey == "" {
		return "", false
	}
	return tv.ClientKey, true
}

// SetClientKey records the pairing key issued by host.
func (r *Registry) SetClientKey(host, key string) {
	r.EnsureTV(host).ClientKey = key
}

// ResolveHost finds a TV by nickname (case-insensitive) and returns its host.
// Anything that is not a known nickname is returned unchanged.
func (r *Registry) ResolveHost(nameOrHost string) string {
	for host, tv := range r.TVs {
		if tv.Nickname != "" && strings.EqualFold(tv.Nickname, nameOrHost) {
			return host
		}
	}
	return nameOrHost
}

// RenderMapping returns the built-in renderer mapping with the configured
// overrides applied.
func (p *Preferences) RenderMapping() (protocol.RenderMapping, error) {
	base := protocol.DefaultRenderMapping()
	if p == nil || len(p.RenderModes) == 0 {
		return base, nil
	}
	return base.Override(p.RenderModes)
}

// DiscoverTimeoutDuration returns the SSDP receive window.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// KeepaliveDuration returns the keepalive ping interval.
func (p *Preferences) KeepaliveDuration() time.Duration {
	if p == nil || p.KeepaliveInterval <= 0 {
		return DefaultKeepaliveInterval * time.Second
	}
	return time.Duration(p.KeepaliveInterval) * time.Second
}
