package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
)

const (
	// DefaultMDNSService is browsed when no service type is configured.
	// webOS TVs from 2018 on advertise AirPlay.
	DefaultMDNSService = "_airplay._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultMDNSTimeout is the default browse window
	DefaultMDNSTimeout = 5 * time.Second
)

// MDNSScanner finds TVs with multicast DNS. It is a fallback for networks
// that drop SSDP.
type MDNSScanner struct {
	// Timeout is the browse window
	Timeout time.Duration

	// Service is the service type to browse (default DefaultMDNSService)
	Service string
}

// NewMDNSScanner creates a new mDNS scanner with default settings
func NewMDNSScanner() *MDNSScanner {
	return &MDNSScanner{
		Timeout: DefaultMDNSTimeout,
		Service: DefaultMDNSService,
	}
}

// ScanForDevices browses for the full timeout and returns every LG TV seen.
func (s *MDNSScanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu      sync.Mutex
		devices = make([]*Device, 0)
		seen    = make(map[string]bool)
		done    = make(chan struct{})
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			device := parseServiceEntry(entry)
			if device == nil {
				continue
			}
			mu.Lock()
			if !seen[device.IP] {
				seen[device.IP] = true
				devices = append(devices, device)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, s.service(), ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once the browse context ends
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	result := make([]*Device, len(devices))
	copy(result, devices)
	return result, nil
}

// Discover returns the first LG TV seen, or ErrNotFound after the timeout.
func (s *MDNSScanner) Discover(ctx context.Context) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if device := parseServiceEntry(entry); device != nil {
				select {
				case found <- device:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, s.service(), ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case device := <-found:
		logging.Info("Found TV using mDNS",
			zap.String("ip", device.IP),
			zap.String("hostname", device.Hostname),
		)
		return device, nil
	case <-ctx.Done():
		// A device may have arrived just as the context ended
		select {
		case device := <-found:
			return device, nil
		default:
		}
		return nil, ErrNotFound
	}
}

func (s *MDNSScanner) service() string {
	if s.Service == "" {
		return DefaultMDNSService
	}
	return s.Service
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry does not look like an LG TV.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		key, value, _ := strings.Cut(txt, "=")
		metadata[strings.ToLower(key)] = value
	}

	if !isLGEntry(entry.Instance, entry.HostName, metadata) {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	return &Device{
		IP:           ip,
		Hostname:     entry.HostName,
		Server:       metadata["model"],
		Source:       SourceMDNS,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func isLGEntry(instance, hostname string, metadata map[string]string) bool {
	if strings.Contains(strings.ToLower(metadata["manufacturer"]), "lg") {
		return true
	}
	for _, name := range []string{instance, hostname} {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "webos") ||
			strings.HasPrefix(lower, "lg ") ||
			strings.HasPrefix(lower, "[lg]") ||
			strings.HasPrefix(lower, "lgwebostv") {
			return true
		}
	}
	return false
}
