package discovery

import (
	"fmt"
	"time"
)

// Discovery sources
const (
	SourceSSDP = "ssdp"
	SourceMDNS = "mdns"
)

// Device represents a TV found on the network
type Device struct {
	// IP is the address the reply came from (e.g., "192.168.1.20")
	IP string

	// Server is the SSDP SERVER header, e.g. "WebOS/4.1.0 UPnP/1.0"
	Server string

	// Location is the SSDP LOCATION header (device description URL)
	Location string

	// USN is the SSDP unique service name
	USN string

	// Hostname is the mDNS hostname, when found via mDNS
	Hostname string

	// Source is how the device was found ("ssdp" or "mdns")
	Source string

	// Metadata holds SSDP headers or mDNS TXT records
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Server
	if name == "" {
		name = d.Hostname
	}
	if name == "" {
		return fmt.Sprintf("webOS TV at %s (%s)", d.IP, d.Source)
	}
	return fmt.Sprintf("webOS TV at %s (%s, %s)", d.IP, name, d.Source)
}

// Host returns the address to connect to.
func (d *Device) Host() string {
	return d.IP
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
