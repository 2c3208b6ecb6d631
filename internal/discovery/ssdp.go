package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/webos3d/internal/logging"
)

const (
	// SSDPAddress is the SSDP multicast group and port
	SSDPAddress = "239.255.255.250:1900"

	// SearchTarget is the DIAL service type webOS TVs answer to
	SearchTarget = "urn:dial-multiscreen-org:service:dial:1"

	// UserAgent is sent with every search; some TVs ignore searches without it
	UserAgent = "UDAP/2.0"

	// DefaultTries is the default number of search datagrams sent
	DefaultTries = 5

	// DefaultTimeout is the default receive window per search
	DefaultTimeout = 3 * time.Second

	// MinTimeout is the smallest accepted receive window. MX is sent as
	// timeout-1 seconds, which must be at least 1.
	MinTimeout = 2 * time.Second

	// MaxTimeout is the largest receive window UPnP allows
	MaxTimeout = 120 * time.Second

	// multicastTTL keeps searches on the local network
	multicastTTL = 2

	// maxDatagram bounds a single SSDP reply
	maxDatagram = 1024
)

// ErrNotFound is returned when no webOS TV answered any search.
var ErrNotFound = errors.New("no webOS TV responded to SSDP discovery")

var webOSMarkers = [][]byte{
	[]byte("WebOS"),
	[]byte("LG Smart TV"),
}

// Scanner finds webOS TVs with SSDP M-SEARCH.
type Scanner struct {
	// Tries is the number of search datagrams to send (at least 1)
	Tries int

	// Timeout is how long to wait for each reply before giving up on an attempt.
	// It is clamped to [MinTimeout, MaxTimeout].
	Timeout time.Duration

	// Target is the address searches are sent to (default SSDPAddress)
	Target string
}

// NewScanner creates a new SSDP scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Tries:   DefaultTries,
		Timeout: DefaultTimeout,
		Target:  SSDPAddress,
	}
}

// ClampTimeout limits d to [MinTimeout, MaxTimeout], logging any adjustment.
func ClampTimeout(d time.Duration) time.Duration {
	if d < MinTimeout {
		logging.Warn("Discovery timeout too small, using minimum",
			zap.Duration("requested", d),
			zap.Duration("timeout", MinTimeout),
		)
		return MinTimeout
	}
	if d > MaxTimeout {
		logging.Warn("Discovery timeout too big, using maximum",
			zap.Duration("requested", d),
			zap.Duration("timeout", MaxTimeout),
		)
		return MaxTimeout
	}
	return d
}

// BuildSearchRequest returns the M-SEARCH datagram with the given MX value.
func BuildSearchRequest(mx int) []byte {
	return []byte("M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + SSDPAddress + "\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		fmt.Sprintf("MX: %d\r\n", mx) +
		"ST: " + SearchTarget + "\r\n" +
		"USER-AGENT: " + UserAgent + "\r\n" +
		"\r\n")
}

// IsWebOSResponse reports whether an SSDP reply came from a webOS TV.
func IsWebOSResponse(data []byte) bool {
	for _, marker := range webOSMarkers {
		if bytes.Contains(data, marker) {
			return true
		}
	}
	return false
}

// ParseResponseHeaders parses the header lines of an SSDP reply. Keys are
// upper-cased; the status line is skipped.
func ParseResponseHeaders(data []byte) map[string]string {
	headers := make(map[string]string)
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

// Discover sends up to Tries searches and returns the first webOS TV that
// answers. Each attempt reads replies until none arrives within Timeout.
// Returns ErrNotFound when no qualifying reply arrived.
func (s *Scanner) Discover(ctx context.Context) (*Device, error) {
	if s.Tries < 1 {
		return nil, fmt.Errorf("tries has to be >= 1, got %d", s.Tries)
	}
	timeout := ClampTimeout(s.Timeout)

	target := s.Target
	if target == "" {
		target = SSDPAddress
	}
	dst, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve SSDP target %s: %w", target, err)
	}

	// Bind to any available local port
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to bind SSDP socket: %w", err)
	}
	defer conn.Close()

	if dst.IP.IsMulticast() {
		pc := ipv4.NewPacketConn(conn)
		if err := pc.SetMulticastTTL(multicastTTL); err != nil {
			logging.Warn("Could not set multicast TTL", zap.Error(err))
		}
		if err := pc.SetMulticastLoopback(true); err != nil {
			logging.Warn("Could not enable multicast loopback", zap.Error(err))
		}
	}

	// Unblock a pending read when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	mx := int(timeout/time.Second) - 1
	request := BuildSearchRequest(mx)
	buf := make([]byte, maxDatagram)

	for attempt := 1; attempt <= s.Tries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logging.Debug("Sending SSDP search",
			zap.String("target", dst.String()),
			zap.Int("attempt", attempt),
			zap.Int("mx", mx),
		)
		if _, err := conn.WriteToUDP(request, dst); err != nil {
			return nil, fmt.Errorf("failed to send SSDP search: %w", err)
		}

		for {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return nil, fmt.Errorf("failed to set read deadline: %w", err)
			}
			// Checked after arming the deadline so a concurrent cancel is not overwritten
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				// Timeout ends this attempt
				break
			}

			data := buf[:n]
			logging.LogRawBytes("SSDP response", data)

			if IsWebOSResponse(data) {
				device := newSSDPDevice(addr, data)
				logging.Info("Found TV using SSDP",
					zap.String("ip", device.IP),
					zap.String("server", device.Server),
				)
				return device, nil
			}
		}
	}

	logging.Info("Didn't find TV using SSDP", zap.Int("tries", s.Tries))
	return nil, ErrNotFound
}

func newSSDPDevice(addr *net.UDPAddr, data []byte) *Device {
	headers := ParseResponseHeaders(data)
	return &Device{
		IP:           addr.IP.String(),
		Server:       headers["SERVER"],
		Location:     headers["LOCATION"],
		USN:          headers["USN"],
		Source:       SourceSSDP,
		Metadata:     headers,
		DiscoveredAt: time.Now(),
	}
}

// DiscoverTV is a convenience function that runs a scanner with the given
// tries and timeout and returns the TV's IP address.
func DiscoverTV(tries int, timeout time.Duration) (string, error) {
	scanner := NewScanner()
	scanner.Tries = tries
	scanner.Timeout = timeout

	device, err := scanner.Discover(context.Background())
	if err != nil {
		return "", err
	}
	return device.IP, nil
}
