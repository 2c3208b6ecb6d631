package protocol

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// WebSocketScheme is the scheme of the control channel address
	WebSocketScheme = "ws://"

	// ControlPort is the port of the webOS second-screen API
	ControlPort = "3000"
)

// NormalizeHost turns a user supplied host ("192.168.1.20", "ws://tv/",
// "ws://tv:3000") into the control channel address. The result always starts
// with "ws://" and ends with ":3000" exactly once. Applying it twice is a
// no-op.
func NormalizeHost(host string) string {
	if !strings.HasPrefix(host, WebSocketScheme) {
		host = WebSocketScheme + host
	}
	host = strings.TrimSuffix(host, "/")
	if !strings.HasSuffix(host, ":"+ControlPort) {
		host = host + ":" + ControlPort
	}
	return host
}

// IDGenerator hands out message IDs for one session.
//
// IDs are "<prefix><counter>" where prefix is six random hex characters and an
// underscore. It is not safe for concurrent use; the session serialises access.
type IDGenerator struct {
	prefix  string
	counter int
}

// NewIDGenerator returns a generator with a fresh random prefix and a counter
// starting at zero.
func NewIDGenerator() *IDGenerator {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &IDGenerator{prefix: hex[:6] + "_"}
}

// Prefix returns the session prefix.
func (g *IDGenerator) Prefix() string {
	return g.prefix
}

// Next returns the next message ID.
func (g *IDGenerator) Next() string {
	id := g.prefix + strconv.Itoa(g.counter)
	g.counter++
	return id
}
