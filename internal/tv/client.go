package tv

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
)

const (
	// DefaultAppName is shown in the TV's pairing prompt
	DefaultAppName = "webos3d"

	// DefaultResponseTimeout bounds the wait for a single reply
	DefaultResponseTimeout = 10 * time.Second

	// DefaultPairingTimeout bounds the wait for the user to accept the
	// on-screen pairing prompt
	DefaultPairingTimeout = 60 * time.Second

	// DefaultHandshakeTimeout bounds the WebSocket opening handshake
	DefaultHandshakeTimeout = 5 * time.Second

	// writeWait bounds a single frame write
	writeWait = 5 * time.Second

	// maxResends is how often a command is silently resent after the
	// connection dropped
	maxResends = 1
)

// Client is a session with one webOS TV.
//
// All control-channel traffic (registration and commands) is serialised:
// at most one request is outstanding at any time. The input pointer channel
// has its own lock and may be used while a command is in flight.
type Client struct {
	// AppName is the application name shown in the pairing prompt
	AppName string

	// PointerOnConnect opens the input pointer channel right after pairing
	PointerOnConnect bool

	// ResponseTimeout bounds the wait for each reply
	ResponseTimeout time.Duration

	// PairingTimeout bounds the wait for the user to accept the pairing prompt
	PairingTimeout time.Duration

	// Timing holds the settle delays of the 3D switch
	Timing SwitchTiming

	// Dialer opens both sockets
	Dialer *websocket.Dialer

	keys KeyStore

	// mu guards the control channel and session state below
	mu         sync.Mutex
	conn       *websocket.Conn
	host       string
	lastHost   string
	ids        *protocol.IDGenerator
	pairingKey string
	paired     bool

	// live mirrors conn for the keepalive, which must not wait on mu
	live atomic.Pointer[websocket.Conn]

	// pointerMu guards the pointer channel. Never acquire mu while holding it.
	pointerMu sync.Mutex
	pointer   *websocket.Conn

	// stereoMu serialises 3D switches
	stereoMu sync.Mutex
}

// NewClient creates a client that persists pairing keys in keys.
// A nil store behaves like NopKeyStore.
func NewClient(keys KeyStore) *Client {
	if keys == nil {
		keys = NopKeyStore{}
	}
	return &Client{
		AppName:          DefaultAppName,
		PointerOnConnect: true,
		ResponseTimeout:  DefaultResponseTimeout,
		PairingTimeout:   DefaultPairingTimeout,
		Timing:           DefaultSwitchTiming(),
		keys:             keys,
	}
}

// Connect opens a session with the TV at host and pairs with it.
func (c *Client) Connect(host string) error {
	return c.ConnectContext(context.Background(), host)
}

// ConnectContext opens a session with the TV at host and pairs with it.
//
// It is a no-op when a paired session to the same address is already open.
// Otherwise any existing session is closed first. ctx bounds the dial only.
func (c *Client) ConnectContext(ctx context.Context, host string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx, host)
}

func (c *Client) connectLocked(ctx context.Context, host string) error {
	return c.openSessionLocked(ctx, host, c.PointerOnConnect)
}

func (c *Client) openSessionLocked(ctx context.Context, host string, wantPointer bool) error {
	if strings.TrimSpace(host) == "" {
		return NewValidationError("host must not be empty")
	}
	addr := protocol.NormalizeHost(strings.TrimSpace(host))

	if c.conn != nil && c.paired && addr == c.host {
		return nil
	}

	c.closeLocked()
	c.host = addr
	c.lastHost = addr
	c.ids = protocol.NewIDGenerator()

	logging.LogConnection(addr, "connecting", zap.String("prefix", c.ids.Prefix()))

	conn, _, err := c.dialer().DialContext(ctx, addr, nil)
	if err != nil {
		return newTransportError("failed to connect to TV", err, addr)
	}
	logging.LogConnection(addr, "dialed")

	key, _ := c.keys.LoadClientKey(addr)
	if key == "" {
		logging.Info("Pairing without key", zap.String("host", addr))
	} else {
		logging.Info("Pairing with stored key", zap.String("host", addr))
	}

	newKey, err := c.register(conn, addr, key)
	if err != nil {
		_ = conn.Close()
		logging.Warn("Registration failed", zap.String("host", addr), zap.Error(err))
		return err
	}

	c.pairingKey = key
	if newKey != "" && newKey != key {
		if err := c.keys.SaveClientKey(addr, newKey); err != nil {
			logging.Warn("Could not persist client key", zap.String("host", addr), zap.Error(err))
		}
		c.pairingKey = newKey
	}

	c.conn = conn
	c.live.Store(conn)
	c.paired = true
	logging.LogConnection(addr, "registered")

	if wantPointer {
		if err := c.connectPointerLocked(); err != nil {
			logging.Warn("Could not connect input pointer", zap.String("host", addr), zap.Error(err))
			if c.conn == nil {
				// The lookup lost the control channel; pair again without the pointer
				logging.Info("Control channel lost during pointer lookup, reconnecting", zap.String("host", addr))
				return c.openSessionLocked(ctx, addr, false)
			}
		}
	}

	return nil
}

// register runs the registration handshake on a fresh connection and returns
// the client key the TV issued (empty if none).
func (c *Client) register(conn *websocket.Conn, addr, key string) (string, error) {
	id := c.ids.Next()
	frame, err := protocol.NewRegistrationRequest(id, c.appName(), key).Encode()
	if err != nil {
		return "", newProtocolError("could not encode registration", err, addr)
	}
	if err := c.writeFrame(conn, frame); err != nil {
		return "", newTransportError("failed to send registration", err, addr)
	}

	resp, err := c.readRegistrationReply(conn, addr, id, c.responseTimeout())
	if err != nil {
		return "", err
	}

	if resp.PairingPrompt() {
		// The TV is showing a prompt; the outcome arrives as a second reply
		logging.Info("Waiting for the pairing prompt to be accepted on the TV", zap.String("host", addr))
		resp, err = c.readRegistrationReply(conn, addr, id, c.pairingTimeout())
		if err != nil {
			return "", err
		}
	}

	if resp.Type == "" {
		return "", newPairingError("type missing in response", addr)
	}
	if resp.Type != protocol.TypeRegistered {
		return "", newPairingError(fmt.Sprintf("unexpected response type %q", resp.Type), addr)
	}

	newKey, _ := resp.ClientKey()
	return newKey, nil
}

func (c *Client) readRegistrationReply(conn *websocket.Conn, addr, id string, timeout time.Duration) (*protocol.Response, error) {
	data, err := c.readFrame(conn, timeout)
	if err != nil {
		return nil, newTransportError("no reply to registration", err, addr)
	}

	resp, err := protocol.ParseResponse(data)
	if err != nil {
		return nil, newProtocolError("could not decode registration reply", err, addr)
	}
	if resp.ID != id {
		return nil, newProtocolError(fmt.Sprintf("expected response with ID %s but got %q", id, resp.ID), nil, addr)
	}
	if resp.Type == protocol.TypeError {
		text := resp.ErrorText()
		if text == "" {
			text = "registration rejected"
		}
		return nil, newPairingError(text, addr)
	}
	if _, err := resp.PayloadObject(); err != nil {
		return nil, newProtocolError(err.Error(), nil, addr)
	}
	return resp, nil
}

// Disconnect closes the pointer channel and the session. It is safe to call
// when not connected. The address is kept so a later command can reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		logging.LogConnection(c.host, "closed")
	}
	c.closeLocked()
}

// closeLocked tears down the pointer and the control channel
func (c *Client) closeLocked() {
	c.closePointer()
	c.paired = false
	c.live.Store(nil)
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
		c.conn = nil
	}
}

// dropLocked discards a broken control channel without a close handshake
func (c *Client) dropLocked() {
	c.closePointer()
	c.paired = false
	c.live.Store(nil)
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// IsConnected reports whether a paired session is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.paired
}

// Host returns the address of the current or last session.
func (c *Client) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHost
}

// ClientKey returns the key used for the current session.
func (c *Client) ClientKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pairingKey
}

func (c *Client) writeFrame(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	logging.LogWebSocketMessage(c.host, "control", "sent", websocket.TextMessage, data)
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) readFrame(conn *websocket.Conn, timeout time.Duration) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	logging.LogWebSocketMessage(c.host, "control", "received", msgType, data)
	return data, nil
}

func (c *Client) dialer() *websocket.Dialer {
	if c.Dialer != nil {
		return c.Dialer
	}
	return &websocket.Dialer{
		Proxy:            nil,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

func (c *Client) appName() string {
	if c.AppName == "" {
		return DefaultAppName
	}
	return c.AppName
}

func (c *Client) responseTimeout() time.Duration {
	if c.ResponseTimeout <= 0 {
		return DefaultResponseTimeout
	}
	return c.ResponseTimeout
}

func (c *Client) pairingTimeout() time.Duration {
	if c.PairingTimeout <= 0 {
		return DefaultPairingTimeout
	}
	return c.PairingTimeout
}
