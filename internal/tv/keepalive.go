package tv

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
)

// DefaultKeepaliveInterval is how often StartKeepalive pings by default
const DefaultKeepaliveInterval = 60 * time.Second

// Ping sends a WebSocket ping on the control channel. It uses no message ID
// and does not wait for the pong, so it is safe while a command is in flight.
func (c *Client) Ping() error {
	conn := c.live.Load()
	if conn == nil {
		return newNotConnectedError("not connected", nil)
	}
	if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return newTransportError("ping failed", err, conn.RemoteAddr().String())
	}
	return nil
}

// StartKeepalive pings every interval until ctx is done. Failed pings are
// logged; the next command reconnects.
func (c *Client) StartKeepalive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultKeepaliveInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Ping(); err != nil {
					logging.Debug("Keepalive ping failed", zap.Error(err))
				}
			}
		}
	}()
}
