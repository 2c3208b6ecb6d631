package tv

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
)

// PointerSocketPath asks the TV for the address of its input pointer socket.
func (c *Client) PointerSocketPath() (string, error) {
	payload, err := c.SendCommand(protocol.URIGetPointerInputSocket, nil)
	if err != nil {
		return "", err
	}
	return c.socketPathFrom(payload)
}

func (c *Client) socketPathFrom(payload protocol.Payload) (string, error) {
	path, ok := payload["socketPath"].(string)
	if !ok || path == "" {
		return "", newProtocolError("socketPath missing in payload", nil, c.host)
	}
	return path, nil
}

// ConnectPointer (re)opens the input pointer channel.
func (c *Client) ConnectPointer() error {
	path, err := c.PointerSocketPath()
	if err != nil {
		return err
	}
	return c.openPointer(path)
}

// connectPointerLocked opens the pointer channel while mu is held. The lookup
// is not resent; if it drops the control channel, the caller pairs again.
func (c *Client) connectPointerLocked() error {
	payload, err := c.sendCommandLocked(protocol.URIGetPointerInputSocket, nil, 0)
	if err != nil {
		return err
	}
	path, err := c.socketPathFrom(payload)
	if err != nil {
		return err
	}
	return c.openPointer(path)
}

func (c *Client) openPointer(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultHandshakeTimeout)
	defer cancel()

	conn, _, err := c.dialer().DialContext(ctx, path, nil)
	if err != nil {
		return newTransportError("failed to connect input pointer", err, path)
	}

	c.pointerMu.Lock()
	old := c.pointer
	c.pointer = conn
	c.pointerMu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	logging.LogConnection(path, "pointer_connected")
	return nil
}

func (c *Client) closePointer() {
	c.pointerMu.Lock()
	defer c.pointerMu.Unlock()
	if c.pointer != nil {
		_ = c.pointer.Close()
		c.pointer = nil
	}
}

// PointerConnected reports whether the input pointer channel is open.
func (c *Client) PointerConnected() bool {
	c.pointerMu.Lock()
	defer c.pointerMu.Unlock()
	return c.pointer != nil
}

// SendButton presses a remote-control button. The pointer channel is
// connected on demand; failures leave the control channel untouched.
func (c *Client) SendButton(button protocol.RemoteButton) error {
	if button == "" {
		return NewValidationError("button must not be empty")
	}
	return c.sendPointerFrame(protocol.ButtonFrame(button), zap.String("button", string(button)))
}

// SendClick clicks at the current pointer position, which confirms the
// highlighted menu entry.
func (c *Client) SendClick() error {
	return c.sendPointerFrame(protocol.ClickFrame, zap.String("button", "click"))
}

func (c *Client) sendPointerFrame(frame string, field zap.Field) error {
	if !c.PointerConnected() {
		if err := c.ConnectPointer(); err != nil {
			return err
		}
	}

	c.pointerMu.Lock()
	defer c.pointerMu.Unlock()

	if c.pointer == nil {
		// Closed by a concurrent disconnect
		return newNotConnectedError("input pointer not connected", nil)
	}

	data := []byte(frame)
	remote := c.pointer.RemoteAddr().String()
	logging.Debug("Pointer event", field)
	logging.LogWebSocketMessage(remote, "pointer", "sent", websocket.TextMessage, data)

	err := c.pointer.SetWriteDeadline(time.Now().Add(writeWait))
	if err == nil {
		err = c.pointer.WriteMessage(websocket.TextMessage, data)
	}
	if err == nil {
		return nil
	}

	// Drop the channel so the next event reconnects
	logging.Warn("Pointer write failed", field, zap.String("pointer", remote), zap.Error(err))
	_ = c.pointer.Close()
	c.pointer = nil
	return newTransportError("failed to send pointer event", err, remote)
}
