package tv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
)

var (
	// errEmptyReply stands in for a reply frame with no content
	errEmptyReply = errors.New("empty reply")

	// errNoControlChannel is returned by roundTrip when the socket is gone
	errNoControlChannel = errors.New("control channel closed")
)

// SendCommand issues one request on the control channel and returns the
// reply's payload object. payload may be nil.
//
// Without a session, one connect to the last known address is attempted.
// If the connection drops before a reply arrives, the client reconnects and
// resends once; a second loss is reported as a transport error.
func (c *Client) SendCommand(uri string, payload any) (protocol.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCommandLocked(uri, payload, maxResends)
}

func (c *Client) sendCommandLocked(uri string, payload any, resends int) (protocol.Payload, error) {
	if err := c.ensureConnectedLocked(); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		id := c.ids.Next()
		frame, err := protocol.NewRequest(id, uri, payload).Encode()
		if err != nil {
			return nil, NewValidationError(err.Error())
		}

		logging.LogCommand(c.host, uri, id, attempt+1)

		reply, err := c.roundTrip(frame)
		if err == nil {
			return c.validateReply(id, reply)
		}

		if attempt >= resends {
			host := c.host
			c.dropLocked()
			return nil, newTransportError(fmt.Sprintf("no reply to %s", uri), err, host)
		}

		logging.Warn("Connection lost, reconnecting and resending",
			zap.String("host", c.host),
			zap.String("uri", uri),
			zap.Error(err),
		)
		c.dropLocked()
		if err := c.connectLocked(context.Background(), c.lastHost); err != nil {
			return nil, newNotConnectedError("reconnect failed", err)
		}
	}
}

// ensureConnectedLocked reconnects to the last address if there is no session
func (c *Client) ensureConnectedLocked() error {
	if c.conn != nil && c.paired {
		return nil
	}
	if c.lastHost == "" {
		return newNotConnectedError("not connected", nil)
	}

	logging.Info("Not connected, reconnecting", zap.String("host", c.lastHost))
	if err := c.connectLocked(context.Background(), c.lastHost); err != nil {
		return newNotConnectedError("reconnect failed", err)
	}
	return nil
}

// roundTrip writes one frame and reads one reply. Any failure, including an
// empty reply, means the connection is unusable.
func (c *Client) roundTrip(frame []byte) ([]byte, error) {
	if c.conn == nil {
		return nil, errNoControlChannel
	}
	if err := c.writeFrame(c.conn, frame); err != nil {
		return nil, err
	}
	reply, err := c.readFrame(c.conn, c.responseTimeout())
	if err != nil {
		return nil, err
	}
	if len(reply) == 0 {
		return nil, errEmptyReply
	}
	return reply, nil
}

func (c *Client) validateReply(id string, data []byte) (protocol.Payload, error) {
	resp, err := protocol.ParseResponse(data)
	if err != nil {
		return nil, newProtocolError("could not decode reply", err, c.host)
	}

	if resp.ID != id {
		// Replies are no longer matched to requests; the next command starts on a fresh socket
		host := c.host
		c.dropLocked()
		return nil, newProtocolError(fmt.Sprintf("expected response with ID %s but got %q", id, resp.ID), nil, host)
	}

	if resp.Type == protocol.TypeError {
		text := resp.ErrorText()
		if text == "" {
			text = "unspecified error"
		}
		return nil, newDeviceError(text, c.host)
	}

	payload, err := resp.PayloadObject()
	if err != nil {
		return nil, newProtocolError(err.Error(), nil, c.host)
	}
	return payload, nil
}
