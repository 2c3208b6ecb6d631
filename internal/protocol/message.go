package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope types used on the control channel
const (
	TypeRequest    = "request"
	TypeRegister   = "register"
	TypeRegistered = "registered"
	TypeResponse   = "response"
	TypeError      = "error"
)

// PairingTypePrompt asks the TV to show an on-screen confirmation when no
// valid client key is presented.
const PairingTypePrompt = "PROMPT"

// Payload is a decoded JSON object carried in a request or response.
type Payload map[string]any

// Decode projects the payload into v (a pointer to a struct or map) using the
// struct's JSON tags.
func (p Payload) Decode(v any) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to re-encode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// Request is an outbound control-channel envelope.
type Request struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	URI     string `json:"uri,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// NewRequest builds a "request" envelope. A nil payload is omitted from the
// encoded frame.
func NewRequest(id, uri string, payload any) *Request {
	return &Request{
		ID:      id,
		Type:    TypeRequest,
		URI:     uri,
		Payload: payload,
	}
}

// Encode marshals the request into a single JSON text frame.
func (r *Request) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", r.Type, r.ID, err)
	}
	return data, nil
}

// Response is an inbound control-channel envelope.
//
// Payload and Error are kept raw so callers can tell a missing payload apart
// from one that is present but not an object.
type Response struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// ParseResponse decodes a single text frame.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("could not decode response %q: %w", truncate(data, 200), err)
	}
	return &resp, nil
}

// HasPayload reports whether a non-null payload field was present.
func (r *Response) HasPayload() bool {
	trimmed := bytes.TrimSpace(r.Payload)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// PayloadObject decodes the payload, which must be a JSON object.
func (r *Response) PayloadObject() (Payload, error) {
	if !r.HasPayload() {
		return nil, fmt.Errorf("payload missing in response")
	}
	trimmed := bytes.TrimSpace(r.Payload)
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("payload is not an object")
	}
	var p Payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return p, nil
}

// ErrorText renders the error field. TVs send a string here; anything else is
// returned as raw JSON.
func (r *Response) ErrorText() string {
	trimmed := bytes.TrimSpace(r.Error)
	if len(trimmed) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// PairingPrompt reports whether this is the intermediate registration reply
// sent while the TV waits for the user to accept the pairing prompt.
func (r *Response) PairingPrompt() bool {
	p, err := r.PayloadObject()
	if err != nil {
		return false
	}
	_, ok := p["pairingType"]
	return ok
}

// ClientKey returns the client-key carried in a "registered" payload, if any.
func (r *Response) ClientKey() (string, bool) {
	p, err := r.PayloadObject()
	if err != nil {
		return "", false
	}
	key, ok := p["client-key"].(string)
	return key, ok && key != ""
}

func truncate(data []byte, n int) string {
	if len(data) > n {
		return string(data[:n]) + "..."
	}
	return string(data)
}
