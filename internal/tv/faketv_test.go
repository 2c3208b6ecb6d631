package tv

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/muurk/webos3d/internal/protocol"
)

// testHost is what tests connect to; the dialer routes it to the fake TV
const testHost = "tv.test"

const testAddr = "ws://tv.test:3000"

// recordedRequest is a request the fake TV received on its control socket
type recordedRequest struct {
	ID      string
	URI     string
	Payload map[string]any
}

// fakeTV emulates the parts of a webOS TV the client uses: registration, a
// handful of ssap:// services, and a 3D menu driven from the pointer socket.
type fakeTV struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu sync.Mutex

	// device state
	mode     protocol.Display3dMode
	lastMode protocol.Display3dMode
	menuOpen bool
	volume   int

	// pairing
	clientKey string
	prompt    bool

	// behaviour overrides
	registerReply func(id string) map[string]any
	replies       map[string]func(id string) map[string]any
	closeOn       map[string]int
	stickyPresses int

	// observations
	registrations int
	registerKeys  []string
	requests      []recordedRequest
	pointerEvents []string
	pings         int
}

func newFakeTV(t *testing.T) *fakeTV {
	t.Helper()

	f := &fakeTV{
		t:         t,
		mode:      protocol.ModeOff,
		lastMode:  protocol.ModeTopBottom,
		volume:    12,
		clientKey: "fake-client-key",
		replies:   make(map[string]func(id string) map[string]any),
		closeOn:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/pointer", f.handlePointer)
	mux.HandleFunc("/", f.handleControl)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

// dialer routes every address to the fake TV
func (f *fakeTV) dialer() *websocket.Dialer {
	addr := strings.TrimPrefix(f.srv.URL, "http://")
	return &websocket.Dialer{
		HandshakeTimeout: time.Second,
		NetDialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
}

func (f *fakeTV) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetPingHandler(func(data string) error {
		f.mu.Lock()
		f.pings++
		f.mu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			ID      string         `json:"id"`
			Type    string         `json:"type"`
			URI     string         `json:"uri"`
			Payload map[string]any `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			f.t.Errorf("fake TV got invalid frame %q: %v", data, err)
			return
		}

		switch msg.Type {
		case protocol.TypeRegister:
			if !f.handleRegister(conn, msg.ID, msg.Payload) {
				return
			}
		case protocol.TypeRequest:
			if !f.handleRequest(conn, msg.ID, msg.URI, msg.Payload) {
				return
			}
		default:
			f.t.Errorf("fake TV got unexpected message type %q", msg.Type)
			return
		}
	}
}

func (f *fakeTV) handleRegister(conn *websocket.Conn, id string, payload map[string]any) bool {
	f.mu.Lock()
	f.registrations++
	key, _ := payload["client-key"].(string)
	f.registerKeys = append(f.registerKeys, key)
	override := f.registerReply
	prompt := f.prompt && key != f.clientKey
	issued := f.clientKey
	f.mu.Unlock()

	if override != nil {
		return conn.WriteJSON(override(id)) == nil
	}

	if prompt {
		err := conn.WriteJSON(map[string]any{
			"id":   id,
			"type": protocol.TypeResponse,
			"payload": map[string]any{
				"pairingType": protocol.PairingTypePrompt,
				"returnValue": true,
			},
		})
		if err != nil {
			return false
		}
	}

	return conn.WriteJSON(map[string]any{
		"id":      id,
		"type":    protocol.TypeRegistered,
		"payload": map[string]any{"client-key": issued},
	}) == nil
}

func (f *fakeTV) handleRequest(conn *websocket.Conn, id, uri string, payload map[string]any) bool {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{ID: id, URI: uri, Payload: payload})

	if f.closeOn[uri] > 0 {
		f.closeOn[uri]--
		f.mu.Unlock()
		return false
	}

	if override, ok := f.replies[uri]; ok {
		f.mu.Unlock()
		return conn.WriteJSON(override(id)) == nil
	}

	reply := f.serve(uri, payload)
	f.mu.Unlock()

	return conn.WriteJSON(map[string]any{
		"id":      id,
		"type":    protocol.TypeResponse,
		"payload": reply,
	}) == nil
}

// serve runs a service call; f.mu is held
func (f *fakeTV) serve(uri string, payload map[string]any) map[string]any {
	switch uri {
	case protocol.URIGetPointerInputSocket:
		return map[string]any{"returnValue": true, "socketPath": testAddr + "/pointer"}

	case protocol.URIGet3DStatus:
		return map[string]any{
			"returnValue": true,
			"status3D": map[string]any{
				"status":  f.mode != protocol.ModeOff,
				"pattern": f.mode.Pattern(),
			},
		}

	case protocol.URISet3DOn:
		f.mode = f.lastMode

	case protocol.URISet3DOff:
		if f.mode != protocol.ModeOff {
			f.lastMode = f.mode
		}
		f.mode = protocol.ModeOff
		f.menuOpen = false

	case protocol.URIGetVolume:
		return map[string]any{"returnValue": true, "volume": f.volume}

	case protocol.URISetVolume:
		if v, ok := payload["volume"].(float64); ok {
			f.volume = int(v)
		}

	case protocol.URIGetExternalInputList:
		return map[string]any{
			"returnValue": true,
			"devices": []any{
				map[string]any{"id": "HDMI_1", "label": "Blu-ray", "icon": "hdmi.png", "favorite": true},
				map[string]any{"label": "no id"},
				map[string]any{"id": "HDMI_2"},
			},
		}

	case protocol.URIGetAudioStatus:
		return map[string]any{
			"returnValue": true,
			"scenario":    "mastervolume_ext_speaker_optical",
			"volume":      -1,
			"mute":        false,
		}

	case protocol.URIGetCurrentChannel:
		return map[string]any{
			"returnValue":     true,
			"channelId":       "3_7_1_0_0_1",
			"channelNumber":   "1",
			"channelName":     "Das Erste HD",
			"channelTypeName": "Cable Digital TV",
		}
	}

	return map[string]any{"returnValue": true}
}

func (f *fakeTV) handlePointer(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f.pointerEvent(string(data))
	}
}

// pointerEvent emulates the 3D menu. While it is open, the highlighted
// format is previewed, so get3DStatus reports the cursor position.
func (f *fakeTV) pointerEvent(frame string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event := "click"
	if frame != protocol.ClickFrame {
		for _, line := range strings.Split(frame, "\n") {
			if name, ok := strings.CutPrefix(line, "name:"); ok {
				event = name
			}
		}
	}
	f.pointerEvents = append(f.pointerEvents, event)

	switch protocol.RemoteButton(event) {
	case protocol.ButtonMode3D:
		if f.mode == protocol.ModeOff {
			f.menuOpen = true
			f.mode = f.lastMode
		}
	case protocol.ButtonLeft, protocol.ButtonRight:
		if !f.menuOpen {
			return
		}
		if f.stickyPresses > 0 {
			f.stickyPresses--
			return
		}
		cursor := f.mode.Ordinal()
		if protocol.RemoteButton(event) == protocol.ButtonLeft {
			cursor--
		} else {
			cursor++
		}
		modes := protocol.AllModes()
		cursor = max(0, min(cursor, len(modes)-1))
		f.mode = modes[cursor]
	}

	if event == "click" && f.menuOpen {
		f.menuOpen = false
		if f.mode != protocol.ModeOff {
			f.lastMode = f.mode
		}
	}
}

func (f *fakeTV) set(fn func(f *fakeTV)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeTV) currentMode() protocol.Display3dMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *fakeTV) registrationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registrations
}

func (f *fakeTV) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeTV) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pointerEvents...)
}

// requestsFor returns the recorded requests for uri
func (f *fakeTV) requestsFor(uri string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if r.URI == uri {
			out = append(out, r)
		}
	}
	return out
}

// uris returns the recorded request URIs, skipping pointer socket lookups
func (f *fakeTV) uris() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		if r.URI != protocol.URIGetPointerInputSocket {
			out = append(out, r.URI)
		}
	}
	return out
}

// resetObservations clears what was recorded so far
func (f *fakeTV) resetObservations() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
	f.pointerEvents = nil
}

func testTiming() SwitchTiming {
	return SwitchTiming{
		PreMenu:    5 * time.Millisecond,
		MenuOpen:   30 * time.Millisecond,
		Settle:     30 * time.Millisecond,
		Correction: 30 * time.Millisecond,
		Close:      30 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, f *fakeTV, keys KeyStore) *Client {
	t.Helper()
	c := NewClient(keys)
	c.Dialer = f.dialer()
	c.ResponseTimeout = 2 * time.Second
	c.PairingTimeout = 2 * time.Second
	c.Timing = testTiming()
	t.Cleanup(c.Disconnect)
	return c
}

// connectedClient returns a client paired with f
func connectedClient(t *testing.T, f *fakeTV) *Client {
	t.Helper()
	c := newTestClient(t, f, NewMemoryKeyStore())
	require.NoError(t, c.Connect(testHost))
	return c
}

func idPrefix(id string) string {
	prefix, _, _ := strings.Cut(id, "_")
	return prefix
}
