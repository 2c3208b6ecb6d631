package tv

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/webos3d/internal/protocol"
)

func TestToast(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	require.NoError(t, c.Toast("Switched to 3D", nil))
	require.NoError(t, c.Toast(strings.Repeat("x", 80), &Icon{Data: []byte{1, 2, 3}, Extension: "PNG"}))

	reqs := tv.requestsFor(protocol.URICreateToast)
	require.Len(t, reqs, 2)

	assert.Equal(t, map[string]any{"message": "Switched to 3D"}, reqs[0].Payload)
	assert.Equal(t, "AQID", reqs[1].Payload["iconData"])
	assert.Equal(t, "png", reqs[1].Payload["iconExtension"])
}

func TestLoadIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kodi.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))

	icon, err := LoadIcon(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), icon.Data)
	assert.Equal(t, "jpg", icon.Extension)

	_, err = LoadIcon(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	noExt := filepath.Join(dir, "icon")
	require.NoError(t, os.WriteFile(noExt, []byte("x"), 0o600))
	_, err = LoadIcon(noExt)
	assert.Error(t, err)
}

func TestEnableDisable3D(t *testing.T) {
	tv := newFakeTV(t)
	tv.set(func(f *fakeTV) { f.lastMode = protocol.ModeCheckBoard })
	c := connectedClient(t, tv)

	require.NoError(t, c.Enable3D())
	assert.Equal(t, protocol.ModeCheckBoard, c.Get3DMode())

	status, err := c.Get3DStatus()
	require.NoError(t, err)
	assert.True(t, status.Status)
	assert.Equal(t, "check_board", status.Pattern)

	require.NoError(t, c.Disable3D())
	assert.Equal(t, protocol.ModeOff, c.Get3DMode())
}

func TestGet3DStatus_Missing(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)
	tv.set(func(f *fakeTV) {
		f.replies[protocol.URIGet3DStatus] = func(id string) map[string]any {
			return map[string]any{"id": id, "type": "response", "payload": map[string]any{"returnValue": true}}
		}
	})

	_, err := c.Get3DStatus()

	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
	assert.Contains(t, err.Error(), "status3D missing")
}

func TestInputs(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	inputs, err := c.Inputs()

	require.NoError(t, err)
	assert.Equal(t, []InputDevice{
		{ID: "HDMI_1", Label: "Blu-ray", Icon: "hdmi.png", Favorite: true},
		{ID: "HDMI_2", Label: "MISSING", Icon: "MISSING"},
	}, inputs)
}

func TestSetInput(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	require.NoError(t, c.SetInput("HDMI_2"))
	reqs := tv.requestsFor(protocol.URISwitchInput)
	require.Len(t, reqs, 1)
	assert.Equal(t, "HDMI_2", reqs[0].Payload["inputId"])

	err := c.SetInput("")
	assert.True(t, IsValidationError(err))
	assert.Len(t, tv.requestsFor(protocol.URISwitchInput), 1)
}

func TestVolume(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	require.NoError(t, c.SetVolume(30))
	volume, err := c.Volume()
	require.NoError(t, err)
	assert.Equal(t, 30, volume)

	for _, v := range []int{-1, 101} {
		err := c.SetVolume(v)
		assert.True(t, IsValidationError(err), "SetVolume(%d): %v", v, err)
	}
	assert.Len(t, tv.requestsFor(protocol.URISetVolume), 1)
}

func TestVolume_StatusShape(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)
	tv.set(func(f *fakeTV) {
		f.replies[protocol.URIGetVolume] = func(id string) map[string]any {
			return map[string]any{
				"id":      id,
				"type":    "response",
				"payload": map[string]any{"volumeStatus": map[string]any{"volume": 7}},
			}
		}
	})

	volume, err := c.Volume()

	require.NoError(t, err)
	assert.Equal(t, 7, volume)
}

func TestVolume_Missing(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)
	tv.set(func(f *fakeTV) {
		f.replies[protocol.URIGetVolume] = func(id string) map[string]any {
			return map[string]any{"id": id, "type": "response", "payload": map[string]any{"returnValue": true}}
		}
	})

	_, err := c.Volume()

	assert.True(t, IsProtocolError(err))
}

func TestAudioStatus(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	status, err := c.AudioStatus()

	require.NoError(t, err)
	assert.Equal(t, &AudioStatus{Scenario: "mastervolume_ext_speaker_optical", Volume: -1}, status)
}

func TestCurrentChannel(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	ch, err := c.CurrentChannel()

	require.NoError(t, err)
	assert.Equal(t, "1", ch.Number)
	assert.Equal(t, "Das Erste HD", ch.Name)
}

func TestSendEnterKey(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)

	require.NoError(t, c.SendEnterKey())
	assert.Len(t, tv.requestsFor(protocol.URISendEnterKey), 1)
}

func TestPointer_ConnectsLazily(t *testing.T) {
	tv := newFakeTV(t)
	c := newTestClient(t, tv, nil)
	c.PointerOnConnect = false
	require.NoError(t, c.Connect(testHost))
	require.False(t, c.PointerConnected())

	require.NoError(t, c.SendButton(protocol.ButtonHome))
	require.NoError(t, c.SendClick())

	assert.True(t, c.PointerConnected())
	assert.Len(t, tv.requestsFor(protocol.URIGetPointerInputSocket), 1)
	eventsEventually(t, tv, []string{"HOME", "click"})
}

func TestPointer_PathLookupFailure(t *testing.T) {
	tv := newFakeTV(t)
	c := newTestClient(t, tv, nil)
	c.PointerOnConnect = false
	require.NoError(t, c.Connect(testHost))
	tv.set(func(f *fakeTV) {
		f.replies[protocol.URIGetPointerInputSocket] = func(id string) map[string]any {
			return map[string]any{"id": id, "type": "error", "error": "401 insufficient permissions"}
		}
	})

	err := c.SendButton(protocol.ButtonBack)

	require.Error(t, err)
	assert.True(t, IsDeviceError(err))
	assert.True(t, c.IsConnected(), "pointer failures leave the session alone")
}

func TestPointerSocketPath(t *testing.T) {
	tv := newFakeTV(t)
	c := newTestClient(t, tv, nil)
	c.PointerOnConnect = false
	require.NoError(t, c.Connect(testHost))

	path, err := c.PointerSocketPath()
	require.NoError(t, err)
	assert.Equal(t, testAddr+"/pointer", path)

	tv.set(func(f *fakeTV) {
		f.replies[protocol.URIGetPointerInputSocket] = func(id string) map[string]any {
			return map[string]any{"id": id, "type": "response", "payload": map[string]any{"returnValue": true}}
		}
	})

	_, err = c.PointerSocketPath()
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestSendButton_WriteFailureKeepsCause(t *testing.T) {
	tv := newFakeTV(t)
	c := connectedClient(t, tv)
	require.True(t, c.PointerConnected())

	// Break the socket underneath the client
	c.pointerMu.Lock()
	_ = c.pointer.Close()
	c.pointerMu.Unlock()

	err := c.SendButton(protocol.ButtonUp)

	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.True(t, errors.Is(err, net.ErrClosed), "cause is kept: %v", err)
	var tvErr *Error
	require.True(t, errors.As(err, &tvErr))
	assert.NotEmpty(t, tvErr.Host)
	assert.False(t, c.PointerConnected(), "the broken channel is dropped")
	assert.True(t, c.IsConnected())

	require.NoError(t, c.SendButton(protocol.ButtonUp), "the next press reconnects")
}

func TestSendButton_Empty(t *testing.T) {
	c := NewClient(nil)
	assert.True(t, IsValidationError(c.SendButton("")))
}
