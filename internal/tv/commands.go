package tv

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
)

// maxToastLength is the longest message the TV shows without truncation
const maxToastLength = 60

// Icon is an image shown next to a toast message. Around 80x80 pixels works;
// larger icons may be dropped by the TV. PNG and JPG are known to work.
type Icon struct {
	Data      []byte
	Extension string
}

// LoadIcon reads an icon file. The extension is taken from the file name.
func LoadIcon(path string) (*Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("icon %s has no file extension", path)
	}
	return &Icon{Data: data, Extension: ext}, nil
}

// Toast shows a notification on the TV. icon may be nil.
func (c *Client) Toast(message string, icon *Icon) error {
	if len(message) > maxToastLength {
		logging.Warn("Toast message is longer than 60 characters", zap.Int("length", len(message)))
	}

	payload := map[string]any{"message": message}
	if icon != nil && len(icon.Data) > 0 {
		payload["iconData"] = base64.StdEncoding.EncodeToString(icon.Data)
		payload["iconExtension"] = strings.ToLower(icon.Extension)
	}

	_, err := c.SendCommand(protocol.URICreateToast, payload)
	return err
}

// Enable3D switches 3D on. The TV resumes the mode that was last active.
func (c *Client) Enable3D() error {
	_, err := c.SendCommand(protocol.URISet3DOn, nil)
	return err
}

// Disable3D switches 3D off.
func (c *Client) Disable3D() error {
	_, err := c.SendCommand(protocol.URISet3DOff, nil)
	return err
}

// Status3D is the status3D object of a get3DStatus reply
type Status3D struct {
	Status  bool   `json:"status"`
	Pattern string `json:"pattern"`
}

// Mode decodes the reported pattern
func (s Status3D) Mode() protocol.Display3dMode {
	return protocol.ParsePattern(s.Pattern)
}

// Get3DStatus queries the TV's 3D status.
func (c *Client) Get3DStatus() (*Status3D, error) {
	payload, err := c.SendCommand(protocol.URIGet3DStatus, nil)
	if err != nil {
		return nil, err
	}

	var reply struct {
		Status3D *Status3D `json:"status3D"`
	}
	if err := payload.Decode(&reply); err != nil {
		return nil, newProtocolError("could not decode 3D status", err, c.Host())
	}
	if reply.Status3D == nil {
		return nil, newProtocolError("status3D missing in payload", nil, c.Host())
	}
	return reply.Status3D, nil
}

// Get3DMode returns the current 3D mode, or ModeError if it cannot be
// determined. The failure is logged.
func (c *Client) Get3DMode() protocol.Display3dMode {
	status, err := c.Get3DStatus()
	if err != nil {
		logging.Warn("Could not get current 3D mode", zap.Error(err))
		return protocol.ModeError
	}
	mode := status.Mode()
	if mode == protocol.ModeError {
		logging.Warn("Unrecognised 3D pattern", zap.String("pattern", status.Pattern))
	}
	return mode
}

// SendEnterKey presses enter in the on-screen keyboard.
func (c *Client) SendEnterKey() error {
	_, err := c.SendCommand(protocol.URISendEnterKey, nil)
	return err
}

// InputDevice is an external input such as HDMI_1
type InputDevice struct {
	ID       string
	Label    string
	Icon     string
	Favorite bool
}

// missingField fills labels the TV did not send
const missingField = "MISSING"

// Inputs lists the TV's external inputs. Entries without an id are skipped.
func (c *Client) Inputs() ([]InputDevice, error) {
	payload, err := c.SendCommand(protocol.URIGetExternalInputList, nil)
	if err != nil {
		return nil, err
	}

	raw, ok := payload["devices"].([]any)
	if !ok {
		return nil, newProtocolError("devices missing in payload", nil, c.Host())
	}

	devices := make([]InputDevice, 0, len(raw))
	for _, entry := range raw {
		dev, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := dev["id"].(string)
		if !ok || id == "" {
			continue
		}
		devices = append(devices, InputDevice{
			ID:       id,
			Label:    stringOr(dev, "label", missingField),
			Icon:     stringOr(dev, "icon", missingField),
			Favorite: dev["favorite"] == true,
		})
	}
	return devices, nil
}

func stringOr(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback
}

// SetInput switches to the input with the given id (e.g. "HDMI_1").
func (c *Client) SetInput(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("input id must not be empty")
	}
	_, err := c.SendCommand(protocol.URISwitchInput, map[string]any{"inputId": id})
	return err
}

// Channel is the subset of getCurrentChannel the CLI shows
type Channel struct {
	ID     string `json:"channelId"`
	Number string `json:"channelNumber"`
	Name   string `json:"channelName"`
	Type   string `json:"channelTypeName"`
}

// CurrentChannel returns the channel currently tuned.
func (c *Client) CurrentChannel() (*Channel, error) {
	payload, err := c.SendCommand(protocol.URIGetCurrentChannel, nil)
	if err != nil {
		return nil, err
	}
	var ch Channel
	if err := payload.Decode(&ch); err != nil {
		return nil, newProtocolError("could not decode channel", err, c.Host())
	}
	return &ch, nil
}

// Volume returns the current volume. It is -1 when the TV is muted or the
// volume is not controllable (e.g. optical output).
func (c *Client) Volume() (int, error) {
	payload, err := c.SendCommand(protocol.URIGetVolume, nil)
	if err != nil {
		return 0, err
	}

	var reply struct {
		Volume       *int `json:"volume"`
		VolumeStatus *struct {
			Volume *int `json:"volume"`
		} `json:"volumeStatus"`
	}
	if err := payload.Decode(&reply); err != nil {
		return 0, newProtocolError("could not decode volume", err, c.Host())
	}

	switch {
	case reply.Volume != nil:
		return *reply.Volume, nil
	case reply.VolumeStatus != nil && reply.VolumeStatus.Volume != nil:
		return *reply.VolumeStatus.Volume, nil
	default:
		return 0, newProtocolError("volume missing in payload", nil, c.Host())
	}
}

// SetVolume sets the volume, which must be within 0..100.
func (c *Client) SetVolume(volume int) error {
	if volume < 0 || volume > 100 {
		return NewValidationError(fmt.Sprintf("volume %d out of range, 0 <= volume <= 100 must hold", volume))
	}
	_, err := c.SendCommand(protocol.URISetVolume, map[string]any{"volume": volume})
	return err
}

// AudioStatus is the reply of audio/getStatus
type AudioStatus struct {
	Scenario string `json:"scenario"`
	Volume   int    `json:"volume"`
	Mute     bool   `json:"mute"`
}

// AudioStatus returns the active audio output and volume state.
func (c *Client) AudioStatus() (*AudioStatus, error) {
	payload, err := c.SendCommand(protocol.URIGetAudioStatus, nil)
	if err != nil {
		return nil, err
	}
	var status AudioStatus
	if err := payload.Decode(&status); err != nil {
		return nil, newProtocolError("could not decode audio status", err, c.Host())
	}
	return &status, nil
}
