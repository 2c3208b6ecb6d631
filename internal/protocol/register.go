package protocol

// Permissions is the manifest permission set requested at registration.
// It covers every command this client issues plus the rest of the
// second-screen surface, so a stored client key stays valid if more commands
// are used later.
var Permissions = []string{
	"APP_TO_APP", "CLOSE", "CONTROL_AUDIO", "CONTROL_DISPLAY",
	"CONTROL_INPUT_JOYSTICK", "CONTROL_INPUT_MEDIA_PLAYBACK",
	"CONTROL_INPUT_MEDIA_RECORDING", "CONTROL_INPUT_TEXT",
	"CONTROL_INPUT_TV", "CONTROL_MOUSE_AND_KEYBOARD",
	"CONTROL_POWER", "LAUNCH", "LAUNCH_WEBAPP", "READ_APP_STATUS",
	"READ_COUNTRY_INFO", "READ_CURRENT_CHANNEL",
	"READ_INPUT_DEVICE_LIST", "READ_INSTALLED_APPS",
	"READ_LGE_SDX", "READ_LGE_TV_INPUT_EVENTS",
	"READ_NETWORK_STATE", "READ_NOTIFICATIONS", "READ_POWER_STATE",
	"READ_RUNNING_APPS", "READ_TV_CHANNEL_LIST",
	"READ_TV_CURRENT_TIME", "READ_UPDATE_INFO", "SEARCH",
	"TEST_OPEN", "TEST_PROTECTED", "TEST_SECURE",
	"UPDATE_FROM_REMOTE_APP", "WRITE_NOTIFICATION_ALERT",
	"WRITE_NOTIFICATION_TOAST", "WRITE_SETTINGS",
}

// Manifest describes the registering application.
type Manifest struct {
	LocalizedAppNames map[string]string `json:"localizedAppNames"`
	Permissions       []string          `json:"permissions"`
}

// RegistrationPayload is the payload of a "register" request.
type RegistrationPayload struct {
	PairingType string   `json:"pairingType"`
	Manifest    Manifest `json:"manifest"`
	ClientKey   string   `json:"client-key,omitempty"`
}

// NewRegistrationRequest builds the register envelope. clientKey may be empty,
// in which case the TV prompts the user.
func NewRegistrationRequest(id, appName, clientKey string) *Request {
	perms := make([]string, len(Permissions))
	copy(perms, Permissions)

	return &Request{
		ID:   id,
		Type: TypeRegister,
		Payload: RegistrationPayload{
			PairingType: PairingTypePrompt,
			Manifest: Manifest{
				LocalizedAppNames: map[string]string{"": appName},
				Permissions:       perms,
			},
			ClientKey: clientKey,
		},
	}
}
