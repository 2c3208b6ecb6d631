package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRequestEncode(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		want    string
		wantErr bool
	}{
		{
			name: "without payload",
			req:  NewRequest("abc123_1", URIGet3DStatus, nil),
			want: `{"id":"abc123_1","type":"request","uri":"ssap://com.webos.service.tv.display/get3DStatus"}`,
		},
		{
			name: "with payload",
			req:  NewRequest("abc123_2", URISetVolume, Payload{"volume": 12}),
			want: `{"id":"abc123_2","type":"request","uri":"ssap://audio/setVolume","payload":{"volume":12}}`,
		},
		{
			name:    "unencodable payload",
			req:     NewRequest("abc123_3", URISetVolume, Payload{"bad": make(chan int)}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.req.Encode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Encode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if string(data) != tt.want {
				t.Errorf("Encode() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestNewRegistrationRequest(t *testing.T) {
	t.Run("without key", func(t *testing.T) {
		data, err := NewRegistrationRequest("p_0", "Living Room", "").Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if strings.Contains(string(data), "client-key") {
			t.Errorf("registration without key should omit client-key: %s", data)
		}

		var decoded struct {
			ID      string `json:"id"`
			Type    string `json:"type"`
			Payload struct {
				PairingType string `json:"pairingType"`
				Manifest    struct {
					LocalizedAppNames map[string]string `json:"localizedAppNames"`
					Permissions       []string          `json:"permissions"`
				} `json:"manifest"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if decoded.Type != TypeRegister {
			t.Errorf("type = %q, want %q", decoded.Type, TypeRegister)
		}
		if decoded.ID != "p_0" {
			t.Errorf("id = %q, want p_0", decoded.ID)
		}
		if decoded.Payload.PairingType != "PROMPT" {
			t.Errorf("pairingType = %q, want PROMPT", decoded.Payload.PairingType)
		}
		if decoded.Payload.Manifest.LocalizedAppNames[""] != "Living Room" {
			t.Errorf("localizedAppNames = %v", decoded.Payload.Manifest.LocalizedAppNames)
		}
		if len(decoded.Payload.Manifest.Permissions) != len(Permissions) {
			t.Errorf("permissions has %d entries, want %d", len(decoded.Payload.Manifest.Permissions), len(Permissions))
		}
	})

	t.Run("with key", func(t *testing.T) {
		data, err := NewRegistrationRequest("p_0", "app", "secret-key").Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !strings.Contains(string(data), `"client-key":"secret-key"`) {
			t.Errorf("registration should carry client-key: %s", data)
		}
	})
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantErr     bool
		wantPayload bool
		payloadErr  bool
		errorText   string
	}{
		{
			name:        "object payload",
			data:        `{"id":"a_1","type":"response","payload":{"returnValue":true}}`,
			wantPayload: true,
		},
		{
			name:       "missing payload",
			data:       `{"id":"a_1","type":"response"}`,
			payloadErr: true,
		},
		{
			name:       "null payload",
			data:       `{"id":"a_1","type":"response","payload":null}`,
			payloadErr: true,
		},
		{
			name:        "array payload",
			data:        `{"id":"a_1","type":"response","payload":[1,2]}`,
			wantPayload: true,
			payloadErr:  true,
		},
		{
			name:       "string error",
			data:       `{"id":"a_1","type":"error","error":"401 insufficient permissions"}`,
			payloadErr: true,
			errorText:  "401 insufficient permissions",
		},
		{
			name:       "object error",
			data:       `{"id":"a_1","type":"error","error":{"code":5}}`,
			payloadErr: true,
			errorText:  `{"code":5}`,
		},
		{
			name:    "malformed json",
			data:    `{"id":"a_1",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if resp.HasPayload() != tt.wantPayload {
				t.Errorf("HasPayload() = %v, want %v", resp.HasPayload(), tt.wantPayload)
			}
			if _, err := resp.PayloadObject(); (err != nil) != tt.payloadErr {
				t.Errorf("PayloadObject() error = %v, wantErr %v", err, tt.payloadErr)
			}
			if resp.ErrorText() != tt.errorText {
				t.Errorf("ErrorText() = %q, want %q", resp.ErrorText(), tt.errorText)
			}
		})
	}
}

func TestResponsePairingPromptAndClientKey(t *testing.T) {
	prompt, err := ParseResponse([]byte(`{"id":"a_0","type":"response","payload":{"pairingType":"PROMPT","returnValue":true}}`))
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if !prompt.PairingPrompt() {
		t.Error("PairingPrompt() = false, want true")
	}
	if _, ok := prompt.ClientKey(); ok {
		t.Error("ClientKey() should be absent on prompt")
	}

	registered, err := ParseResponse([]byte(`{"id":"a_0","type":"registered","payload":{"client-key":"k1"}}`))
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if registered.PairingPrompt() {
		t.Error("PairingPrompt() = true, want false")
	}
	if key, ok := registered.ClientKey(); !ok || key != "k1" {
		t.Errorf("ClientKey() = (%q, %v), want (k1, true)", key, ok)
	}
}

func TestPayloadDecode(t *testing.T) {
	p := Payload{
		"status3D": map[string]any{"status": true, "pattern": "top_bottom"},
	}
	var status struct {
		Status3D struct {
			Status  bool   `json:"status"`
			Pattern string `json:"pattern"`
		} `json:"status3D"`
	}
	if err := p.Decode(&status); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !status.Status3D.Status || status.Status3D.Pattern != "top_bottom" {
		t.Errorf("Decode() = %+v", status)
	}
}
