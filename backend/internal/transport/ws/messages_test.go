package ws

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/level"
)

func TestGetCurrentServerTime(t *testing.T) {
	now := time.Now().UnixMilli()
	serverTime := GetCurrentServerTime()

	// Допускаем разницу в 100 мс
	if serverTime < now-100 || serverTime > now+100 {
		t.Errorf("GetCurrentServerTime() returned time too far from current time. Got %d, expected around %d", serverTime, now)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected interface{}
		error    bool
	}{
		{
			name:     "KeyMessage",
			json:     `{"type":"key","action":"pressed","key":"w"}`,
			expected: &KeyMessage{Type: MessageTypeKey, Action: "pressed", Key: "w"},
		},
		{
			name:     "Blur",
			json:     `{"type":"blur"}`,
			expected: &FocusMessage{Type: MessageTypeBlur},
		},
		{
			name:     "CameraMessage",
			json:     `{"type":"camera","yaw":0.5,"pitch":-0.2,"distance":8,"mode":"orbit"}`,
			expected: &CameraMessage{Type: MessageTypeCamera, Yaw: 0.5, Pitch: -0.2, Distance: 8, Mode: "orbit"},
		},
		{
			name:     "LevelMessage",
			json:     `{"type":"level","index":2}`,
			expected: &LevelMessage{Type: MessageTypeLevel, Index: 2},
		},
		{
			name:     "PauseToggle",
			json:     `{"type":"pause"}`,
			expected: &PauseMessage{Type: MessageTypePause},
		},
		{
			name:     "PauseExplicit",
			json:     `{"type":"pause","paused":false}`,
			expected: &PauseMessage{Type: MessageTypePause, Paused: boolPtr(false)},
		},
		{
			name: "CameraWorldMatrix",
			json: `{"type":"camera","world":[1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]}`,
			expected: &CameraMessage{Type: MessageTypeCamera, World: []float32{
				1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1,
			}},
		},
		{
			name:     "PingMessage",
			json:     `{"type":"ping","client_time":123456}`,
			expected: &PingMessage{Type: MessageTypePing, ClientTime: 123456},
		},
		{
			name:  "Unknown type",
			json:  `{"type":"teleport"}`,
			error: true,
		},
		{
			name:  "Invalid JSON",
			json:  `{"type":"key"`,
			error: true,
		},
		{
			name:  "Wrong field type",
			json:  `{"type":"level","index":"two"}`,
			error: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMessage([]byte(tt.json))

			if tt.error {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}

func TestParseMessageUnknownIsWrapped(t *testing.T) {
	_, err := ParseMessage([]byte(`{"type":"teleport"}`))
	if !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("Expected ErrUnknownMessage, got %v", err)
	}
}

func TestNewBindingMessage(t *testing.T) {
	msg := NewBindingMessage(binding.Update{Slot: binding.MarblePosition, Value: []float32{1, 2, 3}, Seq: 7})

	if msg.Type != MessageTypeBinding {
		t.Errorf("Expected message type %s, got %s", MessageTypeBinding, msg.Type)
	}
	if msg.Label != "iMarblePos" || msg.Group != 0 || msg.ID != 8 {
		t.Errorf("Unexpected slot: %s %d %d", msg.Label, msg.Group, msg.ID)
	}
	if msg.Seq != 7 || len(msg.Value) != 3 {
		t.Errorf("Unexpected value: %+v", msg)
	}
}

func TestNewLevelMessage(t *testing.T) {
	data := level.Catalog()[1]
	msg := NewLevelMessage(game.StoreState{Level: data, LevelIndex: 1, Paused: true})

	if msg.Type != MessageTypeLevel || msg.Index != 1 || !msg.Paused {
		t.Errorf("Unexpected level message: %+v", msg)
	}
	if msg.Level == nil || msg.Level.Name != data.Name {
		t.Errorf("Level data missing: %+v", msg.Level)
	}
}

func TestCreatePongMessage(t *testing.T) {
	msg := CreatePongMessage(42)
	if msg.Type != MessageTypePong || msg.ClientTime != 42 || msg.ServerTime == 0 {
		t.Errorf("Unexpected pong: %+v", msg)
	}
}

func TestCameraMessageWorldMatrix(t *testing.T) {
	msg := &CameraMessage{Type: MessageTypeCamera}
	if _, ok, err := msg.WorldMatrix(); ok || err != nil {
		t.Errorf("Empty world: expected no matrix, got ok=%v err=%v", ok, err)
	}

	msg.World = []float32{0, 0, -1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1}
	m, ok, err := msg.WorldMatrix()
	if !ok || err != nil {
		t.Fatalf("Expected matrix, got ok=%v err=%v", ok, err)
	}
	if m.Array()[2] != -1 || m.Array()[8] != 1 {
		t.Errorf("Unexpected matrix %v", m.Array())
	}

	msg.World = []float32{1, 2, 3}
	if _, _, err := msg.WorldMatrix(); err == nil {
		t.Error("Expected error for 3 values")
	}
}
