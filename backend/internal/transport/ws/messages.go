package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/vecmath"
)

// ErrUnknownMessage неизвестный тип сообщения
var ErrUnknownMessage = errors.New("unknown message type")

// ParseMessage разбирает входящее сообщение клиента в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	messageType, err := GetMessageType(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	var msg interface{}
	switch messageType {
	case MessageTypeKey:
		msg = &KeyMessage{}
	case MessageTypeFocus, MessageTypeBlur:
		msg = &FocusMessage{}
	case MessageTypeCamera:
		msg = &CameraMessage{}
	case MessageTypeLevel:
		msg = &LevelMessage{}
	case MessageTypePause:
		msg = &PauseMessage{}
	case MessageTypeReset:
		msg = &ResetMessage{}
	case MessageTypePing:
		msg = &PingMessage{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, messageType)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("error parsing %s message: %w", messageType, err)
	}
	return msg, nil
}

// WorldMatrix мировая матрица из сообщения. false - матрица не передана.
func (m *CameraMessage) WorldMatrix() (vecmath.Matrix, bool, error) {
	switch len(m.World) {
	case 0:
		return vecmath.Matrix{}, false, nil
	case 16:
		return vecmath.MatrixFrom([16]float32(m.World)), true, nil
	default:
		return vecmath.Matrix{}, false, fmt.Errorf("world matrix needs 16 values, got %d", len(m.World))
	}
}

// GetMessageType возвращает тип сообщения на основе входных данных
func GetMessageType(data []byte) (string, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return "", err
	}
	return baseMessage.Type, nil
}

// GetCurrentServerTime текущее время сервера в миллисекундах
func GetCurrentServerTime() int64 {
	return time.Now().UnixMilli()
}

// NewInfoMessage приветствие с описанием уровней и биндингов
func NewInfoMessage(message string, levels []string) *InfoMessage {
	return &InfoMessage{
		Type:     MessageTypeInfo,
		Message:  message,
		Levels:   levels,
		Bindings: []binding.Slot{binding.CameraMatrix, binding.MarblePosition},
	}
}

// NewLevelMessage сообщение о текущем уровне
func NewLevelMessage(state game.StoreState) *LevelMessage {
	data := state.Level
	return &LevelMessage{
		Type:   MessageTypeLevel,
		Index:  state.LevelIndex,
		Level:  &data,
		Paused: state.Paused,
	}
}

// NewBindingMessage сообщение с новым значением биндинга
func NewBindingMessage(u binding.Update) *BindingMessage {
	return &BindingMessage{
		Type:  MessageTypeBinding,
		Label: u.Slot.Label,
		Group: u.Slot.Group,
		ID:    u.Slot.ID,
		Value: u.Value,
		Seq:   u.Seq,
	}
}

// NewContactMessage событие касания
func NewContactMessage(ev game.ContactEvent) *ContactMessage {
	return &ContactMessage{Type: MessageTypeContact, ContactEvent: ev}
}

// NewLevelCompleteMessage событие прохождения уровня
func NewLevelCompleteMessage(ev game.LevelCompleteEvent) *LevelCompleteMessage {
	return &LevelCompleteMessage{Type: MessageTypeLevelComplete, LevelCompleteEvent: ev}
}

// CreatePongMessage ответ на пинг
func CreatePongMessage(clientTime int64) *PongMessage {
	return &PongMessage{
		Type:       MessageTypePong,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewErrorMessage сообщение об ошибке
func NewErrorMessage(err error) *ErrorMessage {
	return &ErrorMessage{Type: MessageTypeError, Message: err.Error()}
}
