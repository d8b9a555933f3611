package ws

import (
	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/level"
)

// Типы сообщений
const (
	// От сервера
	MessageTypeInfo          = "info"           // Приветствие и описание биндингов
	MessageTypeLevel         = "level"          // Текущий уровень и пауза (и запрос выбора уровня от клиента)
	MessageTypeBinding       = "binding"        // Новое значение биндинга рендеринга
	MessageTypeContact       = "contact"        // Шарик коснулся поверхности
	MessageTypeLevelComplete = "level_complete" // Шарик достиг флага
	MessageTypePong          = "pong"           // Ответ на пинг
	MessageTypeError         = "error"          // Ошибка обработки сообщения клиента

	// От клиента
	MessageTypeKey    = "key"    // Нажатие или отпускание клавиши
	MessageTypeFocus  = "focus"  // Окно получило фокус
	MessageTypeBlur   = "blur"   // Окно потеряло фокус
	MessageTypeCamera = "camera" // Смещение взгляда и режим камеры
	MessageTypePause  = "pause"  // Пауза
	MessageTypeReset  = "reset"  // Перезапуск уровня
	MessageTypePing   = "ping"   // Пинг для измерения задержки
)

// InfoMessage приветствие сервера
type InfoMessage struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Levels   []string       `json:"levels"`
	Bindings []binding.Slot `json:"bindings"`
}

// LevelMessage текущий уровень. От клиента - запрос выбора уровня по Index.
type LevelMessage struct {
	Type   string      `json:"type"`
	Index  int         `json:"index"`
	Level  *level.Data `json:"level,omitempty"`
	Paused bool        `json:"paused"`
}

// BindingMessage значение биндинга рендеринга
type BindingMessage struct {
	Type  string    `json:"type"`
	Label string    `json:"label"`
	Group int       `json:"group"`
	ID    int       `json:"id"`
	Value []float32 `json:"value"`
	Seq   uint64    `json:"seq"`
}

// ContactMessage событие касания поверхности
type ContactMessage struct {
	Type string `json:"type"`
	game.ContactEvent
}

// LevelCompleteMessage событие прохождения уровня
type LevelCompleteMessage struct {
	Type string `json:"type"`
	game.LevelCompleteEvent
}

// KeyMessage клавиша от клиента. Action: pressed или released.
type KeyMessage struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Key    string `json:"key"`
}

// FocusMessage focus или blur окна клиента
type FocusMessage struct {
	Type string `json:"type"`
}

// CameraMessage смещение взгляда. Mode пустой - режим не меняется.
// World 16 значений мировой матрицы по столбцам, пустой - матрица не меняется.
type CameraMessage struct {
	Type     string    `json:"type"`
	Yaw      float64   `json:"yaw"`
	Pitch    float64   `json:"pitch"`
	Distance float64   `json:"distance"`
	Mode     string    `json:"mode,omitempty"`
	World    []float32 `json:"world,omitempty"`
}

// PauseMessage пауза. Paused не задан - переключение.
type PauseMessage struct {
	Type   string `json:"type"`
	Paused *bool  `json:"paused,omitempty"`
}

// ResetMessage перезапуск уровня
type ResetMessage struct {
	Type string `json:"type"`
}

// PingMessage пинг от клиента
type PingMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
}

// PongMessage ответ на пинг
type PongMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
	ServerTime int64  `json:"server_time"`
}

// ErrorMessage ошибка обработки сообщения
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
