// Package input хранит состояние удерживаемых клавиш игрока.
package input

import (
	"sort"
	"strings"
	"sync"
)

// EventType тип события клавиатуры
type EventType string

const (
	EventPressed  EventType = "pressed"
	EventReleased EventType = "released"
	EventFocus    EventType = "focus"
	EventBlur     EventType = "blur"
)

// Event событие клавиатуры от клиента
type Event struct {
	Type EventType `json:"type"`
	Key  string    `json:"key,omitempty"`
}

// KeySet неизменяемый снимок удерживаемых клавиш
type KeySet map[string]struct{}

// Has проверяет, удерживается ли клавиша
func (k KeySet) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Keys отсортированный список клавиш
func (k KeySet) Keys() []string {
	keys := make([]string, 0, len(k))
	for key := range k {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HeldKeys потокобезопасный набор клавиш. Пишут обработчики ввода, читает шаг симуляции.
type HeldKeys struct {
	mu      sync.RWMutex
	keys    map[string]struct{}
	focused bool
}

// NewHeldKeys создает пустой набор
func NewHeldKeys() *HeldKeys {
	return &HeldKeys{keys: make(map[string]struct{}), focused: true}
}

// Apply применяет событие. Потеря фокуса отпускает все клавиши:
// после blur событие released может не прийти.
func (h *HeldKeys) Apply(ev Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := strings.ToLower(ev.Key)

	switch ev.Type {
	case EventPressed:
		if key == "" {
			return false
		}
		if _, ok := h.keys[key]; ok {
			return false
		}
		h.keys[key] = struct{}{}
		return true

	case EventReleased:
		if _, ok := h.keys[key]; !ok {
			return false
		}
		delete(h.keys, key)
		return true

	case EventFocus:
		h.focused = true
		return false

	case EventBlur:
		h.focused = false
		changed := len(h.keys) > 0
		h.keys = make(map[string]struct{})
		return changed
	}

	return false
}

// Press отмечает клавишу нажатой
func (h *HeldKeys) Press(key string) bool {
	return h.Apply(Event{Type: EventPressed, Key: key})
}

// Release отпускает клавишу
func (h *HeldKeys) Release(key string) bool {
	return h.Apply(Event{Type: EventReleased, Key: key})
}

// Has проверяет клавишу без снимка
func (h *HeldKeys) Has(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.keys[key]
	return ok
}

// Focused есть ли фокус у клиента
func (h *HeldKeys) Focused() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.focused
}

// Snapshot копия набора для одного шага симуляции
func (h *HeldKeys) Snapshot() KeySet {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(KeySet, len(h.keys))
	for k := range h.keys {
		out[k] = struct{}{}
	}
	return out
}

// Clear отпускает все клавиши
func (h *HeldKeys) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = make(map[string]struct{})
}
