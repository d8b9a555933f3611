package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SafeWriter обеспечивает потокобезопасную запись в WebSocket соединение
type SafeWriter struct {
	conn         *websocket.Conn
	mutex        sync.Mutex
	writeTimeout time.Duration
}

// NewSafeWriter создает SafeWriter. writeTimeout 0 - без дедлайна записи.
func NewSafeWriter(conn *websocket.Conn, writeTimeout time.Duration) *SafeWriter {
	return &SafeWriter{conn: conn, writeTimeout: writeTimeout}
}

// WriteJSON потокобезопасно записывает JSON данные в WebSocket соединение
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.writeTimeout > 0 {
		if err := w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
			return err
		}
	}
	return w.conn.WriteJSON(v)
}

// WriteClose отправляет кадр закрытия с кодом и причиной
func (w *SafeWriter) WriteClose(code int, reason string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	deadline := time.Now().Add(time.Second)
	return w.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}

// Close закрывает WebSocket соединение
func (w *SafeWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}
