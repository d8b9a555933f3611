// Package ws отдает биндинги рендеринга и события игры по WebSocket и принимает ввод игрока.
package ws

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/camera"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/input"
	"fractal-marble/backend/internal/level"
	"fractal-marble/backend/internal/vecmath"
)

const (
	DefaultWriteTimeout = 2 * time.Second
	DefaultSendBuffer   = 64
)

// GameControl то, чем сервер управляет в игре
type GameControl interface {
	ApplyInput(ev input.Event) bool
	SetCameraOffset(offset camera.Offset)
	SetCameraMode(mode game.CameraMode) error
	SetWorldMatrix(m vecmath.Matrix)
	SelectLevel(index int) (level.Data, error)
	SetPaused(paused bool) bool
	TogglePaused() bool
	Reset()
	State() game.StoreState
	Levels() []string
	Bindings() *binding.Store
}

// client одно подключение: свой буфер исходящих сообщений и горутина записи
type client struct {
	id     uint64
	conn   *SafeWriter
	send   chan interface{}
	closed chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.closed) })
}

// enqueue кладет сообщение в буфер. Медленный клиент теряет сообщение.
func (c *client) enqueue(msg interface{}) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// WSServer WebSocket сервер игры
type WSServer struct {
	upgrader     websocket.Upgrader
	game         GameControl
	logger       *log.Logger
	writeTimeout time.Duration
	sendBuffer   int

	clients   map[uint64]*client
	clientsMu sync.RWMutex
	nextID    uint64
	dropped   atomic.Uint64
}

// NewWSServer создает сервер поверх игры
func NewWSServer(g GameControl, logger *log.Logger) *WSServer {
	if logger == nil {
		logger = log.Default()
	}
	return &WSServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		game:         g,
		logger:       logger,
		writeTimeout: DefaultWriteTimeout,
		sendBuffer:   DefaultSendBuffer,
		clients:      make(map[uint64]*client),
	}
}

// Register регистрирует обработчик /ws в mux
func (s *WSServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleWS)
	s.logger.Printf("[WSServer] WebSocket сервер запущен на /ws")
}

// HandleWS обрабатывает входящее WebSocket соединение
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[WSServer] Ошибка upgrade: %v", err)
		return
	}

	c := s.addClient(NewSafeWriter(conn, s.writeTimeout))
	defer s.removeClient(c)

	s.logger.Printf("[WSServer] Новое соединение %d от %s", c.id, conn.RemoteAddr())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Подписка до отправки снимка: обновления между снимком и подпиской не теряются
	updates, unsubscribe := s.game.Bindings().Subscribe(ctx)
	defer unsubscribe()

	if err := s.sendInitial(c); err != nil {
		s.logger.Printf("[WSServer] Ошибка отправки начального состояния клиенту %d: %v", c.id, err)
		return
	}

	go s.writeLoop(ctx, c, updates)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("[WSServer] Ошибка чтения клиента %d: %v", c.id, err)
			}
			break
		}

		if reply := s.handleMessage(data); reply != nil {
			c.enqueue(reply)
		}
	}

	s.logger.Printf("[WSServer] Соединение %d закрыто", c.id)
}

func (s *WSServer) sendInitial(c *client) error {
	if err := c.conn.WriteJSON(NewInfoMessage("Connected to fractal-marble server", s.game.Levels())); err != nil {
		return err
	}
	if err := c.conn.WriteJSON(NewLevelMessage(s.game.State())); err != nil {
		return err
	}
	for _, u := range s.game.Bindings().Snapshot() {
		if err := c.conn.WriteJSON(NewBindingMessage(u)); err != nil {
			return err
		}
	}
	return nil
}

// writeLoop единственный писатель соединения после начального снимка
func (s *WSServer) writeLoop(ctx context.Context, c *client, updates <-chan binding.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(NewBindingMessage(u)); err != nil {
				s.logger.Printf("[WSServer] Ошибка записи клиенту %d: %v", c.id, err)
				c.conn.Close()
				return
			}
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				s.logger.Printf("[WSServer] Ошибка записи клиенту %d: %v", c.id, err)
				c.conn.Close()
				return
			}
		}
	}
}

// handleMessage применяет сообщение клиента и возвращает ответ, если он нужен
func (s *WSServer) handleMessage(data []byte) interface{} {
	message, err := ParseMessage(data)
	if err != nil {
		s.logger.Printf("[WSServer] Ошибка разбора сообщения: %v", err)
		return NewErrorMessage(err)
	}

	switch msg := message.(type) {
	case *KeyMessage:
		ev := input.Event{Type: input.EventType(msg.Action), Key: msg.Key}
		if ev.Type != input.EventPressed && ev.Type != input.EventReleased {
			return NewErrorMessage(fmt.Errorf("unknown key action %q", msg.Action))
		}
		s.game.ApplyInput(ev)

	case *FocusMessage:
		if msg.Type == MessageTypeBlur {
			s.game.ApplyInput(input.Event{Type: input.EventBlur})
		} else {
			s.game.ApplyInput(input.Event{Type: input.EventFocus})
		}

	case *CameraMessage:
		world, ok, err := msg.WorldMatrix()
		if err != nil {
			return NewErrorMessage(err)
		}
		if msg.Mode != "" {
			if err := s.game.SetCameraMode(game.CameraMode(msg.Mode)); err != nil {
				return NewErrorMessage(err)
			}
		}
		// Нулевая дистанция - только смена режима
		if msg.Distance > 0 {
			s.game.SetCameraOffset(camera.NewOffset(msg.Yaw, msg.Pitch, msg.Distance))
		}
		if ok {
			s.game.SetWorldMatrix(world)
		}

	case *LevelMessage:
		if _, err := s.game.SelectLevel(msg.Index); err != nil {
			return NewErrorMessage(err)
		}

	case *PauseMessage:
		if msg.Paused == nil {
			s.game.TogglePaused()
		} else {
			s.game.SetPaused(*msg.Paused)
		}

	case *ResetMessage:
		s.game.Reset()

	case *PingMessage:
		return CreatePongMessage(msg.ClientTime)
	}
	return nil
}

// BroadcastState рассылает всем клиентам текущий уровень и паузу
func (s *WSServer) BroadcastState(state game.StoreState) {
	s.broadcast(NewLevelMessage(state))
}

// OnContact рассылает событие касания
func (s *WSServer) OnContact(ev game.ContactEvent) {
	s.broadcast(NewContactMessage(ev))
}

// OnLevelComplete рассылает событие прохождения уровня
func (s *WSServer) OnLevelComplete(ev game.LevelCompleteEvent) {
	s.broadcast(NewLevelCompleteMessage(ev))
}

func (s *WSServer) broadcast(msg interface{}) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if !c.enqueue(msg) {
			s.dropped.Add(1)
		}
	}
}

// Clients количество подключенных клиентов
func (s *WSServer) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Dropped сколько событий не доставлено медленным клиентам
func (s *WSServer) Dropped() uint64 {
	return s.dropped.Load()
}

// Shutdown закрывает все соединения
func (s *WSServer) Shutdown() {
	s.clientsMu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.conn.WriteClose(websocket.CloseGoingAway, "server shutdown")
		c.close()
		c.conn.Close()
	}
}

func (s *WSServer) addClient(conn *SafeWriter) *client {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	s.nextID++
	c := &client{
		id:     s.nextID,
		conn:   conn,
		send:   make(chan interface{}, s.sendBuffer),
		closed: make(chan struct{}),
	}
	s.clients[c.id] = c
	return c
}

func (s *WSServer) removeClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c.id)
	s.clientsMu.Unlock()

	c.close()
	c.conn.Close()
}
