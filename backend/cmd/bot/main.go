package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fractal-marble/backend/internal/transport/ws"
	"fractal-marble/backend/internal/vecmath"
)

// Bot подключается к серверу и катит шарик к флагу
type Bot struct {
	ID          string
	ServerURL   string
	Conn        *websocket.Conn
	Running     bool
	Stats       BotStats
	Duration    time.Duration
	CommandRate time.Duration
	NextLevel   bool
	Steering    Steering

	mu      sync.RWMutex
	writeMu sync.Mutex // Мьютекс для синхронизации записи в WebSocket

	levelIndex int
	levelCount int
	flag       vecmath.Vec
	look       float64
	haveLevel  bool

	pos     vecmath.Vec
	vel     vecmath.Vec
	posAt   time.Time
	havePos bool

	held map[string]bool
}

// BotStats содержит статистику работы бота
type BotStats struct {
	CommandsSent    int
	BindingUpdates  int
	Contacts        int
	LevelsCompleted int
	Errors          int
	LastRTT         time.Duration
	StartTime       time.Time
	mu              sync.RWMutex
}

// NewBot создает нового бота
func NewBot(id, serverURL string, duration, commandRate time.Duration, nextLevel bool) *Bot {
	return &Bot{
		ID:          id,
		ServerURL:   serverURL,
		Duration:    duration,
		CommandRate: commandRate,
		NextLevel:   nextLevel,
		Steering:    DefaultSteering,
		held:        make(map[string]bool),
		Stats: BotStats{
			StartTime: time.Now(),
		},
	}
}

// Connect подключается к серверу
func (b *Bot) Connect() error {
	u, err := url.Parse(b.ServerURL)
	if err != nil {
		return fmt.Errorf("неверный URL: %w", err)
	}

	log.Printf("[Bot %s] Подключение к %s", b.ID, u.String())

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}

	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("ошибка подключения: %w", err)
	}

	b.mu.Lock()
	b.Conn = conn
	b.Running = true
	b.mu.Unlock()

	log.Printf("[Bot %s] Успешно подключен", b.ID)
	return nil
}

// Disconnect отпускает клавиши и отключается от сервера
func (b *Bot) Disconnect() {
	b.mu.Lock()
	conn := b.Conn
	running := b.Running
	b.Running = false
	b.mu.Unlock()

	if conn == nil || !running {
		return
	}
	b.send(ws.FocusMessage{Type: ws.MessageTypeBlur})
	conn.Close()
	log.Printf("[Bot %s] Отключен", b.ID)
}

func (b *Bot) running() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.Running
}

func (b *Bot) send(v interface{}) error {
	b.mu.RLock()
	conn := b.Conn
	b.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("соединение не установлено")
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (b *Bot) countError() {
	b.Stats.mu.Lock()
	b.Stats.Errors++
	b.Stats.mu.Unlock()
}

// steer отправляет разницу между зажатыми и нужными клавишами
func (b *Bot) steer() error {
	b.mu.Lock()
	if !b.haveLevel || !b.havePos {
		b.mu.Unlock()
		return nil
	}
	want := b.Steering.Keys(b.pos, b.vel, b.flag, b.look)
	press, release := diffKeys(b.held, want)
	for _, k := range press {
		b.held[k] = true
	}
	for _, k := range release {
		delete(b.held, k)
	}
	b.mu.Unlock()

	for _, k := range release {
		if err := b.send(ws.KeyMessage{Type: ws.MessageTypeKey, Action: "released", Key: k}); err != nil {
			return fmt.Errorf("ошибка отправки клавиши: %w", err)
		}
	}
	for _, k := range press {
		if err := b.send(ws.KeyMessage{Type: ws.MessageTypeKey, Action: "pressed", Key: k}); err != nil {
			return fmt.Errorf("ошибка отправки клавиши: %w", err)
		}
	}

	if n := len(press) + len(release); n > 0 {
		b.Stats.mu.Lock()
		b.Stats.CommandsSent += n
		b.Stats.mu.Unlock()
	}
	return nil
}

// sendPing отправляет ping сообщение
func (b *Bot) sendPing() error {
	return b.send(ws.PingMessage{Type: ws.MessageTypePing, ClientTime: time.Now().UnixMilli()})
}

// handleMessage обрабатывает входящие сообщения
func (b *Bot) handleMessage(messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	msgType, err := ws.GetMessageType(data)
	if err != nil {
		log.Printf("[Bot %s] Ошибка разбора сообщения: %v", b.ID, err)
		return
	}

	switch msgType {
	case ws.MessageTypeInfo:
		var msg ws.InfoMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			b.mu.Lock()
			b.levelCount = len(msg.Levels)
			b.mu.Unlock()
			log.Printf("[Bot %s] Информация: %s, уровней %d", b.ID, msg.Message, len(msg.Levels))
		}

	case ws.MessageTypeLevel:
		var msg ws.LevelMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Level == nil {
			return
		}
		b.mu.Lock()
		changed := !b.haveLevel || b.levelIndex != msg.Index
		b.levelIndex = msg.Index
		b.flag = msg.Level.FlagPosition
		b.look = msg.Level.StartLookDirection
		b.haveLevel = true
		if changed {
			b.havePos = false
		}
		b.mu.Unlock()
		if changed {
			log.Printf("[Bot %s] Уровень %d: %s, флаг %v", b.ID, msg.Index, msg.Level.Name, msg.Level.FlagPosition)
		}

	case ws.MessageTypeBinding:
		var msg ws.BindingMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Label != "iMarblePos" || len(msg.Value) != 3 {
			return
		}
		b.updatePosition(vecmath.NewVec(float64(msg.Value[0]), float64(msg.Value[1]), float64(msg.Value[2])), time.Now())

	case ws.MessageTypeContact:
		b.Stats.mu.Lock()
		b.Stats.Contacts++
		b.Stats.mu.Unlock()

	case ws.MessageTypeLevelComplete:
		var msg ws.LevelCompleteMessage
		json.Unmarshal(data, &msg)

		b.Stats.mu.Lock()
		b.Stats.LevelsCompleted++
		b.Stats.mu.Unlock()
		log.Printf("[Bot %s] Флаг достигнут: %s за %.2fs (%d шагов)", b.ID, msg.Level, msg.Time, msg.Steps)

		if b.NextLevel {
			b.mu.RLock()
			next := b.levelIndex + 1
			count := b.levelCount
			b.mu.RUnlock()
			if next < count {
				if err := b.send(ws.LevelMessage{Type: ws.MessageTypeLevel, Index: next}); err != nil {
					log.Printf("[Bot %s] Ошибка выбора уровня: %v", b.ID, err)
				}
			}
		}

	case ws.MessageTypePong:
		var msg ws.PongMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			rtt := time.Duration(time.Now().UnixMilli()-msg.ClientTime) * time.Millisecond
			b.Stats.mu.Lock()
			b.Stats.LastRTT = rtt
			b.Stats.mu.Unlock()
		}

	case ws.MessageTypeError:
		var msg ws.ErrorMessage
		json.Unmarshal(data, &msg)
		log.Printf("[Bot %s] Ошибка сервера: %s", b.ID, msg.Message)
		b.countError()

	default:
		log.Printf("[Bot %s] Неизвестный тип сообщения: %s", b.ID, msgType)
	}
}

// updatePosition сохраняет позицию и оценивает скорость по соседним обновлениям
func (b *Bot) updatePosition(p vecmath.Vec, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.havePos {
		if dt := at.Sub(b.posAt).Seconds(); dt > 0 {
			b.vel = p.Sub(b.pos).Mul(1 / dt)
		}
	} else {
		b.vel = vecmath.VecZero
	}
	b.pos = p
	b.posAt = at
	b.havePos = true

	b.Stats.mu.Lock()
	b.Stats.BindingUpdates++
	b.Stats.mu.Unlock()
}

// Run запускает бота
func (b *Bot) Run() error {
	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Disconnect()

	go func() {
		for b.running() {
			messageType, data, err := b.Conn.ReadMessage()
			if err != nil {
				if b.running() {
					log.Printf("[Bot %s] Ошибка чтения сообщения: %v", b.ID, err)
					b.countError()
				}
				return
			}
			b.handleMessage(messageType, data)
		}
	}()

	paused := false
	if err := b.send(ws.PauseMessage{Type: ws.MessageTypePause, Paused: &paused}); err != nil {
		return fmt.Errorf("ошибка снятия паузы: %w", err)
	}

	pingTicker := time.NewTicker(5 * time.Second)
	defer pingTicker.Stop()

	commandTicker := time.NewTicker(b.CommandRate)
	defer commandTicker.Stop()

	endTime := time.Now().Add(b.Duration)

	for b.running() && time.Now().Before(endTime) {
		select {
		case <-pingTicker.C:
			if err := b.sendPing(); err != nil {
				log.Printf("[Bot %s] Ошибка отправки ping: %v", b.ID, err)
			}
		case <-commandTicker.C:
			if err := b.steer(); err != nil {
				log.Printf("[Bot %s] %v", b.ID, err)
				b.countError()
			}
		}
	}

	log.Printf("[Bot %s] Завершение работы", b.ID)
	return nil
}

// PrintStats выводит статистику бота
func (b *Bot) PrintStats() {
	b.Stats.mu.RLock()
	defer b.Stats.mu.RUnlock()

	duration := time.Since(b.Stats.StartTime)
	log.Printf("[Bot %s] Статистика:", b.ID)
	log.Printf("  Время работы: %v", duration)
	log.Printf("  Клавиш отправлено: %d", b.Stats.CommandsSent)
	log.Printf("  Обновлений позиции: %d", b.Stats.BindingUpdates)
	log.Printf("  Касаний: %d", b.Stats.Contacts)
	log.Printf("  Уровней пройдено: %d", b.Stats.LevelsCompleted)
	log.Printf("  Последний RTT: %v", b.Stats.LastRTT)
	log.Printf("  Ошибок: %d", b.Stats.Errors)
}

func main() {
	var (
		serverURL   = flag.String("url", "ws://localhost:8080/ws", "URL WebSocket сервера")
		botID       = flag.String("id", "bot1", "ID бота")
		duration    = flag.Duration("duration", 60*time.Second, "Длительность работы бота")
		commandRate = flag.Duration("rate", 50*time.Millisecond, "Частота пересчета клавиш")
		nextLevel   = flag.Bool("next", true, "Переходить на следующий уровень после флага")
	)
	flag.Parse()

	bot := NewBot(*botID, *serverURL, *duration, *commandRate, *nextLevel)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		log.Printf("[Bot %s] Получен сигнал прерывания, завершение работы...", bot.ID)
		bot.Disconnect()
		bot.PrintStats()
		os.Exit(0)
	}()

	if err := bot.Run(); err != nil {
		log.Printf("[Bot %s] Ошибка: %v", bot.ID, err)
		os.Exit(1)
	}

	bot.PrintStats()
}
