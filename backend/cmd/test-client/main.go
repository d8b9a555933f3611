package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"sort"
	"time"

	"github.com/gorilla/websocket"

	"fractal-marble/backend/internal/transport/ws"
)

var (
	serverURL = flag.String("url", "ws://localhost:8080/ws", "URL WebSocket сервера")
	listen    = flag.Duration("listen", 3*time.Second, "Сколько слушать сервер")
)

func main() {
	flag.Parse()

	u, err := url.Parse(*serverURL)
	if err != nil {
		log.Fatalf("Неверный URL: %v", err)
	}

	log.Printf("Подключение к %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Ошибка подключения: %v", err)
	}
	defer conn.Close()

	log.Printf("Успешно подключен")

	if err := conn.WriteJSON(ws.PingMessage{Type: ws.MessageTypePing, ClientTime: time.Now().UnixMilli()}); err != nil {
		log.Fatalf("Ошибка отправки ping: %v", err)
	}

	counts := make(map[string]int)
	deadline := time.Now().Add(*listen)
	conn.SetReadDeadline(deadline)

	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		msgType, err := ws.GetMessageType(data)
		if err != nil {
			log.Printf("Ошибка разбора сообщения: %v", err)
			continue
		}
		counts[msgType]++

		switch msgType {
		case ws.MessageTypeInfo:
			var msg ws.InfoMessage
			json.Unmarshal(data, &msg)
			log.Printf("INFO: %s, уровни %v", msg.Message, msg.Levels)
			for _, slot := range msg.Bindings {
				log.Printf("  BINDING %s group=%d id=%d", slot.Label, slot.Group, slot.ID)
			}

		case ws.MessageTypeLevel:
			var msg ws.LevelMessage
			json.Unmarshal(data, &msg)
			if msg.Level != nil {
				log.Printf("LEVEL %d: %s, пауза %v", msg.Index, msg.Level.Name, msg.Paused)
			}

		case ws.MessageTypePong:
			var msg ws.PongMessage
			json.Unmarshal(data, &msg)
			log.Printf("PONG: RTT %d мс", time.Now().UnixMilli()-msg.ClientTime)

		case ws.MessageTypeBinding:
			if counts[msgType] <= 2 {
				var msg ws.BindingMessage
				json.Unmarshal(data, &msg)
				log.Printf("BINDING %s = %v", msg.Label, msg.Value)
			}
		}
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		log.Printf("%s: %d", t, counts[t])
	}
	log.Printf("Тест завершен")
}
