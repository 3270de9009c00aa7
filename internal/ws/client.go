package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"PassForgePlatform/internal/api"
)

const (
	// writeWait время на запись одного сообщения
	writeWait = 10 * time.Second

	// pongWait время ожидания pong от клиента
	pongWait = 60 * time.Second

	// pingPeriod период отправки ping, должен быть меньше pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize максимальный размер входящего сообщения
	maxMessageSize = 4096
)

// Client представляет одно websocket подключение
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	processor  Processor
	remoteAddr string
}

// readPump читает входящие сообщения клиента и передает их в Processor.
// Завершение чтения снимает клиента с учета в Hub.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg api.WSClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(api.WSServerMessage{
				Type: api.WSTypeError,
				Data: map[string]string{"message": "invalid message format"},
			})
			continue
		}

		c.hub.metrics.RecordWSMessage("in", msg.Action)

		switch msg.Action {
		case api.WSActionGenerate:
			if err := c.processor.ProcessGenerate(ctx, msg); err != nil {
				c.reply(api.WSServerMessage{
					Type: api.WSTypeError,
					Data: map[string]string{"message": err.Error()},
				})
			}

		case api.WSActionAnalyze:
			response, err := c.processor.ProcessAnalyze(ctx, msg.Password)
			if err != nil {
				c.reply(api.WSServerMessage{
					Type: api.WSTypeError,
					Data: map[string]string{"message": err.Error()},
				})
				continue
			}
			c.reply(*response)

		default:
			c.reply(api.WSServerMessage{
				Type: api.WSTypeError,
				Data: map[string]string{"message": "unknown action: " + msg.Action},
			})
		}
	}
}

// writePump пишет сообщения из очереди клиента в соединение.
// Закрытие очереди завершает запись и соединение.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply ставит сообщение в очередь отправки этому клиенту
func (c *Client) reply(msg api.WSServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	c.hub.metrics.RecordWSMessage("out", msg.Type)

	select {
	case c.send <- data:
	default:
		// Очередь переполнена, сообщение отбрасывается
	}
}
