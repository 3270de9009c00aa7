package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"PassForgePlatform/internal/api"
	"PassForgePlatform/internal/logging"
	"PassForgePlatform/internal/metrics"
)

// Processor обрабатывает действия, присланные websocket клиентами
type Processor interface {
	// ProcessGenerate запускает генерацию; результат рассылается широковещательно
	ProcessGenerate(ctx context.Context, msg api.WSClientMessage) error
	// ProcessAnalyze возвращает ответ для отправки только запросившему клиенту
	ProcessAnalyze(ctx context.Context, password string) (*api.WSServerMessage, error)
}

// Hub управляет подключенными websocket клиентами и широковещательной рассылкой.
// Клиент с переполненной очередью отправки отключается.
type Hub struct {
	logger  *logging.PassForgeLogger
	metrics *metrics.PassForgeMetrics

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	clients       map[*Client]bool
	clientCount   int64
	sendQueueSize int
	upgrader      websocket.Upgrader
}

// HubConfig параметры создания Hub
type HubConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
}

// NewHub создает новый Hub
func NewHub(cfg HubConfig, pfLogger *logging.PassForgeLogger, pfMetrics *metrics.PassForgeMetrics) *Hub {
	return &Hub{
		logger:        pfLogger,
		metrics:       pfMetrics,
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 64),
		done:          make(chan struct{}),
		clients:       make(map[*Client]bool),
		sendQueueSize: cfg.SendQueueSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// Внешняя поверхность открыта, проверка Origin не выполняется
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run запускает цикл обработки событий Hub. Блокирует до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			atomic.StoreInt64(&h.clientCount, 0)
			// После закрытия done насосы клиентов завершаются, не блокируясь
			// на каналах цикла, у которых больше нет получателя
			close(h.done)
			return

		case client := <-h.register:
			h.clients[client] = true
			count := atomic.AddInt64(&h.clientCount, 1)
			h.metrics.IncrementWSClients()
			h.logger.LogClientConnected(ctx, client.remoteAddr, int(count))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := atomic.AddInt64(&h.clientCount, -1)
				h.metrics.DecrementWSClients()
				h.logger.LogClientDisconnected(ctx, client.remoteAddr, int(count))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Медленный клиент отключается, остальные не ждут
					delete(h.clients, client)
					close(client.send)
					atomic.AddInt64(&h.clientCount, -1)
					h.metrics.DecrementWSClients()
					h.logger.LogClientDropped(ctx, client.remoteAddr)
				}
			}
		}
	}
}

// Broadcast рассылает сообщение всем подключенным клиентам
func (h *Hub) Broadcast(msg api.WSServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.metrics.RecordWSMessage("out", msg.Type)

	select {
	case h.broadcast <- data:
	case <-h.done:
		// Hub остановлен, рассылать некому
	}
	return nil
}

// ClientCount возвращает текущее количество подключенных клиентов
func (h *Hub) ClientCount() int {
	return int(atomic.LoadInt64(&h.clientCount))
}

// ServeWS создает HTTP обработчик, поднимающий соединение до websocket
func (h *Hub) ServeWS(processor Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade сам пишет ответ об ошибке
			return
		}

		client := &Client{
			hub:        h,
			conn:       conn,
			send:       make(chan []byte, h.sendQueueSize),
			processor:  processor,
			remoteAddr: r.RemoteAddr,
		}

		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(context.Background())
	}
}
