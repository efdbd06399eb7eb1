package http

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// wsObserver adapts one websocket connection to events.Observer. The mutex
// serializes writes; gorilla-style connections allow only one concurrent
// writer.
type wsObserver struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func (o *wsObserver) ID() string { return o.id }

func (o *wsObserver) Send(payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conn.WriteMessage(websocket.TextMessage, payload)
}

// WSHandler exposes the event stream at /ws.
type WSHandler struct {
	broadcaster *events.Broadcaster
	log         *logger.Logger
}

func NewWSHandler(broadcaster *events.Broadcaster, log *logger.Logger) *WSHandler {
	return &WSHandler{broadcaster: broadcaster, log: log}
}

// Upgrade gates the route: only websocket upgrade requests pass.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve registers the connection as an observer and holds it open until the
// client disconnects. Inbound messages are drained and ignored; the stream is
// one-way.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		obs := &wsObserver{id: uuid.NewString(), conn: conn}
		h.broadcaster.Subscribe(obs)
		defer h.broadcaster.Unsubscribe(obs.id)

		h.log.Info().Str("observer", obs.id).Msg("websocket client connected")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.log.Info().Str("observer", obs.id).Msg("websocket client disconnected")
	})
}
