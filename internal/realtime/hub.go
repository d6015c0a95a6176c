// Package realtime pushes order events to connected dashboard clients
// over websockets. The dashboard receives a "newOrder" event as soon as an
// order is processed and may ask for the current open orders with a
// "getOrders" request on the same connection.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/leandrosq/pizzaria-backend/internal/api"
	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4 << 10

	// sendBuffer bounds per-client backlog. A client that cannot drain it
	// is disconnected rather than allowed to stall the hub.
	sendBuffer = 32
)

// OrderLister answers the dashboard's initial-load request.
type OrderLister interface {
	ListOpen(ctx context.Context, branchID string) ([]order.Order, error)
}

type event struct {
	Event string `json:"event"`
	Order any    `json:"order,omitempty"`
}

type getOrdersRequest struct {
	Event    string `json:"event"`
	BranchID string `json:"branchId"`
}

type getOrdersResponse struct {
	Event  string      `json:"event"`
	Orders []api.Order `json:"orders"`
}

type errorResponse struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// Hub fans order events out to every connected client. All client
// registration and broadcasting is serialized through Run.
type Hub struct {
	orders OrderLister

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
}

func NewHub(orders OrderLister) *Hub {
	return &Hub{
		orders:     orders,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*client]struct{}),
	}
}

// Run owns the client set. It returns once ctx is done, closing every
// connected client on the way out.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return ctx.Err()
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer, drop it.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// OrderCreated broadcasts a processed order to every dashboard. It never
// blocks the caller: the event is queued or dropped.
func (h *Hub) OrderCreated(ctx context.Context, o *order.Order) {
	msg, err := json.Marshal(event{Event: "newOrder", Order: api.FromOrder(o)})
	if err != nil {
		zctx.From(ctx).Error("marshal order event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	case <-ctx.Done():
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeHTTP upgrades the connection and attaches it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zctx.From(r.Context()).Info("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		lg:   zctx.From(r.Context()),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	lg   *zap.Logger
}

// readPump reads client requests until the connection drops. The only
// request the dashboard sends is "getOrders".
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.lg.Info("websocket read", zap.Error(err))
			}
			return
		}
		var req getOrdersRequest
		if err := json.Unmarshal(msg, &req); err != nil || req.Event != "getOrders" {
			continue
		}
		c.handleGetOrders(req.BranchID)
	}
}

func (c *client) handleGetOrders(branchID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := c.hub.orders.ListOpen(ctx, branchID)
	if err != nil {
		c.lg.Error("list open orders", zap.Error(err))
		c.reply(errorResponse{Event: "error", Message: "could not load open orders"})
		return
	}
	c.reply(getOrdersResponse{Event: "getOrders", Orders: api.FromOrders(orders)})
}

func (c *client) reply(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		c.lg.Error("marshal reply", zap.Error(err))
		return
	}
	select {
	case c.send <- msg:
	default:
		c.lg.Warn("dropping reply: client backlog full")
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. Closing the send channel terminates it.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
