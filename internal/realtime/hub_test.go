package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
)

type stubLister struct {
	orders []order.Order
	err    error
}

func (s *stubLister) ListOpen(context.Context, string) ([]order.Order, error) {
	return s.orders, s.err
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg, &payload))
	return payload
}

func TestHub_BroadcastsNewOrder(t *testing.T) {
	hub := NewHub(&stubLister{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	conn := dialHub(t, hub)

	// Registration races the broadcast; give the hub a beat to admit us.
	time.Sleep(50 * time.Millisecond)

	hub.OrderCreated(ctx, &order.Order{
		ID:     "order-1",
		Code:   7,
		Total:  decimal.RequireFromString("34.90"),
		Status: order.StatusProcessed,
	})

	payload := readEvent(t, conn)
	require.JSONEq(t, `"newOrder"`, string(payload["event"]))

	var o struct {
		ID    string  `json:"id"`
		Code  int64   `json:"code"`
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(payload["order"], &o))
	require.Equal(t, "order-1", o.ID)
	require.Equal(t, int64(7), o.Code)
	require.InDelta(t, 34.90, o.Total, 0.001)
}

func TestHub_GetOrders(t *testing.T) {
	lister := &stubLister{orders: []order.Order{
		{ID: "order-1", Status: order.StatusProcessed},
		{ID: "order-2", Status: order.StatusInPreparation},
	}}
	hub := NewHub(lister)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	conn := dialHub(t, hub)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"event":    "getOrders",
		"branchId": "branch-1",
	}))

	payload := readEvent(t, conn)
	require.JSONEq(t, `"getOrders"`, string(payload["event"]))

	var orders []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload["orders"], &orders))
	require.Len(t, orders, 2)
	require.Equal(t, "order-1", orders[0].ID)
}

func TestHub_GetOrdersFailure(t *testing.T) {
	hub := NewHub(&stubLister{err: errors.New("db down")})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	conn := dialHub(t, hub)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"event":    "getOrders",
		"branchId": "branch-1",
	}))

	payload := readEvent(t, conn)
	require.JSONEq(t, `"error"`, string(payload["event"]))
	require.Contains(t, string(payload["message"]), "open orders")
}

func TestHub_IgnoresUnknownRequests(t *testing.T) {
	hub := NewHub(&stubLister{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	conn := dialHub(t, hub)
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "bogus"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection must survive garbage and still deliver broadcasts.
	time.Sleep(50 * time.Millisecond)
	hub.OrderCreated(ctx, &order.Order{ID: "order-3", Status: order.StatusProcessed})

	payload := readEvent(t, conn)
	require.JSONEq(t, `"newOrder"`, string(payload["event"]))
}
