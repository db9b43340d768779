package websocket

import (
	"encoding/json"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// OrderNotification is the payload pushed to connected admin clients
// whenever an order is placed.
type OrderNotification struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	CustomerID uint      `json:"customer_id"`
	ItemCount  int       `json:"item_count"`
	Total      float64   `json:"total"`
	PlacedAt   time.Time `json:"placed_at"`
}

// Hub fans order notifications out to every connected admin client.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run owns the client set. It must be started on its own goroutine
// before any client connects.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Order feed client connected", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": len(h.clients),
			})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logger.Info("Order feed client disconnected", map[string]interface{}{
					"user_id":       client.UserID,
					"total_clients": len(h.clients),
				})
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer: drop the connection rather than
					// block the hub.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// BroadcastOrderCreated pushes a placed order to all connected clients.
func (h *Hub) BroadcastOrderCreated(order *model.Order) {
	if order == nil {
		return
	}

	payload, err := json.Marshal(OrderNotification{
		Type:       "order_created",
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ItemCount:  len(order.Items),
		Total:      order.Total(),
		PlacedAt:   order.PlacedAt,
	})
	if err != nil {
		logger.Error("Failed to marshal order notification", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Order feed broadcast buffer full, dropping notification", map[string]interface{}{
			"order_id": order.ID,
		})
	}
}
