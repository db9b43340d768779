package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	ws "github.com/ikkim/storefront-backend/internal/websocket"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// OrderFeedController upgrades admin connections onto the live
// order-created feed.
type OrderFeedController struct {
	hub            *ws.Hub
	allowedOrigins map[string]bool
}

func NewOrderFeedController(hub *ws.Hub, allowedOrigins []string) *OrderFeedController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}
	return &OrderFeedController{
		hub:            hub,
		allowedOrigins: origins,
	}
}

// Subscribe upgrades the request to a websocket and streams order
// notifications until the client disconnects (admin)
// GET /ws/orders
func (ctrl *OrderFeedController) Subscribe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin header. A "*" entry
			// admits any origin, as in the CORS middleware.
			return origin == "" || ctrl.allowedOrigins["*"] || ctrl.allowedOrigins[origin]
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade order feed connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
