package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	ws "github.com/ikkim/storefront-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeedServer(t *testing.T, allowedOrigins []string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	go hub.Run()

	ctrl := NewOrderFeedController(hub, allowedOrigins)
	router := gin.New()
	router.GET("/ws/orders", func(c *gin.Context) {
		c.Set("user_id", uint(1))
	}, ctrl.Subscribe)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dialFeed(t *testing.T, srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestOrderFeed_OriginAllowList(t *testing.T) {
	srv := setupFeedServer(t, []string{"http://dashboard.example.com"})

	conn, _, err := dialFeed(t, srv, "http://dashboard.example.com")
	require.NoError(t, err)
	conn.Close()

	_, resp, err := dialFeed(t, srv, "http://evil.example.com")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrderFeed_WildcardOrigin(t *testing.T) {
	srv := setupFeedServer(t, []string{"*"})

	conn, _, err := dialFeed(t, srv, "http://anywhere.example.com")
	require.NoError(t, err)
	conn.Close()
}

func TestOrderFeed_NoOriginHeader(t *testing.T) {
	srv := setupFeedServer(t, []string{"http://dashboard.example.com"})

	conn, _, err := dialFeed(t, srv, "")
	require.NoError(t, err)
	conn.Close()
}
