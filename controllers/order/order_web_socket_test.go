package orderControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubServer(t *testing.T, origins []string) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(origins, nil)
	r := gin.New()
	r.GET("/ws", hub.Handler)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(url, origin string) (*websocket.Conn, *http.Response, error) {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestHubOriginCheck(t *testing.T) {
	_, url := hubServer(t, []string{"https://svm.example", "https://admin.svm.example"})

	for _, origin := range []string{"https://svm.example", "https://admin.svm.example"} {
		conn, _, err := dial(url, origin)
		require.NoError(t, err, origin)
		conn.Close()
	}

	_, resp, err := dial(url, "https://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubAnyOrigin(t *testing.T) {
	_, url := hubServer(t, nil)
	conn, _, err := dial(url, "https://anywhere.example")
	require.NoError(t, err)
	conn.Close()
}

func TestHubPublish(t *testing.T) {
	hub, url := hubServer(t, nil)
	conn, _, err := dial(url, "")
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(services.Event{
		Type:  services.EventOrderCreated,
		Order: &models.Order{ID: "01HZXORDER", Status: models.StatusPlaced},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "order.created", got["type"])
	assert.Equal(t, "01HZXORDER", got["order"].(map[string]any)["id"])
}
