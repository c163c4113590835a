package ws_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderapi/internal/adapters/in/ws"
	"orderapi/internal/adapters/out/realtime"
	"orderapi/internal/core/application/views"
	"orderapi/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHandler_WelcomesAndDeliversRoleEvents(t *testing.T) {
	bus := realtime.NewBus(discardLogger())
	server := httptest.NewServer(ws.NewHandler(bus, 4, discardLogger()))
	defer server.Close()

	courier := dial(t, server, "?role=courier&userId=driver-1")
	welcome := readType(t, courier)
	assert.Equal(t, views.EventConnected, welcome["type"])
	assert.Equal(t, views.WelcomeMessage, welcome["message"])

	require.Eventually(t, func() bool { return bus.Count(ports.RoleCourier) == 1 }, time.Second, 10*time.Millisecond)

	bus.NotifyUser(ports.RoleCourier, "driver-1", views.OrderEvent{
		Type:           views.EventOrderAvailable,
		Order:          views.OrderView{ID: "o-1"},
		TargetDriverID: "driver-1",
	})

	offer := readType(t, courier)
	assert.Equal(t, views.EventOrderAvailable, offer["type"])
	assert.Equal(t, "driver-1", offer["targetDriverId"])
}

func TestHandler_DefaultsToGuest(t *testing.T) {
	bus := realtime.NewBus(discardLogger())
	server := httptest.NewServer(ws.NewHandler(bus, 0, discardLogger()))
	defer server.Close()

	conn := dial(t, server, "")
	readType(t, conn)

	assert.Eventually(t, func() bool { return bus.Count(ports.RoleGuest) == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandler_UnregistersOnDisconnect(t *testing.T) {
	bus := realtime.NewBus(discardLogger())
	server := httptest.NewServer(ws.NewHandler(bus, 4, discardLogger()))
	defer server.Close()

	conn := dial(t, server, "?role=shop")
	readType(t, conn)
	require.Eventually(t, func() bool { return bus.Count(ports.RoleShop) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	assert.Eventually(t, func() bool { return bus.Count(ports.RoleShop) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsPlainHTTP(t *testing.T) {
	bus := realtime.NewBus(discardLogger())
	server := httptest.NewServer(ws.NewHandler(bus, 4, discardLogger()))
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 0, bus.Count(ports.RoleGuest))
}
