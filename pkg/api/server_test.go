package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wpupdater/wpupdater/pkg/wallpaper"
)

type fakeRefresher struct {
	log     *wallpaper.ActivityLog
	status  wallpaper.Status
	err     error
	counter int
}

func (f *fakeRefresher) TriggerRefresh() (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counter++
	return f.counter, nil
}

func (f *fakeRefresher) Status() wallpaper.Status     { return f.status }
func (f *fakeRefresher) Log() *wallpaper.ActivityLog { return f.log }

func newTestServer(t *testing.T) (*Server, *fakeRefresher) {
	t.Helper()
	fr := &fakeRefresher{log: wallpaper.NewActivityLog(0)}
	s := NewServer(fr, "")
	t.Cleanup(func() { _ = s.Stop() })
	return s, fr
}

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestNewServer(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, DefaultAddr, s.Addr())
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(t, s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCrossOriginRequests(t *testing.T) {
	s, fr := newTestServer(t)

	send := func(method, path, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Origin", origin)
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		return rr
	}

	rr := send(http.MethodGet, "/status", "http://localhost:3000")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = send(http.MethodPost, "/refresh", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, fr.counter, "foreign pages cannot trigger a refresh")

	rr = send(http.MethodGet, "/log", "http://127.0.0.1.evil.example")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = send(http.MethodOptions, "/refresh", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(t, s, http.MethodOptions, "/refresh")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStatus(t *testing.T) {
	s, fr := newTestServer(t)
	fr.status = wallpaper.Status{Busy: true, Counter: 7, AutoUpdate: true, Interval: "5m0s"}

	rr := serve(t, s, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rr.Code)

	var got wallpaper.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, fr.status, got)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(t, s, http.MethodPost, "/status").Code)
}

func TestLog(t *testing.T) {
	s, fr := newTestServer(t)
	fr.log.Infof("first")
	fr.log.Infof("second")
	fr.log.Errorf("third")

	rr := serve(t, s, http.MethodGet, "/log")
	require.Equal(t, http.StatusOK, rr.Code)
	var all []wallpaper.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	rr = serve(t, s, http.MethodGet, "/log?limit=1")
	var tail []wallpaper.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tail))
	require.Len(t, tail, 1)
	assert.Equal(t, "third", tail[0].Message)
	assert.Equal(t, wallpaper.LevelError, tail[0].Level)

	assert.Equal(t, http.StatusBadRequest, serve(t, s, http.MethodGet, "/log?limit=abc").Code)
}

func TestRefresh(t *testing.T) {
	s, fr := newTestServer(t)

	rr := serve(t, s, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"counter":1}`, rr.Body.String())

	assert.Equal(t, http.StatusMethodNotAllowed, serve(t, s, http.MethodGet, "/refresh").Code)

	fr.err = wallpaper.ErrBusy
	assert.Equal(t, http.StatusConflict, serve(t, s, http.MethodPost, "/refresh").Code)

	fr.err = wallpaper.ErrShutdown
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, s, http.MethodPost, "/refresh").Code)
}

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWebSocketPingPong(t *testing.T) {
	s, _ := newTestServer(t)
	ws := dialWS(t, s)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, p, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(p))
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebSocketStreamsLogEntries(t *testing.T) {
	s, fr := newTestServer(t)
	ws := dialWS(t, s)

	// Wait for the server side to register the client
	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 5*time.Millisecond)

	fr.log.Infof("Wallpaper 3 applied")

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg logMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "log", msg.Type)
	assert.Equal(t, "Wallpaper 3 applied", msg.Entry.Message)
}
