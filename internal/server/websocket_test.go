package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tiltmaze/internal/core/events"
	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/level"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	catalog, err := level.NewCatalog(physics.DefaultMarbleRadius, level.Builtin()...)
	require.NoError(t, err)

	srv := NewServer(DefaultServerConfig(), game.DefaultConfig(), catalog, log.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, codec Codec) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, codec.MessageType(), kind)

	var msg ServerMessage
	require.NoError(t, codec.Unmarshal(data, &msg))
	return msg
}

func readUntil(t *testing.T, conn *websocket.Conn, codec Codec, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	for i := 0; i < 600; i++ {
		msg := readMessage(t, conn, codec)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("expected message never arrived")
	return ServerMessage{}
}

func send(t *testing.T, conn *websocket.Conn, codec Codec, msg ClientMessage) {
	t.Helper()
	data, err := codec.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(codec.MessageType(), data))
}

func frameInState(state game.State) func(ServerMessage) bool {
	return func(m ServerMessage) bool {
		return m.Type == TypeFrame && m.Frame != nil && m.Frame.State == state.String()
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestLevelsListing(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/levels")
	require.NoError(t, err)
	defer resp.Body.Close()

	var summaries []level.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, len(level.Builtin()))
	assert.Equal(t, "First Roll", summaries[0].Name)
	assert.Len(t, summaries[0].Fingerprint, 16)
}

func TestRejectsBadQuery(t *testing.T) {
	_, ts := newTestServer(t)

	for _, q := range []string{"?encoding=xml", "?level=two"} {
		resp, err := http.Get(ts.URL + "/ws" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestSessionJSON(t *testing.T) {
	_, ts := newTestServer(t)
	codec := jsonCodec{}
	conn := dial(t, ts, "")

	welcome := readMessage(t, conn, codec)
	assert.Equal(t, TypeWelcome, welcome.Type)
	assert.NotEmpty(t, welcome.Session)
	assert.Equal(t, []string{"First Roll", "Sliding Doors", "Spike Run"}, welcome.Levels)

	loaded := readMessage(t, conn, codec)
	require.Equal(t, TypeEvent, loaded.Type)
	assert.Equal(t, events.KindLevelLoaded, loaded.Event.Kind)

	first := readUntil(t, conn, codec, frameInState(game.StateNotStarted))
	assert.Equal(t, "01:00", first.Frame.Timer)

	send(t, conn, codec, ClientMessage{Type: TypeCommand, Command: "start"})
	changed := readUntil(t, conn, codec, func(m ServerMessage) bool {
		return m.Type == TypeEvent && m.Event.Kind == events.KindStateChanged
	})
	assert.NotNil(t, changed.Event.Payload)
	readUntil(t, conn, codec, frameInState(game.StateRunning))

	send(t, conn, codec, ClientMessage{Type: TypeInput, Keys: &tilt.Keys{Right: true}})
	tilted := readUntil(t, conn, codec, func(m ServerMessage) bool {
		return m.Type == TypeFrame && m.Frame.Platform.Tilt.Z < 0
	})
	assert.Equal(t, 0, tilted.Frame.Level)
}

func TestSessionMsgpack(t *testing.T) {
	_, ts := newTestServer(t)
	codec := msgpackCodec{}
	conn := dial(t, ts, "?encoding=msgpack&level=2")

	welcome := readMessage(t, conn, codec)
	assert.Equal(t, TypeWelcome, welcome.Type)

	frame := readUntil(t, conn, codec, func(m ServerMessage) bool { return m.Type == TypeFrame })
	assert.Equal(t, 2, frame.Frame.Level)
	assert.Equal(t, "Spike Run", frame.Frame.LevelName)
	assert.Equal(t, physics.DefaultMarbleRadius, frame.Frame.Marble.Radius)

	send(t, conn, codec, ClientMessage{Type: TypeCommand, Command: "load_level", Level: 99})
	reloaded := readUntil(t, conn, codec, func(m ServerMessage) bool {
		return m.Type == TypeEvent && m.Event.Kind == events.KindLevelLoaded
	})
	assert.NotNil(t, reloaded.Event.Payload)
}

func TestMalformedMessageKeepsSession(t *testing.T) {
	_, ts := newTestServer(t)
	codec := jsonCodec{}
	conn := dial(t, ts, "")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	errMsg := readUntil(t, conn, codec, func(m ServerMessage) bool { return m.Type == TypeError })
	assert.Contains(t, errMsg.Error, ErrInvalidMessage.Error())

	send(t, conn, codec, ClientMessage{Type: TypeCommand, Command: "jump"})
	errMsg = readUntil(t, conn, codec, func(m ServerMessage) bool { return m.Type == TypeError })
	assert.Contains(t, errMsg.Error, game.ErrUnknownCommand.Error())

	send(t, conn, codec, ClientMessage{Type: TypeInput})
	readUntil(t, conn, codec, func(m ServerMessage) bool { return m.Type == TypeError })

	send(t, conn, codec, ClientMessage{Type: TypeCommand, Command: "pause"})
	readUntil(t, conn, codec, frameInState(game.StateRunning))
}

func TestServerStartStop(t *testing.T) {
	catalog, err := level.NewCatalog(physics.DefaultMarbleRadius, level.Builtin()...)
	require.NoError(t, err)

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	srv := NewServer(cfg, game.DefaultConfig(), catalog, nil)

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerAlreadyRunning)
	require.NotNil(t, srv.Addr())
	assert.True(t, srv.GetStats().Running)

	resp, err := http.Get("http://" + srv.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(stopCtx))
	assert.ErrorIs(t, srv.Stop(stopCtx), ErrServerNotRunning)

	require.NoError(t, srv.Close())
	assert.ErrorIs(t, srv.Start(ctx), ErrServerClosed)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultServerConfig().Validate())

	cfg := DefaultServerConfig()
	cfg.TickRate = 0
	cfg.Encoding = "xml"
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestDrainRefusesNewSessions(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts, "")
	assert.Equal(t, TypeWelcome, readMessage(t, conn, jsonCodec{}).Type)

	done := make(chan struct{})
	go func() {
		srv.drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("drain did not wait out the open session")
	}
	assert.False(t, srv.trackSession())

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
