package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tiltmaze/internal/core/events"
	"github.com/zeusync/tiltmaze/internal/core/events/bus"
	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
)

const inboundBuffer = 64

type inbound struct {
	msg ClientMessage
	cmd game.Command
	err error
}

// session is one websocket connection playing one game. The tick goroutine
// owns the game and is the only writer; the reader goroutine only decodes.
type session struct {
	id     string
	conn   *websocket.Conn
	codec  Codec
	game   *game.Game
	logger log.Log
	config Config
	levels []string

	inbound chan inbound
	pending []events.Event
	keys    tilt.Keys

	closeOnce sync.Once
}

func newSession(s *Server, id string, conn *websocket.Conn, codec Codec, startLevel int) (*session, error) {
	sess := &session{
		id:      id,
		conn:    conn,
		codec:   codec,
		config:  s.config,
		levels:  s.catalog.Names(),
		logger:  s.logger.With(log.String("session_id", id)),
		inbound: make(chan inbound, inboundBuffer),
	}

	b := bus.New()
	if _, err := b.SubscribeAll(sess.queue); err != nil {
		return nil, err
	}

	g, err := game.New(s.gameConfig, s.catalog, game.WithEventBus(b), game.WithLogger(sess.logger))
	if err != nil {
		return nil, err
	}
	if startLevel != 0 {
		g.LoadLevel(startLevel)
	}
	sess.game = g
	return sess, nil
}

func (s *session) queue(e bus.Event) error {
	ev, ok := e.(events.Event)
	if !ok {
		return fmt.Errorf("%w: unexpected event %T", ErrInvalidMessage, e)
	}
	s.pending = append(s.pending, ev)
	return nil
}

// run blocks until the connection fails or ctx is done.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.close()

	if s.config.ReadLimit > 0 {
		s.conn.SetReadLimit(s.config.ReadLimit)
	}

	if err := s.write(ServerMessage{Type: TypeWelcome, Session: s.id, Levels: s.levels}); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return s.readLoop(gctx)
	})
	group.Go(func() error {
		defer s.close()
		return s.tickLoop(gctx)
	})

	err := group.Wait()
	if isClosed(err) {
		return nil
	}
	return err
}

func (s *session) readLoop(ctx context.Context) error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}

		var in inbound
		if err = s.codec.Unmarshal(data, &in.msg); err != nil {
			in.err = fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		} else {
			in.cmd, in.err = in.msg.Validate()
		}

		select {
		case s.inbound <- in:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *session) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.config.TickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-s.inbound:
			if err := s.apply(in); err != nil {
				return err
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			frame := s.game.Tick(dt, s.keys)
			if err := s.flush(); err != nil {
				return err
			}
			if err := s.write(ServerMessage{Type: TypeFrame, Frame: &frame}); err != nil {
				return err
			}
		}
	}
}

func (s *session) apply(in inbound) error {
	if in.err != nil {
		s.logger.Warn("Malformed client message", log.Error(in.err))
		return s.write(ServerMessage{Type: TypeError, Error: in.err.Error()})
	}

	switch in.msg.Type {
	case TypeInput:
		s.keys = *in.msg.Keys
		return nil
	case TypeCommand:
		s.logger.Debug("Command", log.String("command", in.cmd.Kind.String()), log.Int("level", in.cmd.Level))
		if err := s.game.Handle(in.cmd); err != nil {
			return s.write(ServerMessage{Type: TypeError, Error: err.Error()})
		}
		return s.flush()
	}
	return nil
}

func (s *session) flush() error {
	pending := s.pending
	s.pending = nil
	for i := range pending {
		if err := s.write(ServerMessage{Type: TypeEvent, Event: &pending[i]}); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) write(msg ServerMessage) error {
	data, err := s.codec.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	if s.config.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	return s.conn.WriteMessage(s.codec.MessageType(), data)
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = s.conn.Close()
	})
}

func isClosed(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
