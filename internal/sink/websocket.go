// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/envsim/internal/record"
)

// ErrConsumerGone is returned once the websocket consumer has disconnected.
var ErrConsumerGone = errors.New("websocket sink: consumer disconnected")

// WebSocket streams records to exactly one websocket consumer, one text
// message per record. It is an http.Handler; mount it on any mux.
//
// WriteRecord blocks until the consumer has connected. Additional
// consumers are refused with 409 Conflict.
type WebSocket struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	claimed bool
	conn    *websocket.Conn
	ready   chan struct{} // closed once conn is set
	gone    chan struct{} // closed when the read side sees the consumer leave
	closed  bool
}

// NewWebSocket creates a sink waiting for its consumer.
func NewWebSocket() *WebSocket {
	return &WebSocket{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ready: make(chan struct{}),
		gone:  make(chan struct{}),
	}
}

func (s *WebSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.claimed {
		s.mu.Unlock()
		http.Error(w, "a consumer is already attached", http.StatusConflict)
		return
	}
	s.claimed = true
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket sink: upgrade error: %v", err)
		s.mu.Lock()
		s.claimed = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.conn = conn
	close(s.ready)
	s.mu.Unlock()
	log.Printf("websocket sink: consumer connected from %s", r.RemoteAddr)

	// Drain control frames until the consumer goes away. The payload of
	// any data frame is ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket sink: read error: %v", err)
			}
			close(s.gone)
			return
		}
	}
}

func (s *WebSocket) WriteRecord(ctx context.Context, rec record.Record) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-s.gone:
		return ErrConsumerGone
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrConsumerGone
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(rec)); err != nil {
		return fmt.Errorf("websocket sink: write: %w", err)
	}
	return nil
}

// Close sends a close frame to the consumer, if any, and closes the
// connection.
func (s *WebSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.closed {
		return nil
	}
	s.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation finished")
	_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
	return s.conn.Close()
}
