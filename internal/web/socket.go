package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxClientFrame = 512
)

// handleSocket pushes every new rendering to the browser, starting with
// the current one. The client never sends anything but control frames.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.log.WithError(err).Debug("websocket upgrade")
		return
	}
	defer conn.Close()

	log := s.log.WithField("request_id", requestID(r))
	log.Debug("websocket connected")
	defer log.Debug("websocket disconnected")

	updates, cancel := s.session.Watch()
	defer cancel()

	pongWait := 2 * s.opts.PingInterval
	conn.SetReadLimit(maxClientFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(f Frame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(f); err != nil {
			log.WithError(err).Debug("websocket write")
			return false
		}
		return true
	}

	if !send(newFrame(s.session.Snapshot())) {
		return
	}

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session stopped"),
					time.Now().Add(writeWait))
				return
			}
			if !send(newFrame(snap)) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
