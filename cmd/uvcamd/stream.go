//////////////////////////////////////////////////////////////////////////////
//
// Websocket push transport driving the streaming session
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package main

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/honulabs/uvcam"
)

var upgrader = websocket.Upgrader{
	// The viewer page may be served from anywhere.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamServer is a minimal push transport: one websocket client at a time
// receives the negotiated MJPEG stream as binary messages. The session
// performs no locking, so a single connection owns it for its lifetime.
type streamServer struct {
	session *uvcam.Session
	busy    int32
}

func (s *streamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !atomic.CompareAndSwapInt32(&s.busy, 0, 1) {
		http.Error(w, "stream busy", http.StatusConflict)
		return
	}
	defer atomic.StoreInt32(&s.busy, 0)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if err := s.session.OnStart(uvcam.FormatMJPEG, flagWidth, flagHeight, flagRate); err != nil {
		log.Error("start stream: %v", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error()))
		return
	}
	defer s.session.OnStop()

	interval := time.Duration(s.session.Negotiated().Interval) * 100 * time.Nanosecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("client %s connected", conn.RemoteAddr())
	for range ticker.C {
		view := s.session.AcquireFrame()
		if view == nil {
			// No frame ready yet; try again next tick.
			continue
		}
		err := conn.WriteMessage(websocket.BinaryMessage, view.Data)
		s.session.ReleaseFrame(view)
		if err != nil {
			log.Info("client %s disconnected: %v", conn.RemoteAddr(), err)
			return
		}
	}
}
