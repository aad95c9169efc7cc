// Package events distributes catalog mutation notices to the attached
// admin consumers: browser consoles over WebSocket and the CLI watcher
// over a line-delimited TCP feed.
package events

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	transportTCP = "tcp"
	transportWS  = "websocket"

	writeWindow = 2 * time.Second
)

// Subscription is one attached consumer. The hub only knows how to push a
// line to it and how to stop it; the transport details live in the attach
// constructors.
type Subscription struct {
	transport string
	push      func(line []byte) error
	stop      func() error
}

type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// AttachConn subscribes a TCP watcher. Events arrive as newline-delimited
// JSON; the welcome notice is pushed immediately.
func (h *Hub) AttachConn(conn net.Conn) *Subscription {
	sub := &Subscription{
		transport: transportTCP,
		push: func(line []byte) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWindow))
			_, err := conn.Write(line)
			return err
		},
		stop: conn.Close,
	}
	h.attach(sub)
	return sub
}

// AttachWS subscribes a browser console over an upgraded WebSocket.
func (h *Hub) AttachWS(ws *websocket.Conn) *Subscription {
	sub := &Subscription{
		transport: transportWS,
		push: func(line []byte) error {
			return ws.WriteMessage(websocket.TextMessage, line)
		},
		stop: ws.Close,
	}
	h.attach(sub)
	return sub
}

func (h *Hub) attach(sub *Subscription) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	peers := len(h.subs)
	h.mu.Unlock()

	greeting, err := json.Marshal(WelcomeNotice{
		Type:      TypeWelcome,
		Transport: sub.transport,
		Peers:     peers,
	})
	if err == nil {
		_ = sub.push(append(greeting, '\n'))
	}
}

// Detach drops the subscription and closes its transport. Safe to call for
// a subscription the hub already evicted.
func (h *Hub) Detach(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	_ = sub.stop()
}

// Broadcast marshals the event once and pushes it to every subscription.
// A subscription whose push fails is evicted and closed; the mutation that
// triggered the event must never wait on a dead consumer.
func (h *Hub) Broadcast(ev EntryEvent) {
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	line = append(line, '\n')

	var dead []*Subscription
	h.mu.Lock()
	for sub := range h.subs {
		if err := sub.push(line); err != nil {
			dead = append(dead, sub)
		}
	}
	for _, sub := range dead {
		delete(h.subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range dead {
		_ = sub.stop()
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var s Stats
	for sub := range h.subs {
		switch sub.transport {
		case transportTCP:
			s.TCPClients++
		case transportWS:
			s.WSClients++
		}
	}
	return s
}
