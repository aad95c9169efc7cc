package events

import (
	"io"
	"log"
	"net"
)

// Server accepts TCP watchers and hands each one to the hub.
type Server struct {
	Addr string
	Hub  *Hub

	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	log.Printf("[events] tcp feed listening on %s", s.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	sub := s.Hub.AttachConn(conn)
	log.Printf("[events] watcher attached: %s", conn.RemoteAddr())

	// the feed is write-only; drain whatever the watcher sends until EOF
	_, _ = io.Copy(io.Discard, conn)

	s.Hub.Detach(sub)
	log.Printf("[events] watcher detached: %s", conn.RemoteAddr())
}

func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
