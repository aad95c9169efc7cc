package events

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineReader drains one end of a pipe so synchronous writes never block.
func lineReader(t *testing.T, conn net.Conn) <-chan []byte {
	t.Helper()
	out := make(chan []byte, 16)
	go func() {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			line := make([]byte, len(sc.Bytes()))
			copy(line, sc.Bytes())
			out <- line
		}
		close(out)
	}()
	return out
}

func readLine(t *testing.T, lines <-chan []byte) []byte {
	t.Helper()
	select {
	case line, ok := <-lines:
		require.True(t, ok, "feed closed early")
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a feed line")
		return nil
	}
}

func TestAttachConn_SendsWelcomeFirst(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()
	lines := lineReader(t, client)

	sub := hub.AttachConn(server)
	defer hub.Detach(sub)

	var w WelcomeNotice
	require.NoError(t, json.Unmarshal(readLine(t, lines), &w))
	assert.Equal(t, TypeWelcome, w.Type)
	assert.Equal(t, "tcp", w.Transport)
	assert.Equal(t, 1, w.Peers)
}

func TestBroadcast_DeliversTypedEvent(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()
	lines := lineReader(t, client)

	sub := hub.AttachConn(server)
	defer hub.Detach(sub)
	readLine(t, lines) // welcome

	go hub.Broadcast(EntryEvent{
		Type:     TypeEntryCreated,
		EntryID:  9002,
		Title:    "شرح مختصر خليل",
		Username: "admin",
		At:       time.Now().UTC(),
	})

	var got EntryEvent
	require.NoError(t, json.Unmarshal(readLine(t, lines), &got))
	assert.Equal(t, TypeEntryCreated, got.Type)
	assert.Equal(t, 9002, got.EntryID)
	assert.Equal(t, "شرح مختصر خليل", got.Title)
	assert.Equal(t, "admin", got.Username)
}

func TestBroadcast_EvictsDeadSubscription(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	lines := lineReader(t, client)

	hub.AttachConn(server)
	readLine(t, lines)
	client.Close()
	server.Close()

	hub.Broadcast(EntryEvent{Type: TypeEntryDeleted, EntryID: 1})
	assert.Equal(t, 0, hub.Stats().TCPClients, "a failed push evicts the subscription")
}

func TestDetach_ClosesTransport(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()
	lines := lineReader(t, client)

	sub := hub.AttachConn(server)
	readLine(t, lines)
	hub.Detach(sub)

	assert.Equal(t, 0, hub.Stats().TCPClients)
	_, err := server.Write([]byte("x"))
	assert.Error(t, err, "detached connections are closed")
}

func TestStats_CountsPerTransport(t *testing.T) {
	hub := NewHub()

	first, firstPeer := net.Pipe()
	defer firstPeer.Close()
	lineReader(t, firstPeer)
	second, secondPeer := net.Pipe()
	defer secondPeer.Close()
	lineReader(t, secondPeer)

	a := hub.AttachConn(first)
	defer hub.Detach(a)
	b := hub.AttachConn(second)
	defer hub.Detach(b)

	s := hub.Stats()
	assert.Equal(t, 2, s.TCPClients)
	assert.Equal(t, 0, s.WSClients)
}

func TestWelcome_ReportsPeerCount(t *testing.T) {
	hub := NewHub()

	first, firstPeer := net.Pipe()
	defer firstPeer.Close()
	lineReader(t, firstPeer)
	a := hub.AttachConn(first)
	defer hub.Detach(a)

	second, secondPeer := net.Pipe()
	defer secondPeer.Close()
	lines := lineReader(t, secondPeer)
	b := hub.AttachConn(second)
	defer hub.Detach(b)

	var w WelcomeNotice
	require.NoError(t, json.Unmarshal(readLine(t, lines), &w))
	assert.Equal(t, 2, w.Peers, "the second subscriber sees both peers")
}
