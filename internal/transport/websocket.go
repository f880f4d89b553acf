// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sync"
	"time"

	applog "audiotrim/internal/log"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// WebSocketTransport broadcasts JSON events to every connected WebSocket
// client. It is an http.Handler; mount it on the route clients connect to.
//
// Events are queued on a buffered channel and written by a single goroutine.
// When the queue is full new events are dropped rather than blocking the
// sender.
type WebSocketTransport struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	onClients func(int) // Called with the client count whenever it changes.
}

// NewWebSocketTransport creates the transport and starts its broadcast loop.
func NewWebSocketTransport(queueSize int) *WebSocketTransport {
	if queueSize <= 0 {
		queueSize = 256
	}
	t := &WebSocketTransport{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Events carry no secrets; allow any page to listen.
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, queueSize),
		done:      make(chan struct{}),
	}

	t.wg.Add(1)
	go t.handleBroadcasts()
	return t
}

// OnClientsChanged registers fn to observe the connected client count. It must
// be called before the transport is served.
func (t *WebSocketTransport) OnClientsChanged(fn func(int)) {
	t.onClients = fn
}

// ServeHTTP upgrades the connection and registers the client until it
// disconnects.
func (t *WebSocketTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("WebSocketTransport: upgrade error: %v", err)
		return
	}

	select {
	case <-t.done:
		conn.Close()
		return
	default:
	}

	t.clientsMu.Lock()
	t.clients[conn] = true
	n := len(t.clients)
	t.clientsMu.Unlock()
	t.notify(n)
	applog.Debugf("WebSocketTransport: client connected, total: %d", n)

	// Clients never send anything meaningful; reading only detects the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.remove(conn)
				return
			}
		}
	}()
}

// Send queues data for broadcast. A full queue drops the event silently.
func (t *WebSocketTransport) Send(data any) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}

	select {
	case t.broadcast <- data:
	default:
		applog.Debugf("WebSocketTransport: queue full, dropping event")
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (t *WebSocketTransport) ClientCount() int {
	t.clientsMu.Lock()
	defer t.clientsMu.Unlock()
	return len(t.clients)
}

// Close disconnects every client and stops the broadcast loop. It is safe to
// call more than once.
func (t *WebSocketTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.wg.Wait()

		t.clientsMu.Lock()
		for client := range t.clients {
			client.Close()
			delete(t.clients, client)
		}
		t.clientsMu.Unlock()
		t.notify(0)
	})
	return nil
}

func (t *WebSocketTransport) handleBroadcasts() {
	defer t.wg.Done()
	for {
		select {
		case data := <-t.broadcast:
			t.write(data)
		case <-t.done:
			return
		}
	}
}

func (t *WebSocketTransport) write(data any) {
	t.clientsMu.Lock()
	var dropped []*websocket.Conn
	for client := range t.clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.WriteJSON(data); err != nil {
			applog.Debugf("WebSocketTransport: error sending to client: %v", err)
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		client.Close()
		delete(t.clients, client)
	}
	n := len(t.clients)
	t.clientsMu.Unlock()

	if len(dropped) > 0 {
		t.notify(n)
	}
}

func (t *WebSocketTransport) remove(conn *websocket.Conn) {
	t.clientsMu.Lock()
	_, ok := t.clients[conn]
	delete(t.clients, conn)
	n := len(t.clients)
	t.clientsMu.Unlock()

	conn.Close()
	if ok {
		t.notify(n)
		applog.Debugf("WebSocketTransport: client disconnected, total: %d", n)
	}
}

func (t *WebSocketTransport) notify(n int) {
	if t.onClients != nil {
		t.onClients(n)
	}
}

var _ Transport = (*WebSocketTransport)(nil)
var _ http.Handler = (*WebSocketTransport)(nil)
