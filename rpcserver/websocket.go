// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"container/list"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/chaind/chaind/wire"
	"github.com/gorilla/websocket"
)

const (
	// websocketSendBufferSize is the number of elements the send channel
	// can queue before blocking.  Notifications have their own queuing
	// mechanism independent of the send channel buffer.
	websocketSendBufferSize = 50

	// websocketWriteTimeout is the time allowed to write a single message
	// to a client.
	websocketWriteTimeout = 10 * time.Second
)

// wsNotificationManager is a connection and notification manager used for
// websockets.  It allows websocket clients to register for notifications they
// are interested in.  Every connected client receives all chain events.
type wsNotificationManager struct {
	sync.Mutex

	// nextID is the identifier of the most recently published event.
	nextID int64

	clients  map[chan struct{}]*wsClient
	shutdown bool
}

// newWsNotificationManager returns a new notification manager ready for use.
func newWsNotificationManager() *wsNotificationManager {
	return &wsNotificationManager{
		clients: make(map[chan struct{}]*wsClient),
	}
}

// NumClients returns the number of clients actively being served.
//
// This function is safe for concurrent access.
func (m *wsNotificationManager) NumClients() int {
	m.Lock()
	defer m.Unlock()

	return len(m.clients)
}

// NotifyBlockConnected sends a new_block event to all connected clients.
//
// This function is safe for concurrent access.
func (m *wsNotificationManager) NotifyBlockConnected(block *wire.Block) {
	m.publish(EventNewBlock, block)
}

// NotifyNewTransaction sends a new_transaction event to all connected
// clients.
//
// This function is safe for concurrent access.
func (m *wsNotificationManager) NotifyNewTransaction(tx *wire.Transaction) {
	m.publish(EventNewTransaction, tx)
}

// publish assigns the next event identifier and queues the marshalled event
// for every client.  Identifiers are consumed even when nobody is listening.
func (m *wsNotificationManager) publish(event string, data interface{}) {
	m.Lock()
	defer m.Unlock()

	m.nextID++
	marshalled, err := json.Marshal(&Event{
		Event: event,
		ID:    m.nextID,
		Data:  data,
	})
	if err != nil {
		log.Errorf("Failed to marshal %s event: %v", event, err)
		return
	}

	for _, wsc := range m.clients {
		wsc.QueueNotification(marshalled)
	}
}

// AddClient adds the passed websocket client to the notification manager.
// Once the manager is shut down the client is disconnected instead and false
// is returned.
//
// This function is safe for concurrent access.
func (m *wsNotificationManager) AddClient(wsc *wsClient) bool {
	m.Lock()
	defer m.Unlock()

	if m.shutdown {
		wsc.Disconnect()
		return false
	}
	m.clients[wsc.quit] = wsc
	return true
}

// RemoveClient removes the passed websocket client.
//
// This function is safe for concurrent access.
func (m *wsNotificationManager) RemoveClient(wsc *wsClient) {
	m.Lock()
	defer m.Unlock()

	delete(m.clients, wsc.quit)
}

// Shutdown disconnects all websocket clients the manager knows about and
// refuses clients added afterwards.
func (m *wsNotificationManager) Shutdown() {
	m.Lock()
	defer m.Unlock()

	m.shutdown = true

	for _, wsc := range m.clients {
		wsc.Disconnect()
	}
}

// wsClient provides an abstraction for handling a websocket client.  The
// overall data flow is split into 3 main goroutines: an input handler which
// only watches for the connection to be closed, a notification queue handler
// which never blocks the publisher, and an output handler which writes
// messages to the connection.
type wsClient struct {
	// conn is the underlying websocket connection.
	conn *websocket.Conn

	// addr is the remote address of the client.
	addr string

	// Networking infrastructure.
	disconnect sync.Once
	ntfnChan   chan []byte
	sendChan   chan []byte
	quit       chan struct{}
	wg         sync.WaitGroup
}

// newWebsocketClient returns a new websocket client given the websocket
// connection and remote address.  The returned client is ready to start.
func newWebsocketClient(conn *websocket.Conn, remoteAddr string) *wsClient {
	return &wsClient{
		conn:     conn,
		addr:     remoteAddr,
		ntfnChan: make(chan []byte, 1), // nonblocking sync
		sendChan: make(chan []byte, websocketSendBufferSize),
		quit:     make(chan struct{}),
	}
}

// inHandler reads from the connection until it fails, which happens once the
// client closes it.  Messages sent by the client are ignored.  It must be run
// as a goroutine.
func (c *wsClient) inHandler() {
	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {

				log.Debugf("Websocket receive error from %s: %v",
					c.addr, err)
			}
			break
		}
		log.Tracef("Ignoring websocket message from %s", c.addr)
	}

	c.Disconnect()
	c.wg.Done()
	log.Tracef("Websocket client input handler done for %s", c.addr)
}

// notificationQueueHandler queues notifications until the output handler is
// ready to send them, so that publishing never waits on a slow client.  It
// must be run as a goroutine.
func (c *wsClient) notificationQueueHandler() {
	pendingNtfns := list.New()
out:
	for {
		// Only offer the oldest pending notification to the output
		// handler when there is one.
		var next []byte
		var sendChan chan []byte
		if front := pendingNtfns.Front(); front != nil {
			next = front.Value.([]byte)
			sendChan = c.sendChan
		}

		select {
		case msg := <-c.ntfnChan:
			pendingNtfns.PushBack(msg)

		case sendChan <- next:
			pendingNtfns.Remove(pendingNtfns.Front())

		case <-c.quit:
			break out
		}
	}

	c.wg.Done()
	log.Tracef("Websocket client notification queue handler done "+
		"for %s", c.addr)
}

// outHandler handles all outgoing messages for the websocket connection.  It
// must be run as a goroutine.
func (c *wsClient) outHandler() {
out:
	for {
		select {
		case msg := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(websocketWriteTimeout))
			err := c.conn.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				log.Debugf("Websocket send error to %s: %v", c.addr, err)
				c.Disconnect()
				break out
			}

		case <-c.quit:
			break out
		}
	}

	c.wg.Done()
	log.Tracef("Websocket client output handler done for %s", c.addr)
}

// QueueNotification queues the passed notification to be sent to the
// websocket client.
func (c *wsClient) QueueNotification(marshalledJSON []byte) {
	select {
	case c.ntfnChan <- marshalledJSON:
	case <-c.quit:
	}
}

// Disconnect disconnects the websocket client.
func (c *wsClient) Disconnect() {
	c.disconnect.Do(func() {
		log.Tracef("Disconnecting websocket client %s", c.addr)
		close(c.quit)
		c.conn.Close()
	})
}

// Start begins processing input and output messages.
func (c *wsClient) Start() {
	log.Tracef("Starting websocket client %s", c.addr)

	c.wg.Add(3)
	go c.inHandler()
	go c.notificationQueueHandler()
	go c.outHandler()
}

// WaitForShutdown blocks until the websocket client goroutines are stopped
// and the connection is closed.
func (c *wsClient) WaitForShutdown() {
	c.wg.Wait()
}

// handleEvents implements GET /events by upgrading the connection to a
// websocket and streaming every chain event to it until either side closes
// it.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied with an error.
		log.Errorf("Failed to upgrade websocket for %s: %v",
			r.RemoteAddr, err)
		return
	}

	client := newWebsocketClient(conn, r.RemoteAddr)
	if !s.ntfnMgr.AddClient(client) {
		log.Debugf("Refused websocket client %s during shutdown",
			r.RemoteAddr)
		return
	}
	client.Start()
	log.Infof("New websocket client %s", r.RemoteAddr)

	client.WaitForShutdown()
	s.ntfnMgr.RemoveClient(client)
	log.Infof("Disconnected websocket client %s", r.RemoteAddr)
}
