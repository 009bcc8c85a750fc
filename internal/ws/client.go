package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/live"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024

	// Send buffer size per client.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
	Subprotocols: []string{
		ProtocolJSON,
		ProtocolZstd,
	},
}

// Client represents a WebSocket client connection.
// The send channel is never closed; done signals the pumps and any in-flight
// senders to stop, so watch pumps on other goroutines can always enqueue
// safely.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	connID   string
	protocol string
	logger   *zap.Logger

	closeOnce sync.Once
	mu        sync.Mutex
	watches   map[string]string // watchID (session handle id) -> gameID
}

// close releases the client's pumps and senders. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// HandleWS upgrades a connection and starts its read/write pumps.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	protocol, responseHeader := negotiateSubprotocol(r)
	connID := uuid.New().String()

	h.logger.Debug("websocket subprotocol negotiated",
		zap.String("protocol", protocol),
		zap.Strings("requested", websocket.Subprotocols(r)),
	)

	conn, err := upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		connID:   connID,
		protocol: protocol,
		logger:   h.logger,
		watches:  make(map[string]string),
	}

	h.register <- client
	client.sendMessage(connectedMessage(connID))

	go client.writePump()
	go client.readPump()
}

// negotiateSubprotocol picks the richest subprotocol the client offered.
// Clients that offer nothing get plain JSON frames with no protocol header.
func negotiateSubprotocol(r *http.Request) (string, http.Header) {
	for _, proto := range websocket.Subprotocols(r) {
		switch proto {
		case ProtocolJSON, ProtocolZstd:
			return proto, http.Header{"Sec-WebSocket-Protocol": {proto}}
		}
	}
	return ProtocolJSON, nil
}

// readPump reads command frames from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.cancelAllWatches()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
			}
			break
		}
		c.handleCommand(message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	// Compressed frames go out as binary messages
	msgType := websocket.TextMessage
	if c.protocol == ProtocolZstd {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msgType, message); err != nil {
				c.logger.Debug("websocket write error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleCommand processes one client command frame.
func (c *Client) handleCommand(data []byte) {
	cmd, err := parseCommand(data)
	if err != nil {
		c.logger.Debug("bad command",
			zap.String("connID", c.connID),
			zap.Error(err),
		)
		c.sendMessage(errorMessage(err.Error()))
		return
	}

	switch cmd.Type {
	case CmdWatch:
		handle, err := c.hub.registry.Start(c.hub.sessionContext(), cmd.GameID)
		if err != nil {
			c.sendMessage(errorMessage(err.Error()))
			return
		}

		c.mu.Lock()
		c.watches[handle.ID] = handle.GameID
		c.mu.Unlock()

		c.sendMessage(watchStartedMessage(handle.ID, handle.GameID))
		go c.pumpWatch(handle)

	case CmdUnwatch:
		// Only watches started by this connection can be cancelled through it.
		c.mu.Lock()
		_, owned := c.watches[cmd.WatchID]
		c.mu.Unlock()
		if !owned {
			c.sendMessage(errorMessage("unknown watch id"))
			return
		}
		c.hub.registry.Cancel(cmd.WatchID)

	case CmdScoreboard:
		c.hub.SetScoreboard(c, cmd.Enabled)
	}
}

// pumpWatch forwards one session's updates until its channel closes.
func (c *Client) pumpWatch(handle *live.Handle) {
	for u := range handle.Updates {
		var msg *ServerMessage
		switch u.Kind {
		case live.UpdatePlay:
			msg = playMessage(handle.ID, handle.GameID, u.Event)
		case live.UpdateNotice:
			msg = noticeMessage(handle.ID, handle.GameID, u.Notice)
		default:
			continue
		}
		if !c.sendMessage(msg) {
			// Client too slow or gone; stop the session rather than buffer.
			c.hub.registry.Cancel(handle.ID)
		}
	}

	c.mu.Lock()
	delete(c.watches, handle.ID)
	c.mu.Unlock()
}

// cancelAllWatches stops every session this connection started.
func (c *Client) cancelAllWatches() {
	c.mu.Lock()
	ids := make([]string, 0, len(c.watches))
	for id := range c.watches {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.hub.registry.Cancel(id)
	}
}

// sendMessage encodes and enqueues one message. Returns false if the client's
// buffer was full.
func (c *Client) sendMessage(msg *ServerMessage) bool {
	payload, err := c.hub.encoder.Encode(msg, c.protocol)
	if err != nil {
		c.logger.Warn("encode failed",
			zap.String("connID", c.connID),
			zap.Error(err),
		)
		return false
	}
	return c.enqueue(payload)
}

// enqueue hands a frame to the write pump without blocking. Returns false for
// a full buffer or a released client. send is never closed, so a release
// racing an in-flight sender drops the frame instead of panicking.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}
