package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	defaultPingInterval   = 30 * time.Second
	defaultMaxMessageSize = 8192
	sendBuffer            = 64
)

// Client is one websocket connection and the session it plays.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	session *game.Session
}

func newClient(s *Server, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: s.logger.Named("client"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) sessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

func (c *Client) currentSession() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(sess *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
}

// closeSend is called by the hub exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.cancel()
}

func (c *Client) queue(msg OutboundMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
		c.logger.Warn("send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

func (c *Client) sendError(text string) {
	c.queue(OutboundMessage{Type: MsgError, SessionID: c.sessionID(), Data: text})
}

func (c *Client) sendState(sess *game.Session) {
	c.queue(OutboundMessage{Type: MsgGameState, SessionID: sess.ID, Data: sess.View(HumanSeat)})
}

// readPump reads messages until the connection fails, then releases the
// client's session.
func (c *Client) readPump() {
	defer func() {
		c.server.hub.Unregister(c)
		c.cancel()
		_ = c.conn.Close()
		if id := c.sessionID(); id != "" {
			c.server.manager.Remove(id)
		}
	}()

	ws := c.server.opts.WebSocket
	limit := ws.MaxMessageSize
	if limit <= 0 {
		limit = defaultMaxMessageSize
	}
	pongWait := pingInterval(ws.PingInterval) * 10 / 9
	c.conn.SetReadLimit(limit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		c.handleMessage(data)
	}
}

// writePump drains the send channel and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval(c.server.opts.WebSocket.PingInterval))
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func pingInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultPingInterval
	}
	return d
}

func (c *Client) handleMessage(data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch msg.Type {
	case MsgNewGame:
		c.handleNewGame()
	case MsgReset:
		c.handleReset()
	case MsgIntent:
		c.handleIntent(msg.Data)
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (c *Client) handleNewGame() {
	if old := c.sessionID(); old != "" {
		c.server.manager.Remove(old)
	}
	sess, err := c.server.createSession(c.ctx)
	if err != nil {
		c.setSession(nil)
		c.logger.Warn("failed to create session", zap.Error(err))
		c.sendError(err.Error())
		return
	}
	c.setSession(sess)
	c.logger.Info("session opened", zap.String("session_id", sess.ID))
	c.sendState(sess)
}

func (c *Client) handleReset() {
	id := c.sessionID()
	if id == "" {
		c.sendError("no game in progress")
		return
	}
	sess, err := c.server.manager.Reset(c.ctx, id)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.setSession(sess)
	c.sendState(sess)
}

func (c *Client) handleIntent(raw json.RawMessage) {
	sess := c.currentSession()
	if sess == nil {
		c.sendError("no game in progress")
		return
	}
	var intent game.Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		c.sendError("invalid intent: " + err.Error())
		return
	}
	intent.Seat = HumanSeat

	if err := sess.Submit(c.ctx, intent); err != nil {
		if !game.IsIllegal(err) {
			c.logger.Warn("intent failed", zap.String("session_id", sess.ID), zap.Error(err))
		}
		c.sendError(err.Error())
	}
	c.sendState(sess)
}
