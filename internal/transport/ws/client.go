package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"gamecodin/internal/app"
	"gamecodin/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Time allowed for the handshake frame to arrive
	handshakeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Inbound rate limit: sustained messages per second and burst
const (
	inboundRate  = 5
	inboundBurst = 10
)

// Client represents a WebSocket client connection
type Client struct {
	id       string
	conn     *websocket.Conn
	session  *app.GameSession
	nickname string
	limiter  *rate.Limiter
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.GameSession, logger *slog.Logger) *Client {
	return &Client{
		id:      uuid.New().String(),
		conn:    conn,
		session: session,
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// ID implements app.ClientConnection
func (c *Client) ID() string {
	return c.id
}

// Send implements app.ClientConnection. It never blocks: when the buffer is
// full the message is dropped so a stalled peer cannot hold up broadcasts.
func (c *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "conn", c.id, "nickname", c.nickname)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run performs the handshake, then starts the read and write pumps. It
// returns when the connection is gone.
func (c *Client) Run() {
	go c.writePump()

	if !c.handshake() {
		c.Close()
		return
	}

	c.readPump()
}

// handshake reads and resolves the first frame: {nickname, token}
func (c *Client) handshake() bool {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(handshakeWait))

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.logger.Debug("handshake read failed", "conn", c.id, "error", err)
		return false
	}

	hs, err := DecodeHandshake(data)
	if err != nil {
		c.sendError(err.Error())
		return false
	}

	if err := c.session.Authenticate(hs.Nickname, hs.Token, c); err != nil {
		c.sendError(err.Error())
		return false
	}

	c.nickname = hs.Nickname
	return true
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.Disconnect(c.nickname, c)
		c.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "conn", c.id, "error", err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError("Too many messages, slow down")
			continue
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage validates and dispatches one inbound message. Protocol and
// domain errors turn into a private error reply; the connection stays open.
func (c *Client) handleMessage(data []byte) {
	msg, err := DecodeInbound(data)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	// Grading may outlive the connection: a disconnect mid-grading does not
	// cancel the run, the result is still recorded against the nickname.
	ctx := context.Background()

	switch msg.Tag {
	case TagSubmitCode:
		if err := c.session.UpdateCode(c.nickname, msg.Code, msg.Language); err != nil {
			c.sendError("Can't submit: " + err.Error())
			return
		}
		if err := c.session.Submit(ctx, c.nickname); err != nil {
			c.sendError("Can't submit: " + err.Error())
		}

	case TagRunTest:
		results, err := c.session.RunTest(ctx, c.nickname, msg.Code, msg.Language)
		if err != nil {
			c.sendError("Can't test code: " + err.Error())
			return
		}
		c.Send(&domain.TestResultsMessage{
			ID:      domain.MsgTestResults,
			Results: results,
		})

	case TagUpdateCode:
		if err := c.session.UpdateCode(c.nickname, msg.Code, msg.Language); err != nil {
			c.sendError("Can't update code: " + err.Error())
		}

	case TagGetSubmissionCode:
		code, err := c.session.GetSubmissionCode(c.nickname, msg.PlayerNickname)
		if err != nil {
			c.sendError("Can't get code: " + err.Error())
			return
		}
		c.Send(&domain.SubmissionCodeMessage{
			ID:             domain.MsgSubmissionCode,
			PlayerNickname: msg.PlayerNickname,
			Submission:     code,
		})
	}
}

// sendError sends a private error_message to this client
func (c *Client) sendError(text string) {
	c.Send(domain.NewErrorMessage(text))
}
