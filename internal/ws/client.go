package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bowser_blocks/internal/game"
	"bowser_blocks/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Clicker - то, что клиент умеет делать с партией
type Clicker interface {
	Click(ctx context.Context, playerID, sessionID string, x, y int) (game.ClickResult, error)
}

// входящее сообщение клиента
type inbound struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type Client struct {
	PlayerID  string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub     *Hub
	clicker Clicker
}

func NewClient(playerID, sessionID string, conn *websocket.Conn, hub *Hub, clicker Clicker) *Client {
	return &Client{
		PlayerID:  playerID,
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       hub,
		clicker:   clicker,
	}
}

// Run подписывает клиента и блокируется до закрытия соединения
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	c.enqueue([]byte(`{"type":"ready"}`))
	c.readPump()
}

func (c *Client) enqueue(msg []byte) {
	select {
	case c.Send <- msg:
	case <-time.After(500 * time.Millisecond):
		logger.Warn("ws enqueue timeout", "session_id", c.SessionID, "player_id", c.PlayerID)
	}
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "error", err, "session_id", c.SessionID)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg []byte) {
	var in inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		c.replyError("invalid message")
		return
	}

	switch in.Type {
	case "click":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// результат приходит всем подписчикам через Hub.Publish
		if _, err := c.clicker.Click(ctx, c.PlayerID, c.SessionID, in.X, in.Y); err != nil {
			if errors.Is(err, game.ErrOutOfBounds) {
				c.replyError("cell out of bounds")
				return
			}
			c.replyError(err.Error())
		}
	case "ping":
		c.enqueue([]byte(`{"type":"pong"}`))
	default:
		c.replyError("unknown message type")
	}
}

func (c *Client) replyError(text string) {
	msg, _ := json.Marshal(map[string]string{"type": "error", "error": text})
	c.enqueue(msg)
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "error", err, "session_id", c.SessionID)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
