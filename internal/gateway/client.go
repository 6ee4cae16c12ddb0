package gateway

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"social-app/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Client : одно websocket соединение пользователя
type Client struct {
	ctx  context.Context
	conn *websocket.Conn
	send chan []byte
	user *model.User
	done chan struct{}
}

func newClient(ctx context.Context, conn *websocket.Conn, user *model.User) *Client {
	return &Client{
		ctx:  ctx,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		user: user,
		done: make(chan struct{}),
	}
}

// Send : не блокирует, при переполненном буфере кадр отбрасывается
func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		log.Warn().Str("user", c.user.UUID).Msg("[Gateway] буфер соединения переполнен, кадр отброшен")
		return false
	}
}

// readPump : читает кадры до ошибки или закрытия, каждый кадр передаётся в handle
func (c *Client) readPump(handle func(*Client, []byte)) {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user", c.user.UUID).Msg("[Gateway] соединение закрыто")
			}
			return
		}
		handle(c, frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
