package ingress

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"nhooyr.io/websocket"

	"github.com/whodunit/parlor/pkg/server/protocol"
	"github.com/whodunit/parlor/pkg/utils"
)

const (
	CLIENT_MESSAGE_LIMIT int = 16

	WRITE_TIMEOUT = 5 * time.Second
)

// Client is one websocket connection. The ingress decodes frames into
// protocol messages; who the client is inside a game is the cluster's
// business, not ours.
type Client struct {
	id   uint16
	host string

	// Lasts until the socket closes, whichever side closes it.
	session   utils.Lifetime
	messages  chan protocol.Inbound
	send      chan []byte
	closeSlow func()
}

func (c *Client) Id() uint16 {
	return c.id
}

func (c *Client) Host() string {
	return c.host
}

func (c *Client) Session() *utils.Lifetime {
	return &c.session
}

func (c *Client) Logger() zerolog.Logger {
	return log.With().
		Uint16("client", c.id).
		Str("host", c.host).
		Logger()
}

// Receive yields the decoded messages the client sends.
func (c *Client) Receive() <-chan protocol.Inbound {
	return c.messages
}

// Send queues one outbound message. A client too slow to drain its queue
// is closed rather than allowed to stall the sender.
func (c *Client) Send(message interface{}) {
	bytes, err := protocol.Encode(message)
	if err != nil {
		logger := c.Logger()
		logger.Error().Err(err).Msg("could not encode message")
		return
	}

	select {
	case c.send <- bytes:
	default:
		go c.closeSlow()
	}
}

type WSIngress struct {
	clients    map[*Client]struct{}
	mutex      deadlock.Mutex
	newClients chan *Client
}

func NewWSIngress() *WSIngress {
	return &WSIngress{
		clients:    make(map[*Client]struct{}),
		newClients: make(chan *Client, CLIENT_MESSAGE_LIMIT),
	}
}

// ReceiveClients yields each connection after its handshake.
func (server *WSIngress) ReceiveClients() <-chan *Client {
	return server.newClients
}

func WriteTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Write(ctx, websocket.MessageText, msg)
}

func (server *WSIngress) addClient(client *Client) {
	server.mutex.Lock()
	server.clients[client] = struct{}{}
	server.mutex.Unlock()
}

func (server *WSIngress) removeClient(client *Client) {
	server.mutex.Lock()
	delete(server.clients, client)
	server.mutex.Unlock()
}

func (server *WSIngress) newClientID() (uint16, error) {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	for attempts := 0; attempts < math.MaxUint16; attempts++ {
		number, _ := rand.Int(rand.Reader, big.NewInt(math.MaxUint16))
		truncated := uint16(number.Uint64())

		taken := false
		for client := range server.clients {
			if client.id == truncated {
				taken = true
			}
		}
		if taken {
			continue
		}

		return truncated, nil
	}

	return 0, errors.New("failed to assign client ID")
}

func (server *WSIngress) HandleClient(ctx context.Context, c *websocket.Conn, host string) error {
	id, err := server.newClientID()
	if err != nil {
		return err
	}

	client := &Client{
		id:       id,
		host:     host,
		session:  utils.NewLifetime(ctx),
		messages: make(chan protocol.Inbound, CLIENT_MESSAGE_LIMIT),
		send:     make(chan []byte, CLIENT_MESSAGE_LIMIT),
		closeSlow: func() {
			c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
		},
	}

	server.addClient(client)
	defer server.removeClient(client)
	defer client.session.Cancel()

	logger := client.Logger()
	logger.Info().Msg("client connected")

	server.newClients <- client

	go func() {
		defer client.session.Cancel()
		for {
			if ctx.Err() != nil {
				return
			}

			typ, frame, err := c.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageText {
				continue
			}

			message, err := protocol.Decode(frame)
			if err != nil {
				logger.Debug().Err(err).Msg("rejected frame")
				client.Send(protocol.ErrorMessage{
					Op:      protocol.ErrorOp,
					Kind:    protocol.KindBadRequest,
					Message: err.Error(),
				})
				continue
			}

			select {
			case client.messages <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case msg := <-client.send:
			if err := WriteTimeout(ctx, WRITE_TIMEOUT, c, msg); err != nil {
				logger.Error().Msg("client missed write timeout; disconnecting")
				return err
			}
		case <-client.session.Ctx().Done():
			logger.Info().Msg("client left")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (server *WSIngress) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error().Err(err).Msg("error accepting client connection")
		return
	}

	defer c.Close(websocket.StatusInternalError, "operational fault during session")

	// We sit behind a reverse proxy in production, so check this first.
	hostname := r.RemoteAddr
	if original, ok := r.Header["X-Forwarded-For"]; ok {
		hostname = original[0]
	}

	err = server.HandleClient(r.Context(), c, hostname)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("client session failed")
		return
	}
}
