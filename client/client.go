package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"

	"github.com/avanderw/highsociety/comms"
)

// Client is one connected participant.
type Client interface {
	// Run connects and serves the session until the context ends or the
	// connection drops.
	Run(ctx context.Context) error
	// Session is the room view, valid once Run is going.
	Session() *Session
}

// NewClient joins a room fresh.
func NewClient(log zerolog.Logger, server, room, name string, turnSeconds int) Client {
	return &client{
		log:     log,
		server:  server,
		session: newSession(log, room, "", name, "", turnSeconds),
	}
}

// NewRejoinClient reclaims the seat named in a saved ticket.
func NewRejoinClient(log zerolog.Logger, server string, t Ticket, turnSeconds int) Client {
	return &client{
		log:     log,
		server:  server,
		session: newSession(log, t.Room, t.SelfID, t.Name, t.HostID, turnSeconds),
	}
}

type client struct {
	log     zerolog.Logger
	server  string
	session *Session
}

func (c *client) Session() *Session { return c.session }

func (c *client) Run(ctx context.Context) error {
	u := url.URL{
		Scheme: "ws",
		Host:   c.server,
		Path:   "/ws",
	}
	q := u.Query()
	q.Set("room", c.session.room)
	q.Set("name", c.session.name)
	if c.session.selfID != "" {
		q.Set("player", c.session.selfID)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), &websocket.DialOptions{
		Subprotocols: []string{"comms"},
	})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	g, gctx := errgroup.WithContext(ctx)

	// read conn, apply to session
	g.Go(func() error {
		for {
			m, err := readMessage(gctx, conn)
			if err != nil {
				return err
			}
			if m.Type == comms.GenericError && c.session.SelfID() == "" {
				// refused before we got a seat
				var p comms.ErrorPayload
				if derr := comms.Decode(m, &p); derr == nil {
					return fmt.Errorf("refused: %s", p.Message)
				}
				return fmt.Errorf("refused")
			}
			c.session.handle(m)
		}
	})

	// the host's turn clock
	g.Go(func() error {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case now := <-tick.C:
				c.session.Tick(now)
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// read session, write to conn
	g.Go(func() error {
		for {
			select {
			case m := <-c.session.outCh:
				if err := writeMessage(gctx, conn, m); err != nil {
					return err
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	return g.Wait()
}

func readMessage(ctx context.Context, conn *websocket.Conn) (comms.Message, error) {
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return comms.Message{}, err
	}
	if typ != websocket.MessageText {
		return comms.Message{}, fmt.Errorf("server sent a %v", typ)
	}
	var m comms.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return comms.Message{}, err
	}
	return m, nil
}

func writeMessage(ctx context.Context, conn *websocket.Conn, m comms.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// SaveTicket and LoadTicket keep the rejoin seat on disk between runs.

func SaveTicket(path string, t Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func LoadTicket(path string) (Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ticket{}, err
	}
	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return Ticket{}, err
	}
	return t, nil
}
