// Package eventsink streams ensemble events to a websocket viewer: a
// pull- or push-fed channel of events is published to a connected browser
// at a bounded rate, with ping/pong liveness detection running
// concurrently with the publish loop.
package eventsink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"stochproc/ensemble"
)

const (
	writeWait      = 1 * time.Second
	pubResolution  = 100 * time.Millisecond
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4
)

var upgrader = websocket.Upgrader{}

// Client publishes one engine's outgoing events to a single browser
// connection over a websocket.
type Client struct {
	updates <-chan ensemble.Event
	ws      *websock
	rootCtx context.Context
	last    *AtomicFloat64
}

// NewClient upgrades r to a websocket and returns a publisher for updates.
func NewClient(
	updates <-chan ensemble.Event,
	w http.ResponseWriter,
	r *http.Request,
	last *AtomicFloat64,
) (*Client, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, err
	}

	return &Client{
		updates: updates,
		ws:      newWebSocket(ws),
		rootCtx: r.Context(),
		last:    last,
	}, nil
}

// Sync runs the read, liveness and publish loops concurrently until the
// client disconnects or one of them errors.
func (c *Client) Sync() error {
	group, groupCtx := errgroup.WithContext(c.rootCtx)

	group.Go(func() error {
		return c.readMessages(groupCtx)
	})
	group.Go(func() error {
		return c.pingPong(groupCtx)
	})
	group.Go(func() error {
		return c.publish(groupCtx)
	})

	return group.Wait()
}

// ErrPongDeadlineExceeded indicates the peer stopped answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

func (c *Client) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	c.ws.Conn().SetPongHandler(func(_ string) error {
		pong <- struct{}{}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := c.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (c *Client) ping(ctx context.Context) error {
	return c.ws.Write(ctx, func(ws *websocket.Conn) (err error) {
		if err = ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			if isError(err) {
				err = fmt.Errorf("ping failed: %T %v", err, err)
			}
		}
		return
	})
}

// readMessages keeps the websocket's read pump alive so the pong handler
// fires; it never interprets the payload since this sink is unidirectional.
func (c *Client) readMessages(ctx context.Context) error {
	for {
		err := c.ws.Read(ctx, func(ws *websocket.Conn) (readErr error) {
			_, _, readErr = ws.ReadMessage()
			return
		})
		if err != nil {
			return err
		}
	}
}

func (c *Client) publish(ctx context.Context) error {
	lastSync := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-c.updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				continue
			}
			lastSync = time.Now()
			if c.last != nil {
				c.last.AtomicSet(ev.T)
			}

			err := c.ws.Write(ctx, func(ws *websocket.Conn) (writeErr error) {
				if writeErr = ws.SetWriteDeadline(time.Now().Add(writeWait)); writeErr != nil {
					return fmt.Errorf("failed to set deadline: %w", writeErr)
				}
				if writeErr = ws.WriteJSON(ev); writeErr != nil && isError(writeErr) {
					writeErr = fmt.Errorf("publish failed: %T %v", writeErr, writeErr)
				}
				return
			})
			if err != nil {
				return err
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// ErrSockCongestion indicates too many waiters queued on the socket for a
// single read or write.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

const (
	readDeadline     = time.Second
	writeDeadline    = time.Second
	closeGracePeriod = 10 * time.Second
)

// websock serializes reads and writes to the underlying connection, which
// permits only one concurrent reader and one concurrent writer.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSocket(ws *websocket.Conn) *websock {
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

func (sock *websock) Conn() *websocket.Conn { return sock.ws }

func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}

	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	sock.ws.Close()
}

func (sock *websock) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (sock *websock) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}
