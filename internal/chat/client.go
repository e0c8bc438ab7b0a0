package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State is the connection state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Options configures a Client. Zero values take the defaults below.
type Options struct {
	URL            string
	Greeting       string
	ReconnectDelay time.Duration
	RetryDelay     time.Duration
	DialTimeout    time.Duration
	ReadLimit      int64
	Logger         *slog.Logger
}

const (
	DefaultURL            = "ws://localhost:8000/ws"
	DefaultGreeting       = "Welcome to Dr. Adrin's office. Are you having an emergency or would you like to leave a message?"
	DefaultReconnectDelay = 3 * time.Second
	DefaultRetryDelay     = time.Second
	defaultDialTimeout    = 10 * time.Second
)

// Client owns one WebSocket connection to the chat endpoint. It reconnects
// after every close until Close is called, and retries sends that find the
// connection down.
type Client struct {
	opts       Options
	transcript *Transcript
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	conn       *websocket.Conn
	connecting bool
	closed     bool
}

// NewClient creates a client that renders into transcript. It does not
// connect until Connect is called.
func NewClient(transcript *Transcript, opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		opts:       opts,
		transcript: transcript,
		logger:     opts.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Transcript returns the transcript the client renders into.
func (c *Client) Transcript() *Transcript {
	return c.transcript
}

// State reports the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.conn != nil:
		return StateConnected
	case c.connecting:
		return StateConnecting
	default:
		return StateDisconnected
	}
}

// Connect starts a connection attempt in the background. It is a no-op
// while an attempt is in flight, while connected, or after Close.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.connecting || c.conn != nil {
		return
	}
	c.connecting = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.dial()
	}()
}

func (c *Client) dial() {
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.DialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, c.opts.URL, nil)
	if err != nil {
		if c.ctx.Err() == nil {
			c.logger.Error("WebSocket error", "url", c.opts.URL, "error", err)
		}
		// A failed dial is followed by a close, as in the browser.
		c.handleClose(nil)
		return
	}
	if c.opts.ReadLimit > 0 {
		conn.SetReadLimit(c.opts.ReadLimit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = conn.Close(websocket.StatusNormalClosure, "client closed")
		return
	}
	c.conn = conn
	c.connecting = false

	// The greeting is appended before the connection is visible to Send and
	// before the first inbound frame can be read.
	c.logger.Info("WebSocket connected", "url", c.opts.URL)
	c.transcript.Append(c.opts.Greeting, SenderAI)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.readLoop(conn)
	}()
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		typ, data, err := conn.Read(c.ctx)
		if err != nil {
			switch {
			case c.ctx.Err() != nil:
			case websocket.CloseStatus(err) != -1:
				c.logger.Debug("WebSocket closed by server", "status", websocket.CloseStatus(err))
			default:
				c.logger.Warn("WebSocket read error", "error", err)
			}
			_ = conn.CloseNow()
			c.handleClose(conn)
			return
		}
		if typ != websocket.MessageText {
			c.logger.Debug("Received binary frame", "bytes", len(data))
		}
		c.transcript.Append(string(data), SenderAI)
	}
}

// handleClose clears the connection (if conn is still current) and schedules
// a reconnect.
func (c *Client) handleClose(conn *websocket.Conn) {
	c.mu.Lock()
	if conn != nil && c.conn == conn {
		c.conn = nil
	}
	c.connecting = false
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	c.logger.Info("WebSocket closed. Attempting to reconnect...", "delay", c.opts.ReconnectDelay)
	c.after(c.opts.ReconnectDelay, c.Connect)
}

// Submit echoes text into the transcript as a user entry and sends it.
// Blank text is ignored and reported as false.
func (c *Client) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	c.transcript.Append(text, SenderUser)
	c.Send(text)
	return true
}

// Send writes text as one frame if the connection is open. Otherwise it
// triggers Connect and retries after the retry delay, until the text is
// written or the client is closed.
func (c *Client) Send(text string) {
	c.mu.Lock()
	conn := c.conn
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	if conn != nil {
		err := conn.Write(c.ctx, websocket.MessageText, []byte(text))
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("WebSocket write error", "error", err)
	}

	c.logger.Info("WebSocket is not open. Attempting to reconnect...", "retry_in", c.opts.RetryDelay)
	c.Connect()
	c.after(c.opts.RetryDelay, func() { c.Send(text) })
}

// after runs fn once d has elapsed, unless the client is closed first.
func (c *Client) after(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-c.ctx.Done():
		case <-t.C:
			fn()
		}
	}()
}

// Close cancels pending reconnects and retries, closes the connection, and
// waits for background work to finish.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		if err := conn.Close(websocket.StatusNormalClosure, "client closed"); err != nil {
			c.logger.Debug("Failed to close websocket", "error", err)
		}
	}
	c.cancel()
	c.wg.Wait()
	c.logger.Info("Chat client closed")
	return nil
}
