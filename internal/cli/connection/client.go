package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// ErrClosed is returned when the server closes the connection before a
// complete reply arrived.
var ErrClosed = errors.New("connection: closed by server")

// DefaultTimeout bounds dialing and each request when no deadline is set.
const DefaultTimeout = 5 * time.Second

// Client is a RESP client over a single TCP connection. Requests are
// serialised; a Client is safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
}

// NewClient creates a client for addr. The connection is opened lazily.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
	}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and waits for its reply. Error replies from the
// server are returned as a Value of kind KindError, not as an error.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.Value{}, errors.New("connection: empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return resp.Value{}, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Value{}, err
	}

	if _, err := c.conn.Write(resp.Encode(resp.Command(args...))); err != nil {
		c.reset()
		return resp.Value{}, fmt.Errorf("send: %w", err)
	}

	v, err := c.readReply()
	if err != nil {
		c.reset()
		return resp.Value{}, err
	}
	return v, nil
}

func (c *Client) readReply() (resp.Value, error) {
	chunk := make([]byte, 4096)
	for {
		if len(c.buf) > 0 {
			v, rest, err := resp.Parse(c.buf)
			if err == nil {
				c.buf = append(c.buf[:0], rest...)
				return v, nil
			}
			if !resp.IsIncomplete(err) {
				return resp.Value{}, fmt.Errorf("decode reply: %w", err)
			}
		}

		n, err := c.conn.Read(chunk)
		c.buf = append(c.buf, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return resp.Value{}, ErrClosed
			}
			return resp.Value{}, fmt.Errorf("receive: %w", err)
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.buf = c.buf[:0]
	return nil
}

func (c *Client) reset() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.buf = c.buf[:0]
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
