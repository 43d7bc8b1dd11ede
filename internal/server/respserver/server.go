package respserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
	"github.com/yndnr/respkv-go/internal/telemetry/logger"
	"github.com/yndnr/respkv-go/internal/telemetry/metric"
)

// ErrConnectionClosed is reported when the peer closes its side.
var ErrConnectionClosed = errors.New("respserver: connection closed")

// readChunkSize is the size of a single read from the connection.
const readChunkSize = 1024

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds how long a started frame may take to complete.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a batch of replies.
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the first byte of the next frame.
	IdleTimeout time.Duration
	// MaxBufferBytes caps the bytes held for an incomplete frame (0: unlimited).
	MaxBufferBytes int
	// RateLimit is the maximum number of commands per second per
	// connection. Set to 0 to disable rate limiting.
	RateLimit float64
	// RateBurst is the token bucket size for RateLimit.
	RateBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:6379",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    5 * time.Minute,
		MaxBufferBytes: 64 * 1024 * 1024,
		RateLimit:      0,
		RateBurst:      100,
	}
}

// Server accepts RESP connections and serves them against a Store.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	logger     logger.Logger
	metrics    *metric.Registry

	mu       sync.Mutex
	ln       net.Listener
	conns    map[net.Conn]struct{}
	shutdown bool

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server. logger and metrics may be nil.
func New(cfg *Config, store Store, log logger.Logger, metrics *metric.Registry) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		cfg:        cfg,
		dispatcher: NewDispatcher(store, metrics),
		logger:     log,
		metrics:    metrics,
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start listens on the configured address and serves connections in the
// background until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("resp server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Serve(ctx, ln); err != nil {
			s.logger.Error("resp server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the listener address, or nil before the server listens.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections on ln until it is closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, c)
		}()
	}
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	s.shutdown = true
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		if s.shutdown {
			_ = c.Close()
			return
		}
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

// ServeConn runs the read-decode-dispatch loop for one connection and
// closes it when done.
func (s *Server) ServeConn(ctx context.Context, c net.Conn) {
	s.track(c, true)
	s.metrics.ConnectionOpened()
	defer func() {
		_ = c.Close()
		s.track(c, false)
		s.metrics.ConnectionClosed()
	}()

	connID := ulid.Make().String()
	log := s.logger.With("remote", c.RemoteAddr().String())
	ctx = logger.WithConnID(logger.WithLogger(ctx, log), connID)
	log = logger.L(ctx)

	log.Debug("connection opened")

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), max(s.cfg.RateBurst, 1))
	}

	sess := NewSession(s.cfg.MaxBufferBytes)
	bw := bufio.NewWriter(c)
	buf := make([]byte, readChunkSize)

	for {
		for {
			cmd, ok, err := sess.Next()
			if err != nil {
				s.protocolError(c, bw, log, err)
				return
			}
			if !ok {
				break
			}

			var reply resp.Value
			if limiter != nil && !limiter.Allow() {
				s.metrics.IncRateLimited()
				reply = resp.Error("ERR rate limit exceeded")
			} else {
				reply = s.dispatcher.Dispatch(ctx, cmd)
			}
			sess.Reset()

			if err := resp.WriteValue(bw, reply); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
		}

		if bw.Buffered() > 0 {
			_ = c.SetWriteDeadline(s.deadline(s.cfg.WriteTimeout))
			if err := bw.Flush(); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
		}

		timeout := s.cfg.IdleTimeout
		if sess.Len() > 0 {
			timeout = s.cfg.ReadTimeout
		}
		_ = c.SetReadDeadline(s.deadline(timeout))

		n, err := read(c, buf)
		if n > 0 {
			if aerr := sess.Append(buf[:n]); aerr != nil {
				s.protocolError(c, bw, log, aerr)
				return
			}
		}
		if err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, ErrConnectionClosed):
				log.Debug("connection closed by peer")
			case errors.As(err, &netErr) && netErr.Timeout():
				log.Debug("connection timed out")
			case errors.Is(err, net.ErrClosed):
				log.Debug("connection closed")
			default:
				log.Warn("connection read error", "error", err)
			}
			return
		}
	}
}

func read(c net.Conn, buf []byte) (int, error) {
	n, err := c.Read(buf)
	if errors.Is(err, io.EOF) {
		return n, ErrConnectionClosed
	}
	if err == nil && n == 0 {
		return 0, ErrConnectionClosed
	}
	return n, err
}

func (s *Server) deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}

// protocolError sends a best-effort error reply; the peer may already be gone.
func (s *Server) protocolError(c net.Conn, bw *bufio.Writer, log logger.Logger, err error) {
	s.metrics.RecordProtocolError(protocolErrorReason(err))
	log.Warn("closing connection on malformed input", "error", err)

	_ = c.SetWriteDeadline(s.deadline(s.cfg.WriteTimeout))
	_ = resp.WriteValue(bw, resp.Error("ERR "+err.Error()))
	_ = bw.Flush()
}

func protocolErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrBufferFull):
		return "buffer_full"
	case errors.Is(err, resp.ErrUnrecognisedSymbol):
		return "unrecognised_symbol"
	case errors.Is(err, resp.ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, resp.ErrLimitExceeded):
		return "limit_exceeded"
	default:
		return "invalid_input"
	}
}
