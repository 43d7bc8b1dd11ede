package respserver

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
	"github.com/yndnr/respkv-go/internal/storage/memory"
	"github.com/yndnr/respkv-go/internal/telemetry/logger"
	"github.com/yndnr/respkv-go/internal/telemetry/metric"
)

// Store is the subset of the key-value store the dispatcher needs.
type Store interface {
	Entry(ctx context.Context, key string) (memory.Entry, bool, error)
	DeleteIfExpired(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, opts memory.SetOptions) (string, bool, error)
}

// Replies shared by every connection.
var (
	replyPong         = resp.SimpleString("PONG")
	replyOK           = resp.BulkString("OK")
	replyUnrecognised = resp.Error("Unrecognised command")
	replyUnavailable  = resp.Error("ERR store unavailable")
)

// Dispatcher executes commands against a Store.
type Dispatcher struct {
	store   Store
	metrics *metric.Registry
	now     func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchClock sets the time source GET uses to judge expiry. It
// should match the clock of the store.
func WithDispatchClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(store Store, metrics *metric.Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		metrics: metrics,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes cmd and returns the reply to send. It never fails;
// store errors are turned into error replies.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) resp.Value {
	start := time.Now()
	defer func() {
		d.metrics.RecordCommand(cmd.Kind.String(), time.Since(start))
	}()

	switch cmd.Kind {
	case CmdPing:
		return replyPong
	case CmdEcho:
		return resp.BulkString(strings.Join(cmd.Args, ""))
	case CmdGet:
		return d.get(ctx, cmd.Args)
	case CmdSet:
		return d.set(ctx, cmd.Args)
	default:
		return replyUnrecognised
	}
}

func (d *Dispatcher) get(ctx context.Context, args []string) resp.Value {
	if len(args) < 1 {
		return wrongArgs("get")
	}
	key := args[0]

	// Value and expiry come from one snapshot so a concurrent SET cannot
	// pair a fresh expiry with a stale value.
	entry, ok, err := d.store.Entry(ctx, key)
	if err != nil {
		return d.storeError(ctx, "get", err)
	}
	if !ok {
		return resp.Null()
	}
	if !entry.ExpiredAt(d.now()) {
		return resp.BulkString(entry.Value)
	}

	deleted, err := d.store.DeleteIfExpired(ctx, key)
	if err != nil {
		return d.storeError(ctx, "get", err)
	}
	if deleted {
		d.metrics.IncKeysExpired()
		logger.L(ctx).Debug("expired key removed", "key", key)
	}
	return resp.Null()
}

func (d *Dispatcher) set(ctx context.Context, args []string) resp.Value {
	if len(args) < 2 {
		return wrongArgs("set")
	}

	opts := memory.SetOptions{TTL: parseExpiry(args[2:])}
	if _, _, err := d.store.Set(ctx, args[0], args[1], opts); err != nil {
		return d.storeError(ctx, "set", err)
	}
	return replyOK
}

// parseExpiry reads an optional "EX seconds" or "PX milliseconds" suffix.
// Anything it cannot interpret means no expiry.
func parseExpiry(opts []string) time.Duration {
	if len(opts) != 2 {
		return 0
	}

	var unit time.Duration
	switch strings.ToUpper(opts[0]) {
	case "EX":
		unit = time.Second
	case "PX":
		unit = time.Millisecond
	default:
		return 0
	}

	n, err := strconv.ParseInt(opts[1], 10, 64)
	if err != nil || n <= 0 || n > math.MaxInt64/int64(unit) {
		return 0
	}
	return time.Duration(n) * unit
}

func (d *Dispatcher) storeError(ctx context.Context, command string, err error) resp.Value {
	if errors.Is(err, memory.ErrNotInitialised) {
		logger.L(ctx).Warn("store unavailable", "command", command)
		return replyUnavailable
	}
	logger.L(ctx).Error("store operation failed", "command", command, "error", err)
	return resp.Error("ERR " + err.Error())
}

func wrongArgs(command string) resp.Value {
	return resp.Error("ERR wrong number of arguments for '" + command + "' command")
}
