package client

import (
	"context"
	"net"
	"time"

	"github.com/jackc/puddle/v2"
	"github.com/sony/gobreaker/v2"
)

// Config holds configuration for a pooled Client. The zero value is
// usable.
type Config struct {
	// MaxConns is the maximum number of pooled connections.
	// Defaults to 2.
	MaxConns int32

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration

	// Dialer, if set, overrides the default dialer. DialTimeout is
	// ignored when a Dialer is provided.
	Dialer *net.Dialer

	// NewBreaker creates a circuit breaker for the server, called once
	// at client construction. Nil disables the breaker.
	NewBreaker func(addr string) *gobreaker.CircuitBreaker[string]
}

// NewBreakerConfig returns a NewBreaker function with sensible trip
// behavior: open after at least 3 requests with a 60% failure ratio.
func NewBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) *gobreaker.CircuitBreaker[string] {
	return func(addr string) *gobreaker.CircuitBreaker[string] {
		settings := gobreaker.Settings{
			Name:        addr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[string](settings)
	}
}

// Client is a concurrency-safe client backed by a connection pool.
type Client struct {
	addr    string
	pool    *puddle.Pool[*Conn]
	breaker *gobreaker.CircuitBreaker[string] // nil if not configured
}

// New creates a client for the server at addr.
func New(addr string, cfg Config) (*Client, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 2
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &net.Dialer{Timeout: dialTimeout}
	}

	pool, err := puddle.NewPool(&puddle.Config[*Conn]{
		Constructor: func(ctx context.Context) (*Conn, error) {
			nc, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				return nil, err
			}
			return NewConn(nc), nil
		},
		Destructor: func(c *Conn) {
			_ = c.Close()
		},
		MaxSize: cfg.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{addr: addr, pool: pool}
	if cfg.NewBreaker != nil {
		client.breaker = cfg.NewBreaker(addr)
	}
	return client, nil
}

// Get retrieves the corpus line at the 1-based index.
func (c *Client) Get(ctx context.Context, index uint32) (string, error) {
	if c.breaker == nil {
		return c.get(ctx, index)
	}
	return c.breaker.Execute(func() (string, error) {
		return c.get(ctx, index)
	})
}

func (c *Client) get(ctx context.Context, index uint32) (string, error) {
	res, err := c.pool.Acquire(ctx)
	if err != nil {
		return "", err
	}

	line, err := res.Value().Get(ctx, index)
	if err != nil {
		// ErrRejected leaves the connection in a clean state: the
		// response was fully consumed. Anything else is an I/O or
		// framing failure, so the connection is not reusable.
		if err == ErrRejected {
			res.Release()
		} else {
			res.Destroy()
		}
		return "", err
	}

	res.Release()
	return line, nil
}

// Quit sends a quit on one pooled connection and discards it. Other
// pooled connections, and the server, are unaffected; the pool dials a
// replacement on demand.
func (c *Client) Quit(ctx context.Context) error {
	res, err := c.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	err = res.Value().Quit()
	res.Destroy()
	return err
}

// Shutdown asks the server to stop entirely.
func (c *Client) Shutdown(ctx context.Context) error {
	res, err := c.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	err = res.Value().Shutdown(ctx)
	res.Destroy()
	return err
}

// Addr returns the server address this client talks to.
func (c *Client) Addr() string {
	return c.addr
}

// Stat returns pool statistics.
func (c *Client) Stat() *puddle.Stat {
	return c.pool.Stat()
}

// Close destroys all pooled connections. In-flight acquires fail.
func (c *Client) Close() {
	c.pool.Close()
}
