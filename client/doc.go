// Package client is a client for the line-retrieval protocol.
//
// Conn is a single connection for sequential use. Client wraps a
// connection pool (and optionally a circuit breaker) for concurrent
// callers:
//
//	c, err := client.New("localhost:10497", client.Config{})
//	if err != nil { ... }
//	defer c.Close()
//
//	line, err := c.Get(ctx, 1)
package client
