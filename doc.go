// Package linesrv implements a TCP line-retrieval server. Clients send
// compact binary frames (see the frame package) and receive two-line
// textual responses: a status line (OK or ERR) and a payload line with
// the requested corpus line, empty on error.
//
// A Server owns the listening socket and runs one goroutine per
// accepted connection. Protocol errors are recoverable: the connection
// answers ERR and keeps reading. Two commands end a connection: quit
// closes the caller's connection without writing anything (a protocol
// choice; the reference client never reads a quit response), and
// shutdown stops the whole server: the listener closes, every active
// connection is torn down, and Serve returns.
//
//	st, err := store.OpenFile("corpus.txt")
//	if err != nil { ... }
//	srv := linesrv.NewServer(st, linesrv.Config{Addr: ":10497"})
//	err = srv.ListenAndServe()
package linesrv
