// Package codex provides a client for codex app-server, the JSON-RPC
// interface of the codex agent.
//
// A Client launches "codex app-server" on first use, performs the
// initialize handshake, and exchanges newline-delimited JSON-RPC messages
// with it over stdio. Typed methods such as StartThread and StartTurn wrap
// the generic Call primitive. Server-initiated requests and notifications
// are delivered to subscribers as Events, and requests can be answered
// automatically by registering a RequestHandler.
//
// Basic usage:
//
//	client, err := codex.NewClient(&options.ClientOptions{})
//	if err != nil {
//		return err
//	}
//	defer client.Close(context.Background())
//
//	threads, err := client.ListThreads(ctx, nil)
//
// The process is restarted lazily: if it exits, every outstanding call
// fails with a process error and the next call spawns a new one.
package codex
