package ipc

import (
	"log/slog"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single host simulation talking to the sidecar.
// Each controlled player gets its own connection, identified after the hello
// handshake.
type Connection struct {
	framer   Framer
	handlers map[string]Handler
	Session  string
}

func NewConnection(f Framer, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		framer:   f,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Close ends the connection; a blocked ReadLoop returns with a read error.
func (c *Connection) Close() error { return c.framer.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup. Envelopes are handled strictly in
// arrival order.
func (c *Connection) ReadLoop() {
	defer c.framer.Close()

	for {
		env, err := c.framer.ReadEnvelope()
		if err != nil {
			slog.Info("connection read ended", "session", c.Session, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type, "session", c.Session)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "session", c.Session, "error", err)
			continue
		}

		if resp != nil {
			if err := c.framer.WriteEnvelope(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "session", c.Session, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "session", c.Session)
		}
	}
}
