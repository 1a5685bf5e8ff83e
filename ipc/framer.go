package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// Framer moves whole envelopes over one host connection.
type Framer interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(Envelope) error
	Close() error
}

// StreamFramer frames envelopes with a length prefix over a byte stream,
// typically a unix domain socket.
type StreamFramer struct {
	conn net.Conn
}

func NewStreamFramer(conn net.Conn) *StreamFramer { return &StreamFramer{conn: conn} }

func (f *StreamFramer) ReadEnvelope() (Envelope, error)  { return ReadEnvelope(f.conn) }
func (f *StreamFramer) WriteEnvelope(env Envelope) error { return WriteEnvelope(f.conn, env) }
func (f *StreamFramer) Close() error                     { return f.conn.Close() }

// WSFramer carries one envelope per websocket text message.
type WSFramer struct {
	conn         *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewWSFramer(conn *websocket.Conn) *WSFramer {
	conn.SetReadLimit(maxFrame)
	return &WSFramer{conn: conn, readTimeout: 60 * time.Second, writeTimeout: 5 * time.Second}
}

func (f *WSFramer) ReadEnvelope() (Envelope, error) {
	_ = f.conn.SetReadDeadline(time.Now().Add(f.readTimeout))
	kind, msg, err := f.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
		return Envelope{}, fmt.Errorf("unexpected websocket message type %d", kind)
	}
	return DecodeEnvelope(msg)
}

func (f *WSFramer) WriteEnvelope(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	_ = f.conn.SetWriteDeadline(time.Now().Add(f.writeTimeout))
	if err := f.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (f *WSFramer) Close() error { return f.conn.Close() }
