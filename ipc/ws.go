package ipc

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// WSHandler upgrades host connections to websockets and hands each one to
// serve on the request goroutine.
func WSHandler(serve func(*Connection)) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return true }, // local hosts only
	}
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("new websocket connection", "remote", r.RemoteAddr)
		serve(NewConnection(NewWSFramer(conn), nil))
	}
}
