package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nstehr/lwg-ai/agent"
	"github.com/nstehr/lwg-ai/ipc"
	"github.com/nstehr/lwg-ai/rules"
	"github.com/nstehr/lwg-ai/trace"
	"github.com/nstehr/lwg-ai/tuning"
)

const banner = `
 _                              _
| |_      ____ _        __ _ (_)
| \ \ /\ / / _` + "`" + ` |_____ / _` + "`" + ` || |
| |\ V  V / (_| |_____| (_| || |
|_| \_/\_/ \__, |      \__,_||_|
           |___/

Rule-Driven RTS Opponent`

func main() {
	socketPath := flag.String("socket", "/tmp/lwg-ai.sock", "unix socket for host connections")
	wsAddr := flag.String("ws", "", "websocket listen address, e.g. :8089 (empty disables)")
	tuningPath := flag.String("tuning", "", "YAML tuning overrides (empty uses defaults)")
	traceDir := flag.String("trace", "", "directory for per-session decision traces (empty disables)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting lwg-ai")

	tune, err := loadTuning(*tuningPath)
	if err != nil {
		slog.Error("failed to load tuning", "path", *tuningPath, "error", err)
		os.Exit(1)
	}
	engine, err := rules.NewEngine(tune)
	if err != nil {
		slog.Error("failed to compile production schedule", "error", err)
		os.Exit(1)
	}
	slog.Info("production schedule compiled", "rules", engine.Rules())

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(*socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", *socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(*socketPath)

	slog.Info("listening on domain socket", "path", *socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sessions sync.WaitGroup
	serve := func(c *ipc.Connection) {
		sessions.Add(1)
		defer sessions.Done()
		handleConn(ctx, c, engine, *traceDir)
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go serve(ipc.NewConnection(ipc.NewStreamFramer(conn), nil))
		}
	}()

	var srv *http.Server
	if *wsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", ipc.WSHandler(serve))
		srv = &http.Server{Addr: *wsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("listening for websocket hosts", "addr", *wsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("websocket server failed", "error", err)
				stop()
			}
		}()
	}

	go reloadOnHangup(ctx, engine, *tuningPath)

	<-ctx.Done()
	slog.Info("shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	// Sessions close their connections on shutdown; wait so traces are flushed.
	sessions.Wait()
}

func loadTuning(path string) (tuning.Tuning, error) {
	if path == "" {
		return tuning.Default(), nil
	}
	return tuning.Load(path)
}

// reloadOnHangup re-reads the tuning file on SIGHUP. A bad file is logged and
// the running schedule stays in place.
func reloadOnHangup(ctx context.Context, engine *rules.Engine, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		tune, err := loadTuning(path)
		if err != nil {
			slog.Error("tuning reload failed", "path", path, "error", err)
			continue
		}
		if err := engine.Swap(tune); err != nil {
			slog.Error("schedule swap failed", "error", err)
		}
	}
}

func handleConn(ctx context.Context, c *ipc.Connection, engine *rules.Engine, traceDir string) {
	a := agent.New(c, engine, nil)
	if traceDir != "" {
		rec, err := trace.Open(traceDir, a.Session)
		if err != nil {
			slog.Warn("tracing disabled for session", "session", a.Session, "error", err)
		} else {
			a.SetRecorder(rec)
		}
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close trace", "session", a.Session, "error", err)
		}
	}()
	a.Register()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	c.ReadLoop()
}
