package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/lwg-ai/ipc"
	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/rules"
	"github.com/nstehr/lwg-ai/trace"
)

// Agent owns the decision-making for a single player session. The engine is
// shared across sessions; everything else here belongs to one connection.
type Agent struct {
	Conn    *ipc.Connection
	Session string
	Player  int
	Team    int
	Name    string
	Engine  *rules.Engine

	trace trace.Recorder
	prev  *stateSnapshot
}

// New binds an agent to conn and tags the connection with a fresh session id.
// A nil recorder disables tracing.
func New(conn *ipc.Connection, engine *rules.Engine, rec trace.Recorder) *Agent {
	if rec == nil {
		rec = trace.Nop{}
	}
	a := &Agent{Conn: conn, Session: uuid.NewString(), Engine: engine, trace: rec}
	if conn != nil {
		conn.Session = a.Session
	}
	return a
}

// SetRecorder replaces the session's trace recorder. Traces are keyed by
// session, so recorders are opened after New.
func (a *Agent) SetRecorder(rec trace.Recorder) { a.trace = rec }

// Register installs the agent's handlers on its connection.
func (a *Agent) Register() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeSnapshot, a.HandleSnapshot)
}

// HandleHello completes the handshake so the host knows which player this
// session controls.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	if hello.Player <= 0 {
		return nil, fmt.Errorf("hello: invalid player %d", hello.Player)
	}

	a.Player, a.Team, a.Name = hello.Player, hello.Team, hello.Name
	slog.Info("player identified", "session", a.Session, "player", a.Player, "team", a.Team, "name", a.Name)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: a.Session})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleSnapshot decides one tick and replies with its orders.
func (a *Agent) HandleSnapshot(env ipc.Envelope) (*ipc.Envelope, error) {
	var s model.Snapshot
	if err := json.Unmarshal(env.Data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Player == 0 {
		s.Player = a.Player
	}
	if s.Team == 0 {
		s.Team = a.Team
	}
	if s.Player == 0 {
		return nil, fmt.Errorf("snapshot tick %d: no player (hello not received)", s.Tick)
	}

	slog.Debug("snapshot received",
		"session", a.Session,
		"tick", s.Tick,
		"gold", s.Gold,
		"supply", fmt.Sprintf("%d/%d", s.Supply, s.MaxSupply),
		"units", len(s.Units),
		"buildings", len(s.Buildings),
	)

	batch, err := a.Engine.Evaluate(&s)
	if err != nil {
		return nil, err
	}

	events, cur := detectEvents(&s, a.Engine.Tuning(), a.prev)
	a.prev = &cur
	if len(events) > 0 {
		slog.Info("game events", "session", a.Session, "tick", s.Tick, "events", formatEvents(events))
	}

	if err := a.trace.Record(trace.NewEntry(a.Session, &s, batch)); err != nil {
		slog.Warn("trace record failed", "session", a.Session, "tick", s.Tick, "error", err)
	}

	msg := ipc.NewOrdersMessage(batch)
	if len(msg.Orders) > 0 {
		slog.Debug("orders decided", "session", a.Session, "tick", s.Tick, "orders", msg.Summary())
	}
	reply, err := ipc.NewEnvelope(ipc.TypeOrders, msg)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// Close flushes the session trace.
func (a *Agent) Close() error {
	return a.trace.Close()
}
