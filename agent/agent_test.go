package agent

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/nstehr/lwg-ai/ipc"
	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/rules"
	"github.com/nstehr/lwg-ai/trace"
	"github.com/nstehr/lwg-ai/tuning"
)

func newEngine(t *testing.T) *rules.Engine {
	t.Helper()
	e, err := rules.NewEngine(tuning.Default())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// houseSnapshot is one castle near the supply cap with a single miner, so
// the next tick must start a house. Player and team are left for the hello
// to fill in.
func houseSnapshot() model.Snapshot {
	s := model.Snapshot{
		Tick:      7,
		Time:      60,
		Players:   []model.PlayerInfo{{ID: me, Team: 1}, {ID: enemy, Team: 2}},
		Gold:      150,
		Supply:    77,
		MaxSupply: 80,
		Grid:      model.NewGrid(64, 64),
	}
	castle := own(1, model.Castle)
	castle.Pos = model.Point{X: 20, Y: 20}
	mine := model.Entity{ID: 50, Type: model.Goldmine, Pos: model.Point{X: 40, Y: 40}, Gold: 5000, Neutral: true}
	s.Buildings = []model.Entity{castle, mine}
	s.Grid.Block(20, 20, 23, 23)
	s.Grid.Block(40, 40, 42, 42)
	miner := own(100, model.Worker)
	miner.Pos = model.Point{X: 25, Y: 25}
	miner.Order = model.Order{Name: model.OrderMine, TargetID: 50}
	s.Units = []model.Entity{miner}
	return s
}

func send(t *testing.T, conn net.Conn, msgType string, data any) ipc.Envelope {
	t.Helper()
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := ipc.WriteEnvelope(conn, env); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := ipc.ReadEnvelope(conn)
	if err != nil {
		t.Fatalf("read reply to %s: %v", msgType, err)
	}
	return resp
}

func TestAgentSession(t *testing.T) {
	host, sidecar := net.Pipe()
	defer host.Close()

	dir := t.TempDir()
	conn := ipc.NewConnection(ipc.NewStreamFramer(sidecar), nil)
	a := New(conn, newEngine(t), nil)
	rec, err := trace.Open(dir, a.Session)
	if err != nil {
		t.Fatal(err)
	}
	a.SetRecorder(rec)
	a.Register()

	done := make(chan struct{})
	go func() {
		conn.ReadLoop()
		close(done)
	}()

	resp := send(t, host, ipc.TypeHello, ipc.HelloMessage{Player: me, Team: 1, Name: "blue"})
	if resp.Type != ipc.TypeAck {
		t.Fatalf("expected ack, got %q", resp.Type)
	}
	var ack ipc.AckMessage
	if err := json.Unmarshal(resp.Data, &ack); err != nil {
		t.Fatal(err)
	}
	if ack.Session != a.Session || ack.Session == "" {
		t.Errorf("expected session %q in ack, got %q", a.Session, ack.Session)
	}

	resp = send(t, host, ipc.TypeSnapshot, houseSnapshot())
	if resp.Type != ipc.TypeOrders {
		t.Fatalf("expected orders, got %q", resp.Type)
	}
	var orders ipc.OrdersMessage
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatal(err)
	}
	if orders.Tick != 7 {
		t.Errorf("expected tick 7, got %d", orders.Tick)
	}
	if n := orders.Summary()[model.BuildOrder(model.House)]; n != 1 {
		t.Errorf("expected 1 house order, got %d: %+v", n, orders.Orders)
	}

	host.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLoop did not return after the host closed")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := trace.ReadFile(trace.Path(dir, a.Session))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(entries) != 1 || entries[0].Tick != 7 || entries[0].Player != me {
		t.Errorf("unexpected trace %+v", entries)
	}
}

func TestHandleSnapshot_EmptyWorld(t *testing.T) {
	a := New(nil, newEngine(t), nil)
	a.Player, a.Team = me, 1

	env, _ := ipc.NewEnvelope(ipc.TypeSnapshot, model.Snapshot{Tick: 1, Grid: model.NewGrid(8, 8)})
	resp, err := a.HandleSnapshot(env)
	if err != nil {
		t.Fatalf("HandleSnapshot: %v", err)
	}
	// The order list is present even when nothing was decided.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["orders"]) != "[]" {
		t.Errorf("expected empty order list, got %s", raw["orders"])
	}
}

func TestHandleSnapshot_BeforeHello(t *testing.T) {
	a := New(nil, newEngine(t), nil)
	env, _ := ipc.NewEnvelope(ipc.TypeSnapshot, model.Snapshot{Tick: 1})
	if _, err := a.HandleSnapshot(env); err == nil {
		t.Error("expected an error for a snapshot with no player")
	}
}

func TestHandleHello_RejectsMissingPlayer(t *testing.T) {
	a := New(nil, newEngine(t), nil)
	env, _ := ipc.NewEnvelope(ipc.TypeHello, ipc.HelloMessage{Team: 1})
	if _, err := a.HandleHello(env); err == nil {
		t.Error("expected an error for a hello without a player")
	}
}

func TestNewSessionIDs(t *testing.T) {
	engine := newEngine(t)
	a, b := New(nil, engine, nil), New(nil, engine, nil)
	if a.Session == b.Session {
		t.Errorf("expected distinct sessions, both %q", a.Session)
	}
}
