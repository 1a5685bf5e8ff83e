package ipc

import "github.com/nstehr/lwg-ai/model"

// OrdersMessage is the reply to a snapshot: every command decided for the tick,
// in issue order. The host applies them after the tick.
type OrdersMessage struct {
	Tick   int             `json:"tick"`
	Orders []model.Command `json:"orders"`
}

// NewOrdersMessage wraps a tick's batch. An empty batch still produces a
// reply with an empty, non-null order list.
func NewOrdersMessage(b *model.OrderBatch) OrdersMessage {
	m := OrdersMessage{Orders: []model.Command{}}
	if b == nil {
		return m
	}
	m.Tick = b.Tick
	if len(b.Commands) > 0 {
		m.Orders = b.Commands
	}
	return m
}

// Summary counts orders by name, for logging.
func (m OrdersMessage) Summary() map[string]int {
	out := make(map[string]int)
	for _, c := range m.Orders {
		out[c.Name]++
	}
	return out
}
