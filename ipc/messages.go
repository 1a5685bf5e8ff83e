package ipc

// Message types exchanged with the host simulation.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeSnapshot = "snapshot"
	TypeOrders   = "orders"
)

// HelloMessage identifies the faction this connection will control.
type HelloMessage struct {
	Player int    `json:"player"`
	Team   int    `json:"team"`
	Name   string `json:"name,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}
