// Package transport defines the external RPC collaborator contract
// spec.md §1 deliberately keeps out of this core's scope: "RPC
// framing, program numbers and XDR encodings are delegated to the
// transport collaborator; this spec requires only that the transport
// deliver request/response pairs with stable identifiers and emit
// connect/disconnect events." opsm.Driver implementations and
// ops.Fetcher sit on top of a Transport; nothing in this package
// touches bytes on a wire.
package transport

import "context"

// ConnEvent is one of the two events Transport must emit per peer.
type ConnEvent int

const (
	EventConnected ConnEvent = iota
	EventDisconnected
)

func (e ConnEvent) String() string {
	if e == EventConnected {
		return "connected"
	}
	return "disconnected"
}

// Request is one outbound RPC, addressed by a stable ID the Transport
// must echo back on the matching Response (so a caller can correlate
// replies that arrive out of order or after a reconnect).
type Request struct {
	ID      string
	Op      string
	Payload map[string]string
}

// Response is the reply to a Request with the same ID.
type Response struct {
	ID      string
	OK      bool
	ErrText string
	Payload map[string]string
}

// ConnListener is notified of connect/disconnect events for a peer
// address.
type ConnListener func(peerAddr string, event ConnEvent)

// Transport is the narrow interface opsm.Driver implementations and
// ops.RemoteFetcher sit on top of. Send is synchronous by contract —
// it blocks for the matching Response or returns an error — matching
// opsm's fanOut design (C10), which already assumes a blocking
// per-peer RPC call it can run inside an errgroup.
type Transport interface {
	Send(ctx context.Context, peerAddr string, req Request) (Response, error)

	// OnConnEvent registers a listener for connect/disconnect events;
	// a Transport may call it from any goroutine.
	OnConnEvent(listener ConnListener)
}
