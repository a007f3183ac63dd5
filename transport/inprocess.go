package transport

import (
	"context"
	"sync"

	"github.com/gluster/glusterfs-sub025/errkind"
)

// Handler answers one Request locally, the in-process stand-in for an
// RPC server's dispatch function.
type Handler func(req Request) Response

// InProcess is a Transport that routes Send directly to a registered
// Handler per peer address, used by cmd/gluster's single-node demo
// pool (spec.md §6: "an in-process transport for single-node demos")
// and by tests that want a real Transport without a real network.
type InProcess struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	listeners []ConnListener
}

// NewInProcess returns an empty InProcess transport.
func NewInProcess() *InProcess {
	return &InProcess{handlers: map[string]Handler{}}
}

// Register binds peerAddr to h and fires a connected event.
func (t *InProcess) Register(peerAddr string, h Handler) {
	t.mu.Lock()
	t.handlers[peerAddr] = h
	listeners := append([]ConnListener(nil), t.listeners...)
	t.mu.Unlock()
	for _, l := range listeners {
		l(peerAddr, EventConnected)
	}
}

// Unregister drops peerAddr and fires a disconnected event.
func (t *InProcess) Unregister(peerAddr string) {
	t.mu.Lock()
	delete(t.handlers, peerAddr)
	listeners := append([]ConnListener(nil), t.listeners...)
	t.mu.Unlock()
	for _, l := range listeners {
		l(peerAddr, EventDisconnected)
	}
}

// Send looks up peerAddr's Handler and calls it synchronously.
func (t *InProcess) Send(ctx context.Context, peerAddr string, req Request) (Response, error) {
	t.mu.RLock()
	h, ok := t.handlers[peerAddr]
	t.mu.RUnlock()
	if !ok {
		return Response{}, errkind.New(errkind.NotFound, "transport: no peer registered at "+peerAddr)
	}
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}
	return h(req), nil
}

// OnConnEvent registers listener for future Register/Unregister calls.
func (t *InProcess) OnConnEvent(listener ConnListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}
