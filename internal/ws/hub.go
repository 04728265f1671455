package ws

import (
	"sync"
)

// Hub keeps the live connections, keyed by connection ID. Room membership
// is not tracked here; the room registry owns that.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*clientConn
}

func NewHub() *Hub { return &Hub{conns: make(map[string]*clientConn)} }

func (h *Hub) Add(c *clientConn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	c, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		c.rawConn.Close()
	}
}

// Broadcast sends v to every listed member except `exclude`. Members whose
// connection is already gone are skipped; members whose write fails are
// evicted (the next event supersedes anything they missed).
func (h *Hub) Broadcast(memberIDs []string, exclude string, v any) {
	// Take a quick snapshot of the target connections
	h.mu.RLock()
	conns := make([]*clientConn, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == exclude {
			continue
		}
		if c, ok := h.conns[id]; ok {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	// Do the I/O outside the lock
	var failed []*clientConn
	for _, c := range conns {
		if err := c.writeJSON(v); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		h.Remove(c.id)
	}
}
