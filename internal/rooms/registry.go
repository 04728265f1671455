package rooms

import (
	"errors"
	"sync"
	"time"
)

// RoomDTO is a point-in-time snapshot of one room.
type RoomDTO struct {
	ID          string    `json:"id"`
	ActiveUsers []string  `json:"active_users"`
	CreatedAt   time.Time `json:"created_at" example:"2025-07-27T16:05:05Z"`
}

var (
	ErrRoomNotFound = errors.New("room not found")
)

// IRoomRegistry is the single source of truth for rooms and their
// membership. Connections never hold their own room list; it is always
// derived from here (RoomsContaining) so the two cannot drift apart.
type IRoomRegistry interface {
	EnsureRoom(id string)
	AddMember(roomID, connID string) []string
	RemoveMember(roomID, connID string) ([]string, error)
	RoomsContaining(connID string) []string
	SweepExpired(retention time.Duration, now time.Time) int
	GetRoom(id string) (*RoomDTO, error)
	ListRooms() []RoomDTO
}

type room struct {
	members   map[string]struct{}
	createdAt time.Time
}

type roomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewRoomRegistry() IRoomRegistry {
	return &roomRegistry{rooms: make(map[string]*room)}
}

// ensureLocked creates the room if absent. Caller must hold mu.
func (reg *roomRegistry) ensureLocked(id string) *room {
	r, ok := reg.rooms[id]
	if !ok {
		r = &room{members: make(map[string]struct{}), createdAt: time.Now()}
		reg.rooms[id] = r
	}
	return r
}

// EnsureRoom creates the room if it does not exist yet. Any string is a
// valid identifier; the registry does no format validation.
func (reg *roomRegistry) EnsureRoom(id string) {
	reg.mu.Lock()
	reg.ensureLocked(id)
	reg.mu.Unlock()
}

// AddMember adds connID to the room (creating it first if needed) and
// returns the resulting membership snapshot. Joining twice is a no-op.
func (reg *roomRegistry) AddMember(roomID, connID string) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := reg.ensureLocked(roomID)
	r.members[connID] = struct{}{}
	return memberSnapshot(r)
}

// RemoveMember removes connID from the room, if it is a member, and
// returns the remaining membership. The room itself is retained even when
// it becomes empty; only the sweep deletes rooms.
func (reg *roomRegistry) RemoveMember(roomID, connID string) ([]string, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	delete(r.members, connID)
	return memberSnapshot(r), nil
}

// RoomsContaining returns the identifiers of every room connID is a
// member of, derived by scanning room state. O(rooms), fine at this scale.
func (reg *roomRegistry) RoomsContaining(connID string) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var ids []string
	for id, r := range reg.rooms {
		if _, ok := r.members[connID]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// SweepExpired deletes every room that is empty and older than the
// retention window, measured from its creation time. Returns the number
// of rooms deleted.
func (reg *roomRegistry) SweepExpired(retention time.Duration, now time.Time) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	deleted := 0
	for id, r := range reg.rooms {
		if len(r.members) == 0 && now.Sub(r.createdAt) > retention {
			delete(reg.rooms, id)
			deleted++
		}
	}
	return deleted
}

func (reg *roomRegistry) GetRoom(id string) (*RoomDTO, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &RoomDTO{ID: id, ActiveUsers: memberSnapshot(r), CreatedAt: r.createdAt}, nil
}

func (reg *roomRegistry) ListRooms() []RoomDTO {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]RoomDTO, 0, len(reg.rooms))
	for id, r := range reg.rooms {
		out = append(out, RoomDTO{ID: id, ActiveUsers: memberSnapshot(r), CreatedAt: r.createdAt})
	}
	return out
}

func memberSnapshot(r *room) []string {
	out := make([]string, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}
