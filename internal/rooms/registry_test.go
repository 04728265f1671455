package rooms_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"whiteboardgo/internal/rooms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember_Idempotent(t *testing.T) {
	reg := rooms.NewRoomRegistry()

	members := reg.AddMember("abc123", "C1")
	assert.Equal(t, []string{"C1"}, members)

	// Joining again with the same connection must not duplicate it.
	members = reg.AddMember("abc123", "C1")
	assert.Equal(t, []string{"C1"}, members)
}

func TestRemoveMember_RetainsEmptyRoom(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.AddMember("abc123", "C1")

	members, err := reg.RemoveMember("abc123", "C1")
	require.NoError(t, err)
	assert.Empty(t, members)

	// Empty is only a deletion candidate; the room must survive until the
	// sweep decides otherwise.
	dto, err := reg.GetRoom("abc123")
	require.NoError(t, err)
	assert.Empty(t, dto.ActiveUsers)
}

func TestRemoveMember_UnknownRoom(t *testing.T) {
	reg := rooms.NewRoomRegistry()

	_, err := reg.RemoveMember("nope", "C1")
	assert.True(t, errors.Is(err, rooms.ErrRoomNotFound))
}

func TestRemoveMember_NonMemberIsNoop(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.AddMember("abc123", "C1")

	members, err := reg.RemoveMember("abc123", "C2")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, members)
}

func TestRoomsContaining_MultipleRooms(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.AddMember("roomA", "C1")
	reg.AddMember("roomB", "C1")
	reg.AddMember("roomC", "C2")

	got := reg.RoomsContaining("C1")
	assert.ElementsMatch(t, []string{"roomA", "roomB"}, got)

	assert.Empty(t, reg.RoomsContaining("C3"))
}

func TestSweepExpired_RetentionBoundary(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.EnsureRoom("abc123")

	dto, err := reg.GetRoom("abc123")
	require.NoError(t, err)
	createdAt := dto.CreatedAt

	// Just inside the window: kept.
	deleted := reg.SweepExpired(24*time.Hour, createdAt.Add(23*time.Hour+59*time.Minute))
	assert.Zero(t, deleted)
	_, err = reg.GetRoom("abc123")
	assert.NoError(t, err)

	// Just past the window: deleted.
	deleted = reg.SweepExpired(24*time.Hour, createdAt.Add(24*time.Hour+1*time.Minute))
	assert.Equal(t, 1, deleted)
	_, err = reg.GetRoom("abc123")
	assert.True(t, errors.Is(err, rooms.ErrRoomNotFound))
}

func TestSweepExpired_NeverDeletesOccupied(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.AddMember("busy", "C1")

	deleted := reg.SweepExpired(0, time.Now().Add(100*365*24*time.Hour))
	assert.Zero(t, deleted)

	_, err := reg.GetRoom("busy")
	assert.NoError(t, err)
}

func TestConcurrentJoin_SingleRoom(t *testing.T) {
	reg := rooms.NewRoomRegistry()

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			reg.AddMember("fresh", fmt.Sprintf("C%d", i))
		}(i)
	}
	wg.Wait()

	// All joiners must land in one and the same room record.
	dto, err := reg.GetRoom("fresh")
	require.NoError(t, err)
	assert.Len(t, dto.ActiveUsers, n)
	assert.Len(t, reg.ListRooms(), 1)
}
