package roomsweep_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"whiteboardgo/internal/rooms"
	"whiteboardgo/internal/roomsweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DeletesExpiredEmptyRooms(t *testing.T) {
	reg := rooms.NewRoomRegistry()
	reg.EnsureRoom("stale")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Zero retention: any empty room is expired on the next tick.
	roomsweep.Run(ctx, reg, 10*time.Millisecond, 0)

	require.Eventually(t, func() bool {
		_, err := reg.GetRoom("stale")
		return errors.Is(err, rooms.ErrRoomNotFound)
	}, time.Second, 5*time.Millisecond)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	reg := rooms.NewRoomRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	roomsweep.Run(ctx, reg, 10*time.Millisecond, 0)
	cancel()

	// A room created after cancellation must never be swept.
	time.Sleep(20 * time.Millisecond)
	reg.EnsureRoom("fresh")
	time.Sleep(50 * time.Millisecond)

	_, err := reg.GetRoom("fresh")
	assert.NoError(t, err)
}
