package roomsweep

import (
	"context"
	"time"
	"whiteboardgo/internal/rooms"

	"go.uber.org/zap"
)

// Every interval, delete rooms that have been empty past the retention
// window. Pure housekeeping; never touches live connections.
func Run(ctx context.Context, reg rooms.IRoomRegistry, interval, retention time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				sweepOnce(reg, retention)
			}
		}
	}()
}

func sweepOnce(reg rooms.IRoomRegistry, retention time.Duration) {
	if n := reg.SweepExpired(retention, time.Now()); n > 0 {
		zap.L().Info("sweep.tick", zap.Int("rooms_deleted", n))
	}
}
