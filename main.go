package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"whiteboardgo/internal/config"
	"whiteboardgo/internal/http/http_server"
	"whiteboardgo/internal/rooms"
	"whiteboardgo/internal/roomsweep"
	"whiteboardgo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room registry (sole owner of room/membership state)
	roomRegistry := rooms.NewRoomRegistry()

	// 4. Background: hourly sweep of expired empty rooms
	roomsweep.Run(ctx, roomRegistry, cfg.SweepInterval, cfg.RoomRetention)

	// 5. WebSockets relay: hub + event router
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, roomRegistry)

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, roomRegistry)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
