package ws

import (
	"context"
	"net/http"
	"time"
	"whiteboardgo/internal/rooms"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be < pongWait
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev‑only
}

// ConnContext carries the per-event connection state handed to handlers.
// Room is the envelope's room identifier and may name a room the
// connection never joined; handlers treat that as benign.
type ConnContext struct {
	ConnID string
	Room   string
}

type WsServer struct {
	hub      *Hub
	router   *Router
	registry rooms.IRoomRegistry
}

func NewWsServer(h *Hub, registry rooms.IRoomRegistry) *WsServer {
	srv := &WsServer{
		hub:      h,
		router:   NewRouter(),
		registry: registry,
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}

	// ─────────────────── Client connected ────────────────────────
	conn := &clientConn{id: uuid.NewString(), rawConn: rawConn}
	s.hub.Add(conn)

	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 joinRoom ------------------------------------------------------------
	Register(
		s.router,
		"joinRoom",
		func(ctx context.Context, cc *ConnContext, _ struct{}) (JoinRoomAck, error) {
			s.registry.EnsureRoom(cc.Room)
			members := s.registry.AddMember(cc.Room, cc.ConnID)
			// The joiner gets this too; everyone needs the canonical list.
			s.broadcast(cc.Room, "", "userJoined",
				PresenceBody{UserID: cc.ConnID, ActiveUsers: members})
			return JoinRoomAck{Success: true, ActiveUsers: members}, nil
		},
	)

	// 🔹 draw ----------------------------------------------------------------
	Register(
		s.router,
		"draw",
		func(ctx context.Context, cc *ConnContext, seg DrawPoint) (any, error) {
			s.broadcast(cc.Room, cc.ConnID, "draw", seg)
			return nil, nil
		},
	)

	// 🔹 leaveRoom -----------------------------------------------------------
	Register(
		s.router,
		"leaveRoom",
		func(ctx context.Context, cc *ConnContext, _ struct{}) (any, error) {
			s.leaveRoom(cc.ConnID, cc.Room)
			return nil, nil
		},
	)
}

// leaveRoom removes the connection from one room and notifies whoever is
// left. An absent room or membership is a benign no-op.
func (s *WsServer) leaveRoom(connID, roomID string) {
	members, err := s.registry.RemoveMember(roomID, connID)
	if err != nil {
		return
	}
	if len(members) > 0 {
		s.broadcast(roomID, connID, "userLeft",
			PresenceBody{UserID: connID, ActiveUsers: members})
	}
}

// broadcast fans body out to the room's current members, minus `exclude`.
// Unknown rooms are silently skipped.
func (s *WsServer) broadcast(roomID, exclude, event string, body any) {
	dto, err := s.registry.GetRoom(roomID)
	if err != nil {
		return
	}
	s.hub.Broadcast(dto.ActiveUsers, exclude, map[string]any{
		"event": event,
		"body":  body,
	})
}

// disconnect removes the connection from every room it was in. Safe to
// reach twice: the second pass finds no membership and does nothing.
func (s *WsServer) disconnect(conn *clientConn) {
	for _, roomID := range s.registry.RoomsContaining(conn.id) {
		s.leaveRoom(conn.id, roomID)
	}
	s.hub.Remove(conn.id)
}

func (s *WsServer) reader(conn *clientConn) {
	defer s.disconnect(conn)

	conn.rawConn.SetReadLimit(maxMessageSize)
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		cc := &ConnContext{ConnID: conn.id, Room: env.Room}

		ctx, cancel := context.WithTimeout(context.Background(), 1900*time.Millisecond)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// A bad frame must never take the reader down; drop and move on.
		if err != nil {
			zap.L().Debug("ws.dispatch", zap.String("event", env.Event), zap.Error(err))
			continue
		}

		// ---- reply -> {"event":"<evt>-ack", "body":{...}} ----------
		if res != nil {
			_ = conn.writeJSON(map[string]any{
				"event": env.Event + "-ack",
				"body":  res,
			})
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.write(websocket.PingMessage, nil); err != nil {
			return // connection gone; reader handles cleanup
		}
	}
}
