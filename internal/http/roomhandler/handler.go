package roomhandler

import (
	"net/http"
	"sort"
	"whiteboardgo/internal/rooms"

	"github.com/gin-gonic/gin"
)

// Handler exposes read-only room introspection. There is deliberately no
// write surface here; rooms are created and mutated only via the relay.
type Handler struct {
	registry rooms.IRoomRegistry
}

func New(registry rooms.IRoomRegistry) *Handler { return &Handler{registry: registry} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", h.list)
	r.GET("/rooms/:id", h.info)
}

// info returns the current snapshot of one room: its members and creation
// time. 404 when the room does not exist (or has already been swept).
func (h *Handler) info(c *gin.Context) {
	dto, err := h.registry.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// list returns a paginated snapshot of all active rooms, ordered by
// identifier for a stable enumeration across requests.
func (h *Handler) list(c *gin.Context) {
	var q ListRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	all := h.registry.ListRooms()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if q.Offset >= len(all) {
		c.JSON(http.StatusOK, []rooms.RoomDTO{})
		return
	}
	end := q.Offset + q.Limit
	if q.Limit == 0 || end > len(all) {
		end = len(all)
	}
	c.JSON(http.StatusOK, all[q.Offset:end])
}
