package notify

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the scheduler over HTTP.
type Handler struct {
	sched *Scheduler
}

func NewHandler(s *Scheduler) *Handler {
	return &Handler{sched: s}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.List)
	api.POST("/notifications", h.Add)
	api.GET("/notifications/unread-count", h.UnreadCount)
	api.POST("/notifications/read-all", h.MarkAllAsRead)
	api.POST("/notifications/:id/read", h.MarkAsRead)
	api.DELETE("/notifications/:id", h.Remove)
	api.DELETE("/notifications", h.ClearAll)
	api.GET("/notification-preferences", h.GetPreferences)
	api.PATCH("/notification-preferences", h.UpdatePreferences)
}

func (h *Handler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sched.Notifications())
}

func (h *Handler) Add(c echo.Context) error {
	var in NewNotification
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n := h.sched.Add(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) UnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"unread": h.sched.UnreadCount()})
}

func (h *Handler) MarkAsRead(c echo.Context) error {
	h.sched.MarkAsRead(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllAsRead(c echo.Context) error {
	h.sched.MarkAllAsRead()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Remove(c echo.Context) error {
	h.sched.Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearAll(c echo.Context) error {
	h.sched.ClearAll()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetPreferences(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sched.Preferences())
}

func (h *Handler) UpdatePreferences(c echo.Context) error {
	var p PreferencesPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.sched.UpdatePreferences(p)
	return c.JSON(http.StatusOK, h.sched.Preferences())
}
