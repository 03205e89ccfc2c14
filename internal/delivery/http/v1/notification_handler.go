package v1

import (
	"net/http"
	"strconv"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(r *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	n := r.Group("/notifications")
	{
		n.GET("", handler.List)
		n.PATCH("/:id/read", handler.MarkRead)
		n.POST("/read-all", handler.MarkAllRead)
	}
}

// List godoc
// @Summary      My notifications
// @Tags         notifications
// @Produce      json
// @Param        unread  query     bool  false  "Only unread"
// @Success      200     {object}  response.Response{data=[]domain.Notification}
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	items, err := h.notificationUC.List(c.Request.Context(), unread)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications retrieved", items)
}

// MarkRead godoc
// @Summary      Mark one notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [patch]
// @Security     BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationUC.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/read-all [post]
// @Security     BearerAuth
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notificationUC.MarkAllRead(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": n})
}
