package http

import (
	"net/http"

	"coop-lending/internal/adapter/middleware"
	notificationUC "coop-lending/internal/usecase/notification"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	uc  *notificationUC.Usecase
	log logrus.FieldLogger
}

func NewNotificationHandler(uc *notificationUC.Usecase, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

func (h *NotificationHandler) Inbox(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var unread bool
	if err := echo.QueryParamsBinder(c).Bool("unread", &unread).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unread must be true or false"})
	}
	out, err := h.uc.Inbox(c.Request().Context(), actor.MemberID, unread)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	n, err := h.uc.MarkRead(c.Request().Context(), c.Param("notification_id"), actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, n)
}
