package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
	"github.com/openshelf/openshelf/pkg/slogx"
)

// NotificationsHandler handles sending and reading per-user notifications.
type NotificationsHandler struct {
	NotificationService *service.NotificationService
}

// SendNotificationRequest is the POST /api/notifications body.
type SendNotificationRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// HandleSend handles POST /api/notifications
//
//	@Summary	Send a notification to a user
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SendNotificationRequest	true	"Target user and message"
//	@Success	201		{object}	domain.Notification
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	403		{object}	map[string]string	"Admin role required"
//	@Failure	404		{object}	map[string]string	"Target user not found"
//	@Failure	500		{object}	map[string]string
//	@Router		/api/notifications [post].
func (h *NotificationsHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.NotificationService.Notify(ctx, req.UserID, req.Message)
	switch {
	case errors.Is(err, service.ErrMissingMessage):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "user not found")
	case err != nil:
		log.Error("failed to send notification", "target_user_id", req.UserID, "err", err)
		httpx.InternalError(w, "failed to send notification", err)
	default:
		log.Info("notification sent", "target_user_id", req.UserID)
		httpx.WriteJSON(w, http.StatusCreated, n)
	}
}

// HandleList handles GET /api/notifications
//
//	@Summary	List the caller's notifications
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		domain.Notification	"Newest first"
//	@Failure	401	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/notifications [get].
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.NotificationService.ListForUser(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list notifications", "user_id", userID, "err", err)
		httpx.InternalError(w, "failed to list notifications", err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// HandleMarkRead handles POST /api/notifications/{id}/read
//
//	@Summary	Mark one of the caller's notifications as read
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string			true	"Notification id"
//	@Success	200	{object}	map[string]bool	"ok"
//	@Failure	401	{object}	map[string]string
//	@Failure	404	{object}	map[string]string	"Unknown id or not the caller's notification"
//	@Failure	500	{object}	map[string]string
//	@Router		/api/notifications/{id}/read [post].
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.NotificationService.MarkRead(ctx, r.PathValue("id"), userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "notification not found")
	case err != nil:
		httpx.InternalError(w, "failed to mark notification read", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
