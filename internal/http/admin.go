package http

import (
	"net/http"

	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
	"github.com/openshelf/openshelf/pkg/slogx"
)

// AdminHandler backs the admin dashboard endpoints.
type AdminHandler struct {
	AdminService *service.AdminService
	Store        store.Store
}

// HandleStats handles GET /api/admin/stats
//
//	@Summary	Dashboard counts
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	domain.AdminStats
//	@Failure	401	{object}	map[string]string
//	@Failure	403	{object}	map[string]string	"Admin role required"
//	@Failure	500	{object}	map[string]string
//	@Router		/api/admin/stats [get].
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.AdminService.Stats(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to compute stats", "err", err)
		httpx.InternalError(w, "failed to compute stats", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

// HandleHealth handles GET /api/admin/health
//
//	@Summary	Database health (admin view)
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	DBHealth
//	@Failure	401	{object}	map[string]string
//	@Failure	403	{object}	map[string]string	"Admin role required"
//	@Router		/api/admin/health [get].
func (h *AdminHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, checkDBHealth(r.Context(), h.Store))
}
