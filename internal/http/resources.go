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

// ResourcesHandler handles the reference-resource catalog CRUD.
type ResourcesHandler struct {
	CatalogService *service.CatalogService
}

// ResourceRequest is the create/update body for a resource.
type ResourceRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Year    int    `json:"year"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	URL     string `json:"url"`
}

func (req ResourceRequest) toDomain() domain.Resource {
	return domain.Resource{
		Title:   req.Title,
		Author:  req.Author,
		Year:    req.Year,
		Type:    req.Type,
		Subject: req.Subject,
		URL:     req.URL,
	}
}

// HandleList handles GET /api/resources
//
//	@Summary	List resources
//	@Tags		Resources
//	@Produce	json
//	@Success	200	{array}		domain.Resource
//	@Failure	500	{object}	map[string]string
//	@Router		/api/resources [get].
func (h *ResourcesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resources, err := h.CatalogService.ListResources(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list resources", "err", err)
		httpx.InternalError(w, "failed to list resources", err)
		return
	}
	if resources == nil {
		resources = []domain.Resource{}
	}
	httpx.WriteJSON(w, http.StatusOK, resources)
}

// HandleGet handles GET /api/resources/{id}
//
//	@Summary	Get a resource
//	@Tags		Resources
//	@Produce	json
//	@Param		id	path		string	true	"Resource id"
//	@Success	200	{object}	domain.Resource
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/resources/{id} [get].
func (h *ResourcesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.CatalogService.GetResource(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "resource not found")
	case err != nil:
		httpx.InternalError(w, "failed to load resource", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}

// HandleCreate handles POST /api/resources
//
//	@Summary	Add a resource
//	@Tags		Resources
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ResourceRequest	true	"Resource details"
//	@Success	201		{object}	domain.Resource
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/resources [post].
func (h *ResourcesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.CatalogService.CreateResource(r.Context(), req.toDomain())
	switch {
	case errors.Is(err, service.ErrMissingTitle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slogx.FromContext(r.Context()).Error("failed to create resource", "err", err)
		httpx.InternalError(w, "failed to create resource", err)
	default:
		httpx.WriteJSON(w, http.StatusCreated, res)
	}
}

// HandleUpdate handles PUT /api/resources/{id}
//
//	@Summary	Update a resource
//	@Tags		Resources
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Resource id"
//	@Param		request	body		ResourceRequest	true	"Resource details"
//	@Success	200		{object}	domain.Resource
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/resources/{id} [put].
func (h *ResourcesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := req.toDomain()
	res.ID = r.PathValue("id")

	updated, err := h.CatalogService.UpdateResource(r.Context(), res)
	switch {
	case errors.Is(err, service.ErrMissingTitle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "resource not found")
	case err != nil:
		httpx.InternalError(w, "failed to update resource", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, updated)
	}
}

// HandleDelete handles DELETE /api/resources/{id}
//
//	@Summary	Delete a resource
//	@Tags		Resources
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Resource id"
//	@Success	200	{object}	map[string]bool	"ok"
//	@Failure	401	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/resources/{id} [delete].
func (h *ResourcesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.CatalogService.DeleteResource(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "resource not found")
	case err != nil:
		httpx.InternalError(w, "failed to delete resource", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
