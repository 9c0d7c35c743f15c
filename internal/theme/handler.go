package theme

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/server"
)

const maxBodyBytes = 1 << 20

// Renderer compiles the stylesheet for a page. Defined here (consumer-side)
// so this package does not depend on the compiler.
type Renderer interface {
	Render(ctx context.Context, page *Page, theme *Theme) string
}

// DesignRequest asks for a theme built from a palette or a cover image.
type DesignRequest struct {
	Colors      []string `json:"colors,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Designer turns a DesignRequest into a theme name and payload.
type Designer interface {
	Design(ctx context.Context, req DesignRequest) (string, ThemeInput)
}

// Result is the envelope returned by mutating endpoints.
type Result struct {
	Success bool   `json:"success"`
	ThemeID string `json:"theme_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves the theme API.
type Handler struct {
	svc      *Service
	renderer Renderer
	designer Designer
	logger   *zap.Logger
}

// NewHandler creates a Handler. renderer and designer are optional; their
// endpoints answer 503 when unset.
func NewHandler(svc *Service, renderer Renderer, designer Designer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, renderer: renderer, designer: designer, logger: logger}
}

// RegisterRoutes mounts the theme API on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/themes", h.handleList)
	mux.HandleFunc("POST /api/v1/themes", h.handleCreate)
	mux.HandleFunc("GET /api/v1/themes/{id}", h.handleGet)
	mux.HandleFunc("PATCH /api/v1/themes/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/themes/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/v1/themes/{id}/clone", h.handleClone)
	mux.HandleFunc("POST /api/v1/themes/resolve", h.handleResolve)
	mux.HandleFunc("POST /api/v1/themes/css", h.handleCSS)
	mux.HandleFunc("POST /api/v1/themes/generate", h.handleGenerate)
}

type createRequest struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	Theme  ThemeInput `json:"theme"`
}

type updateRequest struct {
	UserID string      `json:"user_id"`
	Name   *string     `json:"name,omitempty"`
	Theme  *ThemeInput `json:"theme,omitempty"`
}

type cloneRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

type pageRequest struct {
	Page  Page   `json:"page"`
	Theme *Theme `json:"theme,omitempty"`
}

type generateRequest struct {
	UserID string `json:"user_id"`
	DesignRequest
}

// handleList returns system themes plus the caller's own when user_id is set.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	themes, err := h.svc.GetAvailableThemes(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.logger.Warn("failed to list themes", zap.Error(err))
		server.InternalError(w, "failed to list themes", r.URL.Path)
		return
	}
	if themes == nil {
		themes = []Theme{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": themes, "total": len(themes)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := h.svc.GetCachedTheme(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to get theme", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to get theme", r.URL.Path)
		return
	}
	if t == nil {
		server.NotFound(w, "theme not found", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.CreateTheme(r.Context(), req.UserID, req.Name, req.Theme)
	h.writeCreated(w, id, err)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.svc.UpdateUserTheme(r.Context(), r.PathValue("id"), req.UserID, req.Name, req.Theme) {
		writeJSON(w, http.StatusNotFound, Result{Error: "Theme not found or not editable"})
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, ThemeID: r.PathValue("id")})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.svc.DeleteUserTheme(r.Context(), r.PathValue("id"), r.URL.Query().Get("user_id")) {
		writeJSON(w, http.StatusNotFound, Result{Error: "Theme not found or not editable"})
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true})
}

func (h *Handler) handleClone(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.CloneTheme(r.Context(), r.PathValue("id"), req.UserID, req.Name)
	h.writeCreated(w, id, err)
}

// handleResolve returns the resolved configuration for a posted page.
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.GetThemeConfig(r.Context(), &req.Page, req.Theme))
}

// handleCSS compiles the stylesheet for a posted page.
func (h *Handler) handleCSS(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		server.Unavailable(w, "css compiler not configured", r.URL.Path)
		return
	}
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.renderer.Render(r.Context(), &req.Page, req.Theme)))
}

// handleGenerate builds a theme from a palette or image and saves it for
// the caller.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.designer == nil {
		server.Unavailable(w, "theme generator not configured", r.URL.Path)
		return
	}
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name, input := h.designer.Design(r.Context(), req.DesignRequest)
	id, err := h.svc.CreateTheme(r.Context(), req.UserID, name, input)
	h.writeCreated(w, id, err)
}

func (h *Handler) writeCreated(w http.ResponseWriter, id string, err error) {
	if err == nil {
		writeJSON(w, http.StatusCreated, Result{Success: true, ThemeID: id})
		return
	}

	var terr *Error
	switch {
	case errors.Is(err, ErrLimitExceeded) && errors.As(err, &terr):
		writeJSON(w, http.StatusConflict, Result{Error: terr.Message})
	case errors.Is(err, ErrNotFound) && errors.As(err, &terr):
		writeJSON(w, http.StatusNotFound, Result{Error: terr.Message})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusBadRequest, Result{Error: terr.Message})
	default:
		h.logger.Error("failed to save theme", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Result{Error: "Failed to save theme"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
