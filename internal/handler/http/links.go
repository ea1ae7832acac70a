package http

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const maxRequestBody = 1 << 20

// LinksHandler обработчик для работы со ссылками
type LinksHandler struct {
	registry *service.LinkRegistry
	resolver *service.RedirectResolver
	log      *zap.Logger
	baseURL  string
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(registry *service.LinkRegistry, resolver *service.RedirectResolver, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		registry: registry,
		resolver: resolver,
		log:      log,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// CreateLinkRequest структура запроса создания ссылки
type CreateLinkRequest struct {
	Target string `json:"target"`
	Code   string `json:"code,omitempty"`
}

// CreateLinkResponse структура ответа создания ссылки
type CreateLinkResponse struct {
	domain.Link
	ShortURL string `json:"short_url"`
}

// DeleteLinkResponse структура ответа удаления ссылки
type DeleteLinkResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse структура ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateLink создает новую короткую ссылку
//
//	@Summary		Create a short link
//	@Description	Create a link for target. When code is omitted a random 6-character code is generated.
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateLinkRequest	true	"Link creation request"
//	@Success		201		{object}	CreateLinkResponse	"Link created successfully"
//	@Failure		400		{object}	ErrorResponse		"Invalid target or code"
//	@Failure		409		{object}	ErrorResponse		"Code already exists"
//	@Failure		503		{object}	ErrorResponse		"Store unavailable"
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	link, err := h.registry.Create(r.Context(), req.Target, req.Code)
	if err != nil {
		h.writeServiceError(w, err, req.Code)
		return
	}
	linksCreatedTotal.WithLabelValues(creationKind(req.Code)).Inc()

	h.writeJSON(w, CreateLinkResponse{
		Link:     *link,
		ShortURL: h.baseURL + "/" + link.Code,
	}, http.StatusCreated)
}

// ListLinks возвращает все ссылки
//
//	@Summary		List links
//	@Description	Every link, newest first
//	@Tags			Links
//	@Produce		json
//	@Success		200	{array}		domain.Link
//	@Failure		503	{object}	ErrorResponse	"Store unavailable"
//	@Router			/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.registry.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}

	h.writeJSON(w, links, http.StatusOK)
}

// GetLink возвращает ссылку по коду
//
//	@Summary		Get a link
//	@Tags			Links
//	@Produce		json
//	@Param			code	path		string	true	"Link code"
//	@Success		200		{object}	domain.Link
//	@Failure		404		{object}	ErrorResponse	"Link not found"
//	@Router			/api/links/{code} [get]
func (h *LinksHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.registry.Get(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, err, code)
		return
	}

	h.writeJSON(w, link, http.StatusOK)
}

// DeleteLink удаляет ссылку
//
//	@Summary		Delete a link
//	@Tags			Links
//	@Produce		json
//	@Param			code	path		string	true	"Link code"
//	@Success		200		{object}	DeleteLinkResponse
//	@Failure		404		{object}	ErrorResponse	"Link not found"
//	@Router			/api/links/{code} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	n, err := h.registry.Delete(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, err, code)
		return
	}
	if n == 0 {
		h.writeError(w, "Link not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, DeleteLinkResponse{OK: true}, http.StatusOK)
}

// RecordClick засчитывает клик без редиректа
//
//	@Summary		Record a click
//	@Description	Count a click for clients that resolve the target themselves
//	@Tags			Links
//	@Produce		json
//	@Param			code	path		string	true	"Link code"
//	@Success		200		{object}	domain.Link
//	@Failure		404		{object}	ErrorResponse	"Link not found"
//	@Router			/api/links/{code}/click [post]
func (h *LinksHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.resolver.ResolveAndCount(r.Context(), code)
	if err != nil {
		// a malformed code cannot exist
		if errors.Is(err, service.ErrInvalidCode) {
			err = service.ErrNotFound
		}
		h.writeServiceError(w, err, code)
		return
	}

	h.writeJSON(w, link, http.StatusOK)
}

// Helper methods

func (h *LinksHandler) writeServiceError(w http.ResponseWriter, err error, code string) {
	switch {
	case errors.Is(err, service.ErrInvalidTarget), errors.Is(err, service.ErrInvalidCode):
		h.log.Debug("rejected link request", zap.String("code", code), zap.Error(err))
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCodeConflict):
		h.log.Debug("code conflict", zap.String("code", code))
		h.writeError(w, service.ErrCodeConflict.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrNotFound):
		h.log.Debug("link not found", zap.String("code", code))
		h.writeError(w, "Link not found", http.StatusNotFound)
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error("link store failed", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.log.Error("unexpected error", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *LinksHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, h.log, data, statusCode)
}

func (h *LinksHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, h.log, ErrorResponse{Error: message}, statusCode)
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn("failed to encode response", zap.Error(err))
	}
}

func creationKind(code string) string {
	if code == "" {
		return "generated"
	}
	return "custom"
}
