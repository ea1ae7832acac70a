package http

import (
	"ShortLink-Backend/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// RedirectHandler обработчик редиректов
type RedirectHandler struct {
	resolver *service.RedirectResolver
	log      *zap.Logger
}

// NewRedirectHandler создает новый обработчик редиректов
func NewRedirectHandler(resolver *service.RedirectResolver, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		log:      log,
	}
}

// HandleRedirect считает клик и отвечает 302 на целевой URL
//
//	@Summary		Follow a short link
//	@Tags			Redirect
//	@Param			code	path	string	true	"Link code"
//	@Success		302		"Redirect to the target URL"
//	@Failure		404		"Unknown code"
//	@Router			/{code} [get]
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.resolver.ResolveAndCount(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrNotFound):
			redirectsTotal.WithLabelValues("not_found").Inc()
			h.log.Debug("code not found", zap.String("code", code))
			http.NotFound(w, r)
		case errors.Is(err, service.ErrStoreUnavailable):
			redirectsTotal.WithLabelValues("error").Inc()
			h.log.Error("failed to process redirect", zap.String("code", code), zap.Error(err))
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			redirectsTotal.WithLabelValues("error").Inc()
			h.log.Error("failed to process redirect", zap.String("code", code), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	redirectsTotal.WithLabelValues("found").Inc()
	h.log.Debug("redirect",
		zap.String("code", code),
		zap.String("target", link.Target),
		zap.Int64("clicks", link.Clicks))

	http.Redirect(w, r, link.Target, http.StatusFound)
}
