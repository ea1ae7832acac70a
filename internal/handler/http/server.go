package http

import (
	"ShortLink-Backend/internal/repository"
	"ShortLink-Backend/internal/service"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер. pinger may be nil when the store has no
// health check of its own.
func NewServer(
	registry *service.LinkRegistry,
	resolver *service.RedirectResolver,
	pinger repository.Pinger,
	log *zap.Logger,
	baseURL string,
) *Server {
	return &Server{
		linksHandler:    NewLinksHandler(registry, resolver, log, baseURL),
		redirectHandler: NewRedirectHandler(resolver, log),
		healthHandler:   NewHealthHandler(pinger, log),
		log:             log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger документация
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Links API
	mux.HandleFunc("POST /api/links", s.linksHandler.CreateLink)
	mux.HandleFunc("GET /api/links", s.linksHandler.ListLinks)
	mux.HandleFunc("GET /api/links/{code}", s.linksHandler.GetLink)
	mux.HandleFunc("DELETE /api/links/{code}", s.linksHandler.DeleteLink)
	mux.HandleFunc("POST /api/links/{code}/click", s.linksHandler.RecordClick)

	// Redirect endpoint; literal routes above always win over the wildcard
	mux.HandleFunc("GET /{code}", s.redirectHandler.HandleRedirect)

	return s.withMetrics(s.withRequestLog(withCORS(mux)))
}
