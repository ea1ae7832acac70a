package http

import (
	"ShortLink-Backend/internal/repository"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const version = "1.0.0"

// HealthHandler обработчик health checks
type HealthHandler struct {
	pinger repository.Pinger
	log    *zap.Logger
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(pinger repository.Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		pinger: pinger,
		log:    log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

// ReadyResponse структура ответа readiness probe
type ReadyResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	StoreStatus string    `json:"store_status"`
}

var startTime = time.Now()

// Health liveness probe: процесс жив и обслуживает запросы
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version,
		Uptime:    time.Since(startTime).String(),
	}, http.StatusOK)
}

// Ready readiness probe: проверяем доступность хранилища
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	ReadyResponse
//	@Failure	503	{object}	ReadyResponse
//	@Router		/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := ReadyResponse{
		Status:      "ready",
		Timestamp:   time.Now().UTC(),
		StoreStatus: "healthy",
	}
	statusCode := http.StatusOK

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.log.Warn("store health check failed", zap.Error(err))
			response.Status = "not_ready"
			response.StoreStatus = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, h.log, response, statusCode)
}
