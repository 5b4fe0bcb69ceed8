package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/app/service"
)

// MetaHandler serves the liveness probe and the storage ping.
type MetaHandler struct {
	service service.DiscServiceIface
	logger  *zap.Logger
}

func NewMeta(s service.DiscServiceIface, l *zap.Logger) *MetaHandler {
	return &MetaHandler{
		service: s,
		logger:  l,
	}
}

// Health handles GET /healthz, always 200.
func (h *MetaHandler) Health(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
	}{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}

// Ping handles GET /ping and reports storage reachability.
func (h *MetaHandler) Ping(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		writeError(res, http.StatusInternalServerError, "storage unavailable")
		return
	}

	res.WriteHeader(http.StatusOK)
}
