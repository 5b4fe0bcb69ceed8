package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/models"
	"github.com/emeralddgc/disc-tracker/internal/query"
)

const requestTimeout = 3 * time.Second

// DiscHandler serves the public intake and listing endpoints.
type DiscHandler struct {
	service service.DiscServiceIface
	logger  *zap.Logger
}

func NewDisc(s service.DiscServiceIface, l *zap.Logger) *DiscHandler {
	return &DiscHandler{
		service: s,
		logger:  l,
	}
}

// Create handles POST /discs.
func (h *DiscHandler) Create(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var request models.CreateDiscRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	record, err := h.service.Create(ctx, request)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, record)
}

// List handles GET /discs. Only active (not returned) discs are visible
// on the public listing.
func (h *DiscHandler) List(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	o := query.Parse(req.URL.Query())
	o.Filter = query.FilterActive

	records, err := h.service.List(ctx, o)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	res.Header().Set("X-Disc-Count", strconv.Itoa(len(records)))
	writeJSON(res, http.StatusOK, records)
}

// Types handles GET /discs/types.
func (h *DiscHandler) Types(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	types, err := h.service.DiscTypes(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	entries := make([]models.DiscTypeEntry, 0, len(types))
	for _, t := range types {
		entries = append(entries, models.DiscTypeEntry{Type: t})
	}
	writeJSON(res, http.StatusOK, entries)
}

// Colors handles GET /discs/colors.
func (h *DiscHandler) Colors(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	colors, err := h.service.DiscColors(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	entries := make([]models.DiscColorEntry, 0, len(colors))
	for _, c := range colors {
		entries = append(entries, models.DiscColorEntry{Color: c})
	}
	writeJSON(res, http.StatusOK, entries)
}
