package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/models"
	"github.com/emeralddgc/disc-tracker/internal/query"
)

// AdminHandler serves the authorized admin surface: full listings,
// updates, returns, deletes, stats and on-demand retention cleanup.
type AdminHandler struct {
	service service.DiscServiceIface
	logger  *zap.Logger
}

func NewAdmin(s service.DiscServiceIface, l *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: s,
		logger:  l,
	}
}

// List handles GET /admin/discs with search, filterBy and sortBy.
func (h *AdminHandler) List(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	records, err := h.service.List(ctx, query.Parse(req.URL.Query()))
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	res.Header().Set("X-Disc-Count", strconv.Itoa(len(records)))
	writeJSON(res, http.StatusOK, records)
}

// Update handles PATCH /admin/discs/{id}: a partial update where unset
// fields keep their stored value.
func (h *AdminHandler) Update(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	id, err := discID(req)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	var request models.UpdateDiscRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	record, err := h.service.Update(ctx, id, request)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, record)
}

// Return handles PATCH /admin/discs/{id}/return. Marking an already
// returned disc again is not an error.
func (h *AdminHandler) Return(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	id, err := discID(req)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	if err := h.service.MarkReturned(ctx, id); err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, models.MessageResponse{Success: true, Message: "Disc marked as returned"})
}

// Delete handles DELETE /admin/discs/{id}.
func (h *AdminHandler) Delete(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	id, err := discID(req)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, models.MessageResponse{Success: true, Message: "Disc deleted"})
}

// Cleanup handles POST /admin/cleanup and DELETE /admin/discs/expired.
// Both run the same retention policy synchronously.
func (h *AdminHandler) Cleanup(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	affected, err := h.service.Cleanup(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, models.CleanupResponse{
		Success:   true,
		Processed: affected,
		Message:   fmt.Sprintf("Cleanup completed: %d disc(s) processed", affected),
	})
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, stats)
}

// ResendSMS handles POST /admin/discs/{id}/resend-sms. The notification
// subsystem is stubbed; the endpoint only confirms the disc exists.
func (h *AdminHandler) ResendSMS(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	id, err := discID(req)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	if _, err := h.service.GetByID(ctx, id); err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, models.ResendSMSResponse{
		Success:      true,
		SMSDelivered: false,
		Message:      "SMS disabled in this deployment",
	})
}
