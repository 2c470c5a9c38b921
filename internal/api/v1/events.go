package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/vaultimg/internal/events"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	items, err := s.deps.EventLog.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{
		Items: make([]EventResponse, len(items)),
		Total: len(items),
		Limit: limit,
	}
	for i, e := range items {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listImportEvents(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	items, err := s.deps.EventLog.ForEntity(events.EntityImport, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Import not found")
		return
	}

	resp := listEventsResponse{
		Items: make([]EventResponse, len(items)),
		Total: len(items),
		Limit: len(items),
	}
	for i, e := range items {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
