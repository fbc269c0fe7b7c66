// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/fiesta/internal/adapters/transport"
	service "github.com/okian/fiesta/internal/app"
	"github.com/okian/fiesta/internal/domain/model"
)

// UpdatesHandler handles inbound conversation updates from the gateway.
type UpdatesHandler struct {
	deps Dependencies
}

// NewUpdatesHandler creates a new updates handler.
func NewUpdatesHandler(deps Dependencies) *UpdatesHandler {
	return &UpdatesHandler{deps: deps}
}

// updateRequest is the wire shape of POST /updates.
type updateRequest struct {
	UpdateID   string `json:"update_id"`
	ExternalID string `json:"external_id"`
	Text       string `json:"text"`
}

func (u updateRequest) validate() error {
	switch {
	case strings.TrimSpace(u.UpdateID) == "":
		return errors.New("missing update_id")
	case strings.TrimSpace(u.ExternalID) == "":
		return errors.New("missing external_id")
	}
	return nil
}

// updateResponse carries the reply payload back to the gateway.
type updateResponse struct {
	Duplicate bool        `json:"duplicate"`
	Reply     model.Reply `json:"reply"`
}

// HandlePostUpdate handles POST /updates requests.
func (h *UpdatesHandler) HandlePostUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_update"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check first: a redelivered update is acknowledged
	// without running the state machine again.
	if h.deps.SeenAndRecord(r.Context(), req.UpdateID) {
		writeJSON(w, http.StatusOK, updateResponse{Duplicate: true})
		return
	}

	update := model.Update{
		UpdateID:   req.UpdateID,
		ExternalID: req.ExternalID,
		Text:       req.Text,
	}
	reply, err := h.deps.Submit(r.Context(), update, transport.Decode(req.Text))
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		// Submit already unrecorded the id on backpressure; other errors
		// keep it recorded so a retry with a fresh id is required.
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Duplicate: false, Reply: reply})
}
