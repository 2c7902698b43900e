package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/followwise/followwise-api/internal/infra/http/middleware"
	"github.com/followwise/followwise-api/internal/usecase"
)

type SentEmailHandler struct {
	Send *usecase.SendEmailUseCase
	List *usecase.ListSentEmailsUseCase
}

func NewSentEmailHandler(send *usecase.SendEmailUseCase, list *usecase.ListSentEmailsUseCase) *SentEmailHandler {
	return &SentEmailHandler{Send: send, List: list}
}

// HandleSend handles POST /api/leads/{leadID}/send-email.
func (h *SentEmailHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input usecase.SendEmailInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "leadID")
	input.UserID = user.ID

	record, err := h.Send.Execute(r.Context(), input)
	if err != nil {
		// The failed attempt is logged; surface it alongside the error.
		if record != nil && errors.Is(err, usecase.ErrDeliveryFailed) {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"code":    usecase.CodeDeliveryFailed,
				"message": usecase.ErrDeliveryFailed.Message,
				"log":     record,
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// HandleListForLead handles GET /api/leads/{leadID}/sent-emails.
func (h *SentEmailHandler) HandleListForLead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	logs, err := h.List.ForLead(r.Context(), chi.URLParam(r, "leadID"), user.ID, queryInt(r, "skip", 0), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleListForUser handles GET /api/sent-emails.
func (h *SentEmailHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	logs, err := h.List.ForUser(r.Context(), user.ID, queryInt(r, "skip", 0), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
