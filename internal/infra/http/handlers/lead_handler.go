package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/followwise/followwise-api/internal/infra/http/middleware"
	"github.com/followwise/followwise-api/internal/usecase"
)

type LeadHandler struct {
	Leads *usecase.ManageLeadsUseCase
}

func NewLeadHandler(leads *usecase.ManageLeadsUseCase) *LeadHandler {
	return &LeadHandler{Leads: leads}
}

// List handles GET /api/leads?skip=&limit=&status=&search=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	q := r.URL.Query()

	leads, err := h.Leads.List(r.Context(), usecase.ListLeadsInput{
		UserID: user.ID,
		Status: q.Get("status"),
		Search: q.Get("search"),
		Skip:   queryInt(r, "skip", 0),
		Limit:  queryInt(r, "limit", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Leads.Create(r.Context(), user.ID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "leadID"), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input usecase.UpdateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Leads.Update(r.Context(), chi.URLParam(r, "leadID"), user.ID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := h.Leads.Delete(r.Context(), chi.URLParam(r, "leadID"), user.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScanInbox handles POST /api/leads/scan-inbox.
func (h *LeadHandler) ScanInbox(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	out, err := h.Leads.ScanInbox(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
