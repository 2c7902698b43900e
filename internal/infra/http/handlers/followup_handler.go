package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/http/middleware"
	"github.com/followwise/followwise-api/internal/usecase"
)

type FollowUpHandler struct {
	Generate   *usecase.GenerateFollowUpsUseCase
	List       *usecase.ListFollowUpsUseCase
	Regenerate *usecase.RequestRegenerationUseCase
}

func NewFollowUpHandler(generate *usecase.GenerateFollowUpsUseCase, list *usecase.ListFollowUpsUseCase, regenerate *usecase.RequestRegenerationUseCase) *FollowUpHandler {
	return &FollowUpHandler{Generate: generate, List: list, Regenerate: regenerate}
}

type generateRequest struct {
	Context string `json:"context"`
	Tone    string `json:"tone"`
}

// HandleGenerate handles POST /api/leads/{leadID}/generate-followups.
func (h *FollowUpHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	batch, err := h.Generate.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	out := usecase.GenerateFollowUpsOutput{Suggestions: make([]entity.FollowUpVariant, 0, len(batch))}
	for _, s := range batch {
		out.Suggestions = append(out.Suggestions, entity.FollowUpVariant{
			VariantIndex: s.VariantIndex,
			Subject:      s.Subject,
			Body:         s.Body,
			Tone:         s.Tone,
		})
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleList handles GET /api/leads/{leadID}/followups.
func (h *FollowUpHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	batch, err := h.List.Execute(r.Context(), chi.URLParam(r, "leadID"), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// HandleRegenerateAsync handles POST /api/leads/{leadID}/regenerate-async.
func (h *FollowUpHandler) HandleRegenerateAsync(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	if h.Regenerate == nil {
		writeError(w, usecase.ErrQueueUnavailable)
		return
	}

	job, err := h.Regenerate.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"lead_id": job.LeadID,
		"tone":    job.Tone,
	})
}

// decodeInput rejects unknown tones here so the provider is never reached.
func (h *FollowUpHandler) decodeInput(w http.ResponseWriter, r *http.Request) (usecase.GenerateFollowUpsInput, bool) {
	user, _ := middleware.UserFromContext(r.Context())

	var req generateRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return usecase.GenerateFollowUpsInput{}, false
		}
	}
	if errs := usecase.ValidateTone(req.Tone); len(errs) > 0 {
		writeError(w, usecase.ValidationErrors(errs))
		return usecase.GenerateFollowUpsInput{}, false
	}

	return usecase.GenerateFollowUpsInput{
		LeadID:  chi.URLParam(r, "leadID"),
		UserID:  user.ID,
		Context: req.Context,
		Tone:    req.Tone,
	}, true
}
