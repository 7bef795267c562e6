package httptransport

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"broker/internal/accreditation"
	"broker/internal/evidence/models"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/httputil"
)

func (h *Handler) handleQueryAccreditations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := accreditation.QueryParams{Requestor: strings.TrimSpace(q.Get("requestor"))}
	if raw := q.Get("changedAfter"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, r, dErrors.New(dErrors.CodeInvalidAuthorizationRequest, "changedAfter must be an RFC 3339 timestamp"), "invalid accreditation query")
			return
		}
		params.ChangedAfter = &t
	}

	list, err := h.accreditations.Query(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err, "accreditation query failed")
		return
	}
	if list == nil {
		list = []*models.Accreditation{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetAccreditation(w http.ResponseWriter, r *http.Request) {
	acc, err := h.accreditations.Get(r.Context(), chi.URLParam(r, "accreditationID"))
	if err != nil {
		h.writeError(w, r, err, "accreditation lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) handleDeleteAccreditation(w http.ResponseWriter, r *http.Request) {
	if err := h.accreditations.Delete(r.Context(), chi.URLParam(r, "accreditationID")); err != nil {
		h.writeError(w, r, err, "accreditation delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConsentAnswer(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeAndValidate[ConsentAnswerRequest](r, dErrors.CodeInvalidAuthorizationRequest)
	if err != nil {
		h.writeError(w, r, err, "invalid consent answer")
		return
	}
	acc, err := h.accreditations.UpdateConsent(r.Context(), chi.URLParam(r, "accreditationID"), accreditation.ConsentAnswer{
		AuthorizationCode: req.AuthorizationCode,
		Denied:            req.Denied,
	})
	if err != nil {
		h.writeError(w, r, err, "consent answer rejected")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, acc)
}
