package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"broker/pkg/platform/middleware/admin"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

func (h *Handler) handleListEvidenceCodes(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.GetCatalog(r.Context(), false)
	if err != nil {
		h.writeError(w, r, err, "catalog listing failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListEvidenceCodesForContext(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.GetForServiceContext(r.Context(), chi.URLParam(r, "serviceContext"))
	if err != nil {
		h.writeError(w, r, err, "catalog listing failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListServiceContexts(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toServiceContextResponses(h.contexts.All()))
}

func (h *Handler) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.catalog.GetCatalog(ctx, true)
	if err != nil {
		h.writeError(w, r, err, "catalog refresh failed")
		return
	}
	h.logger.InfoContext(ctx, "catalog refreshed on request",
		"evidence_codes", len(list),
		"actor", admin.ActorID(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, refreshResponse{EvidenceCodes: len(list)})
}
