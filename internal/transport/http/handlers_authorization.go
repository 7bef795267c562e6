package httptransport

import (
	"net/http"

	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeAndValidate[AuthorizationRequest](r, dErrors.CodeInvalidAuthorizationRequest)
	if err != nil {
		h.writeError(w, r, err, "invalid authorization request")
		return
	}

	acc, err := h.authorizer.Authorize(ctx, req.toModel())
	if err != nil {
		h.writeError(w, r, err, "authorization failed")
		return
	}

	h.logger.InfoContext(ctx, "authorization granted",
		"accreditation_id", acc.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	w.Header().Set("Location", "/accreditations/"+acc.ID)
	httputil.WriteJSON(w, http.StatusCreated, acc)
}
