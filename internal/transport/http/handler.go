// Package httptransport is the broker's HTTP surface. Handlers translate
// requests into service calls and domain errors into the broker error body.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

// Handler holds the services behind the broker endpoints.
type Handler struct {
	authorizer     Authorizer
	accreditations Accreditations
	harvester      Harvester
	catalog        Catalog
	contexts       ServiceContexts
	logger         *slog.Logger
	development    bool
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithDevelopmentMode adds the underlying error chain to error bodies.
func WithDevelopmentMode(enabled bool) Option {
	return func(h *Handler) {
		h.development = enabled
	}
}

func NewHandler(authorizer Authorizer, accreditations Accreditations, harvester Harvester, catalog Catalog, contexts ServiceContexts, opts ...Option) *Handler {
	h := &Handler{
		authorizer:     authorizer,
		accreditations: accreditations,
		harvester:      harvester,
		catalog:        catalog,
		contexts:       contexts,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterPublic mounts endpoints that need no authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/metadata/evidencecodes", h.handleListEvidenceCodes)
	r.Get("/metadata/evidencecodes/{serviceContext}", h.handleListEvidenceCodesForContext)
	r.Get("/metadata/servicecontexts", h.handleListServiceContexts)
	r.Get("/opendata/{evidenceCodeName}", h.handleOpenData)
	r.Get("/opendata/{evidenceCodeName}/{identifier}", h.handleOpenData)
}

// RegisterAuthenticated mounts endpoints that act on behalf of the token consumer.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/authorization", h.handleAuthorize)
	r.Get("/evidence/{accreditationID}", h.handleEvidenceStatus)
	r.Get("/evidence/{accreditationID}/{evidenceCodeName}", h.handleHarvest)
	r.Get("/directharvest/{evidenceCodeName}", h.handleDirectHarvest)
	r.Get("/accreditations", h.handleQueryAccreditations)
	r.Get("/accreditations/{accreditationID}", h.handleGetAccreditation)
	r.Delete("/accreditations/{accreditationID}", h.handleDeleteAccreditation)
	r.Post("/accreditations/{accreditationID}/consent", h.handleConsentAnswer)
}

// RegisterAdmin mounts operator endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/evidencecodes/refresh", h.handleRefreshCatalog)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	if h.development {
		httputil.WriteErrorWithDetails(w, err)
		return
	}
	httputil.WriteError(w, err)
}
