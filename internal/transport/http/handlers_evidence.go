package httptransport

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"broker/internal/evidence/harvest"
	"broker/internal/evidence/models"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

const (
	// SupplierAccessTokenHeader carries a caller-supplied token forwarded to the source.
	SupplierAccessTokenHeader = "X-Supplier-Access-Token"

	queryReuseToken           = "reuseToken"
	queryTokenOnBehalfOfOwner = "tokenOnBehalfOfOwner"
)

// harvestOptions reads token handling from the query string and headers.
func harvestOptions(r *http.Request) harvest.Options {
	q := r.URL.Query()
	return harvest.Options{
		ReuseClientAccessToken:                  queryBool(q.Get(queryReuseToken)),
		FetchSupplierAccessTokenOnBehalfOfOwner: queryBool(q.Get(queryTokenOnBehalfOfOwner)),
		OverriddenAccessToken:                   strings.TrimSpace(r.Header.Get(SupplierAccessTokenHeader)),
	}
}

func queryBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (h *Handler) handleEvidenceStatus(w http.ResponseWriter, r *http.Request) {
	list, err := h.accreditations.Statuses(r.Context(), chi.URLParam(r, "accreditationID"))
	if err != nil {
		h.writeError(w, r, err, "evidence status lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleHarvest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "evidenceCodeName")

	acc, err := h.accreditations.Get(ctx, chi.URLParam(r, "accreditationID"))
	if err != nil {
		h.writeError(w, r, err, "accreditation lookup failed")
		return
	}
	h.harvestAndWrite(w, r, name, acc, harvestOptions(r))
}

// handleDirectHarvest validates and harvests in one call without storing an accreditation.
func (h *Handler) handleDirectHarvest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "evidenceCodeName")
	q := r.URL.Query()

	d, err := h.catalog.Lookup(ctx, name)
	if err != nil {
		h.writeError(w, r, err, "direct harvest of unknown evidence code")
		return
	}
	params, err := queryParameters(r, d)
	if err != nil {
		h.writeError(w, r, err, "invalid direct harvest parameters")
		return
	}

	requestor := strings.TrimSpace(q.Get("requestor"))
	if requestor == "" {
		requestor = requestcontext.AuthenticatedParty(ctx).Key()
	}
	req := &models.AuthorizationRequest{
		Requestor: requestor,
		Subject:   strings.TrimSpace(q.Get("subject")),
		EvidenceRequests: []models.EvidenceRequest{{
			EvidenceCodeName: name,
			Parameters:       params,
		}},
	}
	acc, err := h.authorizer.DirectAccreditation(ctx, req)
	if err != nil {
		h.writeError(w, r, err, "direct harvest authorization failed")
		return
	}

	opts := harvestOptions(r)
	opts.Ephemeral = true
	h.harvestAndWrite(w, r, name, acc, opts)
}

func (h *Handler) handleOpenData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	found, err := h.catalog.Lookup(ctx, chi.URLParam(r, "evidenceCodeName"))
	if err != nil {
		h.writeError(w, r, err, "open data lookup failed")
		return
	}
	d := found.Clone()
	params, err := queryParameters(r, &d)
	if err != nil {
		h.writeError(w, r, err, "invalid open data parameters")
		return
	}
	for i := range d.Parameters {
		for _, p := range params {
			if p.Name == d.Parameters[i].Name {
				d.Parameters[i].Value = p.Value
			}
		}
	}

	ev, err := h.harvester.HarvestOpenData(ctx, &d, chi.URLParam(r, "identifier"))
	if err != nil {
		h.writeError(w, r, err, "open data harvest failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ev)
}

// harvestAndWrite streams binary datasets and buffers everything else.
func (h *Handler) harvestAndWrite(w http.ResponseWriter, r *http.Request, name string, acc *models.Accreditation, opts harvest.Options) {
	ctx := r.Context()
	if stored, ok := acc.EvidenceCode(name); ok && stored.IsStreamed() {
		body, contentType, err := h.harvester.HarvestStream(ctx, name, acc, opts)
		if err != nil {
			h.writeError(w, r, err, "streamed harvest failed")
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			h.logger.WarnContext(ctx, "streamed harvest interrupted",
				"evidence_code", name,
				"accreditation_id", acc.ID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return
	}

	ev, err := h.harvester.Harvest(ctx, name, acc, opts)
	if err != nil {
		h.writeError(w, r, err, "harvest failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ev)
}

// queryParameters reads the dataset's declared parameters from the query
// string, converting number and boolean values.
func queryParameters(r *http.Request, d *models.EvidenceCodeDescriptor) ([]models.EvidenceParameterValue, error) {
	q := r.URL.Query()
	var out []models.EvidenceParameterValue
	for _, p := range d.Parameters {
		raw, ok := q[p.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		v, err := convertParameter(p.Type, raw[0])
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidEvidenceRequestParameter,
				"parameter "+p.Name+" is not a valid "+string(p.Type))
		}
		out = append(out, models.EvidenceParameterValue{Name: p.Name, Value: v})
	}
	return out, nil
}

func convertParameter(t models.ParamType, raw string) (any, error) {
	switch t {
	case models.ParamTypeNumber:
		return strconv.ParseFloat(raw, 64)
	case models.ParamTypeBoolean:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}
