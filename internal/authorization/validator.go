package authorization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"broker/internal/evidence/models"
	"broker/internal/sentinel"
	"broker/pkg/domain"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/requestcontext"
)

const (
	// DefaultValidity applies when the caller does not ask for a validity end.
	DefaultValidity = 90 * 24 * time.Hour
	// MaxValidity bounds any validity end.
	MaxValidity = 730 * 24 * time.Hour
	// MinValidity is the earliest acceptable validity end, relative to now.
	MinValidity = time.Minute
)

// Validation is the outcome of a successful Validate call.
type Validation struct {
	request        *models.AuthorizationRequest
	serviceContext string
	evidenceCodes  []models.EvidenceCodeDescriptor
	validTo        time.Time
	skipped        map[string]models.Requirement
}

// Request is the validated request with parties resolved and skipped datasets removed.
func (v *Validation) Request() *models.AuthorizationRequest { return v.request }

// EvidenceCodes are the catalog descriptors of the datasets that remain granted.
func (v *Validation) EvidenceCodes() []models.EvidenceCodeDescriptor { return v.evidenceCodes }

// ValidTo is the computed validity end.
func (v *Validation) ValidTo() time.Time { return v.validTo }

// SkippedEvidenceCodes maps each dropped dataset to the Skip requirement that dropped it.
func (v *Validation) SkippedEvidenceCodes() map[string]models.Requirement { return v.skipped }

func (v *Validation) ServiceContext() string { return v.serviceContext }

// Validator checks authorization requests. It is stateless; each call returns
// its own Validation.
type Validator struct {
	catalog  Catalog
	policy   PolicyEngine
	registry EntityRegistry
	contexts ServiceContexts
	now      func() time.Time
	logger   *slog.Logger
}

type ValidatorOption func(*Validator)

func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithValidatorClock injects the time source used for validity computation.
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(catalog Catalog, policy PolicyEngine, registry EntityRegistry, contexts ServiceContexts, opts ...ValidatorOption) *Validator {
	if catalog == nil || policy == nil || registry == nil || contexts == nil {
		panic("authorization.NewValidator: catalog, policy engine, entity registry and service contexts are required")
	}
	v := &Validator{
		catalog:  catalog,
		policy:   policy,
		registry: registry,
		contexts: contexts,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the full pipeline for a new authorization. req is modified in
// place: parties are resolved and skipped datasets are removed.
func (v *Validator) Validate(ctx context.Context, req *models.AuthorizationRequest) (*Validation, error) {
	return v.validate(ctx, req, false)
}

// ValidateForHarvest re-validates on behalf of a harvester. Requirements settled
// at issuance (consent, legal basis, reference format) are not evaluated.
func (v *Validator) ValidateForHarvest(ctx context.Context, req *models.AuthorizationRequest) (*Validation, error) {
	return v.validate(ctx, req, true)
}

func (v *Validator) validate(ctx context.Context, req *models.AuthorizationRequest, harvest bool) (*Validation, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeInvalidAuthorizationRequest, "authorization request is required")
	}
	scName := requestcontext.ServiceContext(ctx)
	sc, ok := v.contexts.Get(scName)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidAuthorizationRequest, fmt.Sprintf("unknown service context %q", scName))
	}

	requestor, err := domain.ParseParty(req.Requestor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidRequestor, "invalid requestor")
	}
	req.RequestorParty = requestor

	req.SubjectParty = nil
	if strings.TrimSpace(req.Subject) != "" {
		subject, err := domain.ParseParty(req.Subject)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidSubject, "invalid subject")
		}
		req.SubjectParty = &subject
	}

	if err := validateLegalBasisList(req); err != nil {
		return nil, err
	}
	if err := validateEvidenceRequests(req); err != nil {
		return nil, err
	}

	descriptors, err := v.resolveDescriptors(ctx, req, scName)
	if err != nil {
		return nil, err
	}
	for i := range req.EvidenceRequests {
		if err := validateParameters(&req.EvidenceRequests[i], &descriptors[i]); err != nil {
			return nil, err
		}
	}

	if !sc.AcceptsLanguage(req.LanguageCode) {
		return nil, dErrors.New(dErrors.CodeInvalidAuthorizationRequest,
			fmt.Sprintf("language code %q is not valid, expected one of %v", req.LanguageCode, sc.Languages()))
	}

	if err := v.checkRegistered(ctx, requestor, dErrors.CodeInvalidRequestor, "requestor"); err != nil {
		return nil, err
	}
	if req.SubjectParty != nil {
		if err := v.checkRegistered(ctx, *req.SubjectParty, dErrors.CodeInvalidSubject, "subject"); err != nil {
			return nil, err
		}
	}

	validTo, err := v.validTo(req, descriptors)
	if err != nil {
		return nil, err
	}

	perDataset := make(map[string]models.Requirements)
	for i := range descriptors {
		reqs := descriptors[i].ApplicableRequirements(scName)
		if harvest {
			reqs = slices.DeleteFunc(slices.Clone(reqs), func(r models.Requirement) bool {
				return !r.Kind().RequiredAtHarvest()
			})
		}
		if len(reqs) > 0 {
			perDataset[descriptors[i].Name] = reqs
		}
	}
	errs, skipped, err := v.policy.ValidateRequirements(ctx, perDataset, req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		v.logger.InfoContext(ctx, "authorization requirements not met",
			"requestor", requestor,
			"service_context", scName,
			"failures", len(errs),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.New(dErrors.CodeAuthorizationFailed, strings.Join(errs, "; "))
	}

	if len(skipped) > 0 {
		drop := make(map[string]struct{}, len(skipped))
		for name := range skipped {
			drop[name] = struct{}{}
		}
		req.RemoveEvidenceRequests(drop)
		descriptors = slices.DeleteFunc(descriptors, func(d models.EvidenceCodeDescriptor) bool {
			_, gone := drop[d.Name]
			return gone
		})
		if len(req.EvidenceRequests) == 0 {
			return nil, dErrors.New(dErrors.CodeAuthorizationFailed,
				"none of the requested evidence codes could be authorized; skipped: "+
					strings.Join(slices.Sorted(maps.Keys(drop)), ", "))
		}
	}

	return &Validation{
		request:        req,
		serviceContext: scName,
		evidenceCodes:  descriptors,
		validTo:        validTo,
		skipped:        skipped,
	}, nil
}

func validateLegalBasisList(req *models.AuthorizationRequest) error {
	referenced := make(map[string]struct{})
	for _, er := range req.EvidenceRequests {
		if er.LegalBasisID != "" {
			referenced[er.LegalBasisID] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(req.LegalBasisList))
	for _, lb := range req.LegalBasisList {
		if lb.ID == "" {
			return dErrors.New(dErrors.CodeInvalidLegalBasis, "legal basis id is required")
		}
		if _, dup := seen[lb.ID]; dup {
			return dErrors.New(dErrors.CodeInvalidLegalBasis, fmt.Sprintf("legal basis %q supplied more than once", lb.ID))
		}
		seen[lb.ID] = struct{}{}
		switch lb.Type {
		case models.LegalBasisESPD, models.LegalBasisCPV:
		default:
			return dErrors.New(dErrors.CodeInvalidLegalBasis, fmt.Sprintf("legal basis %q has unknown type %q", lb.ID, lb.Type))
		}
		if strings.TrimSpace(lb.Content) == "" {
			return dErrors.New(dErrors.CodeInvalidLegalBasis, fmt.Sprintf("legal basis %q has no content", lb.ID))
		}
		if _, ok := referenced[lb.ID]; !ok {
			return dErrors.New(dErrors.CodeInvalidLegalBasis, fmt.Sprintf("legal basis %q is not referenced by any evidence request", lb.ID))
		}
	}
	for id := range referenced {
		if _, ok := seen[id]; !ok {
			return dErrors.New(dErrors.CodeInvalidLegalBasis, fmt.Sprintf("legal basis %q was referenced but not supplied", id))
		}
	}
	return nil
}

func validateEvidenceRequests(req *models.AuthorizationRequest) error {
	if len(req.EvidenceRequests) == 0 {
		return dErrors.New(dErrors.CodeInvalidEvidenceRequest, "at least one evidence request is required")
	}
	seen := make(map[string]struct{}, len(req.EvidenceRequests))
	for _, er := range req.EvidenceRequests {
		if er.EvidenceCodeName == "" {
			return dErrors.New(dErrors.CodeInvalidEvidenceRequest, "evidence code name is required")
		}
		if _, dup := seen[er.EvidenceCodeName]; dup {
			return dErrors.New(dErrors.CodeInvalidEvidenceRequest, fmt.Sprintf("evidence code %s requested more than once", er.EvidenceCodeName))
		}
		seen[er.EvidenceCodeName] = struct{}{}
	}
	return nil
}

// resolveDescriptors returns one descriptor per evidence request, in request order.
func (v *Validator) resolveDescriptors(ctx context.Context, req *models.AuthorizationRequest, serviceContext string) ([]models.EvidenceCodeDescriptor, error) {
	catalog, err := v.catalog.GetCatalog(ctx, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, "evidence catalog unavailable")
	}
	byName := make(map[string]int, len(catalog))
	for i := range catalog {
		byName[catalog[i].Name] = i
	}

	out := make([]models.EvidenceCodeDescriptor, len(req.EvidenceRequests))
	for i, er := range req.EvidenceRequests {
		idx, ok := byName[er.EvidenceCodeName]
		if !ok {
			return nil, dErrors.New(dErrors.CodeUnknownEvidenceCode, "unknown evidence code: "+er.EvidenceCodeName)
		}
		d := catalog[idx]
		if !d.BelongsTo(serviceContext) {
			return nil, dErrors.New(dErrors.CodeInvalidEvidenceRequest, fmt.Sprintf(
				"evidence code %s is not available in service context %s, expected one of %v",
				d.Name, serviceContext, d.ServiceContexts))
		}
		out[i] = d
	}
	return out, nil
}

func validateParameters(er *models.EvidenceRequest, d *models.EvidenceCodeDescriptor) error {
	fail := func(format string, args ...any) error {
		return dErrors.New(dErrors.CodeInvalidEvidenceRequestParameter, er.EvidenceCodeName+": "+fmt.Sprintf(format, args...))
	}
	if len(d.Parameters) == 0 {
		if len(er.Parameters) > 0 {
			return fail("no parameters are accepted")
		}
		return nil
	}
	required := d.RequiredParameterCount()
	if len(er.Parameters) < required || len(er.Parameters) > len(d.Parameters) {
		return fail("expected between %d and %d parameters, got %d", required, len(d.Parameters), len(er.Parameters))
	}

	supplied := make(map[string]struct{}, len(er.Parameters))
	for _, p := range er.Parameters {
		def, ok := d.Parameter(p.Name)
		if !ok {
			return fail("unknown parameter %q", p.Name)
		}
		if _, dup := supplied[p.Name]; dup {
			return fail("parameter %q supplied more than once", p.Name)
		}
		supplied[p.Name] = struct{}{}
		if !parameterTypeMatches(def.Type, p.Value) {
			return fail("parameter %q is not a valid %s", p.Name, def.Type)
		}
	}
	for _, def := range d.Parameters {
		if _, ok := supplied[def.Name]; def.Required && !ok {
			return fail("required parameter %q is missing", def.Name)
		}
	}
	return nil
}

// parameterTypeMatches accepts either the native JSON type or its string form.
func parameterTypeMatches(t models.ParamType, value any) bool {
	switch t {
	case models.ParamTypeBoolean:
		switch val := value.(type) {
		case bool:
			return true
		case string:
			_, err := strconv.ParseBool(val)
			return err == nil
		}
		return false
	case models.ParamTypeNumber:
		switch val := value.(type) {
		case float64, float32, int, int64, json.Number:
			return true
		case string:
			_, err := strconv.ParseFloat(val, 64)
			return err == nil
		}
		return false
	case models.ParamTypeDateTime:
		s, ok := value.(string)
		if !ok {
			return false
		}
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return true
		}
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	default:
		return true
	}
}

// checkRegistered confirms a domestic organization exists and is not deleted.
// Other party kinds are not registered and pass.
func (v *Validator) checkRegistered(ctx context.Context, p domain.Party, code dErrors.Code, role string) error {
	if p.Kind() != domain.PartyKindOrganization {
		return nil
	}
	unit, err := v.registry.Lookup(ctx, p.NorwegianOrganizationNumber)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(code, fmt.Sprintf("%s %s is not registered", role, p))
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, "entity registry unavailable")
	}
	if unit.Deleted {
		return dErrors.New(code, fmt.Sprintf("%s %s is deleted", role, p))
	}
	return nil
}

// validTo bounds the validity end by MinValidity, MaxValidity and the lowest
// maxValidDays among the requested datasets.
func (v *Validator) validTo(req *models.AuthorizationRequest, descriptors []models.EvidenceCodeDescriptor) (time.Time, error) {
	now := v.now()
	limit := MaxValidity
	limited := false
	for i := range descriptors {
		if days := descriptors[i].MaxValidDays; days != nil && *days > 0 {
			if d := time.Duration(*days) * 24 * time.Hour; d < limit {
				limit = d
				limited = true
			}
		}
	}

	if req.ValidTo == nil {
		validity := DefaultValidity
		if limited && limit < validity {
			validity = limit
		}
		return now.Add(validity), nil
	}

	validTo := *req.ValidTo
	if validTo.Before(now.Add(MinValidity)) {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidValidToDateTime, "validTo must be in the future")
	}
	if validTo.After(now.Add(limit)) {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidValidToDateTime,
			fmt.Sprintf("validTo can be at most %d days from now", int(limit.Hours()/24)))
	}
	return validTo, nil
}
