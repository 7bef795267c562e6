// Package harvest retrieves datasets from evidence sources on behalf of an
// accreditation.
package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"broker/internal/evidence/models"
	"broker/internal/platform/config"
	"broker/internal/platform/httpclient"
	"broker/internal/platform/metrics"
	"broker/internal/platform/tracer"
	"broker/pkg/domain"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/requestcontext"
)

// Options tune how a single harvest authenticates against the source.
type Options struct {
	// ReuseClientAccessToken forwards the caller's own bearer token.
	ReuseClientAccessToken bool
	// OverriddenAccessToken is forwarded as is when set.
	OverriddenAccessToken string
	// FetchSupplierAccessTokenOnBehalfOfOwner narrows issued tokens to the accreditation owner.
	FetchSupplierAccessTokenOnBehalfOfOwner bool
	// Ephemeral marks accreditations that were never stored; no retrieval is recorded.
	Ephemeral bool
}

// Orchestrator performs harvests.
type Orchestrator struct {
	catalog        Catalog
	status         StatusResolver
	consent        Consent
	doer           httpclient.Doer
	tokens         TokenSource
	recorder       RetrievalRecorder
	defaultTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithTokenSource enables issued tokens for datasets that declare required scopes.
func WithTokenSource(t TokenSource) Option {
	return func(o *Orchestrator) {
		o.tokens = t
	}
}

// WithRetrievalRecorder records successful harvests on the stored accreditation.
func WithRetrievalRecorder(r RetrievalRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func WithDefaultTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.defaultTimeout = d
		}
	}
}

// New creates an orchestrator. Panics if a required collaborator is nil.
func New(catalog Catalog, statuses StatusResolver, consent Consent, doer httpclient.Doer, opts ...Option) *Orchestrator {
	if catalog == nil {
		panic("harvest.New: catalog is required")
	}
	if statuses == nil {
		panic("harvest.New: status resolver is required")
	}
	if consent == nil {
		panic("harvest.New: consent coordinator is required")
	}
	if doer == nil {
		panic("harvest.New: http doer is required")
	}
	o := &Orchestrator{
		catalog:        catalog,
		status:         statuses,
		consent:        consent,
		doer:           doer,
		defaultTimeout: config.DefaultHarvestTimeout,
		logger:         slog.Default(),
		tracer:         tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Harvest retrieves the values of one dataset of acc.
func (o *Orchestrator) Harvest(ctx context.Context, name string, acc *models.Accreditation, opts Options) (ev *models.Evidence, err error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanHarvest,
		tracer.String(tracer.AttrEvidenceCode, name),
		tracer.String(tracer.AttrAccreditationID, acc.ID),
	)
	defer func() { span.End(err) }()

	c, err := o.prepare(ctx, name, acc, opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.descriptor.Timeout(o.defaultTimeout))
	defer cancel()

	start := time.Now()
	var values []models.EvidenceValue
	err = httpclient.DoJSON(ctx, o.doer, c.request(), &values)
	o.metrics.ObserveHarvest(c.descriptor.Source, outcome(err), time.Since(start))
	if err != nil {
		return nil, o.upstreamFailure(ctx, c.descriptor, err)
	}

	o.afterHarvest(ctx, acc, c.descriptor, opts)
	return &models.Evidence{
		Name:           c.descriptor.Name,
		Timestamp:      requestcontext.Now(ctx),
		EvidenceStatus: c.status,
		Values:         values,
	}, nil
}

// HarvestStream forwards the source's response body without buffering. The
// caller must close the returned reader. Any non-success answer is fatal.
// Consent use and the retrieval are recorded on Close, and only when the body
// was read to EOF.
func (o *Orchestrator) HarvestStream(ctx context.Context, name string, acc *models.Accreditation, opts Options) (body io.ReadCloser, contentType string, err error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanHarvestStream,
		tracer.String(tracer.AttrEvidenceCode, name),
		tracer.String(tracer.AttrAccreditationID, acc.ID),
	)
	defer func() { span.End(err) }()

	c, err := o.prepare(ctx, name, acc, opts)
	if err != nil {
		return nil, "", err
	}

	// The deadline covers reading the body, so cancel moves to Close.
	streamCtx, cancel := context.WithTimeout(ctx, c.descriptor.Timeout(o.defaultTimeout))
	req := c.request()
	req.Header = withAccept(req.Header, "*/*")

	start := time.Now()
	resp, err := httpclient.Send(streamCtx, o.doer, req)
	o.metrics.ObserveHarvest(c.descriptor.Source, outcome(err), time.Since(start))
	if err != nil {
		cancel()
		if ue, ok := httpclient.AsUpstreamError(err); ok && !ue.Transient() {
			return nil, "", dErrors.Wrap(err, dErrors.CodeEvidenceSourceError,
				fmt.Sprintf("evidence source %s failed to stream %s", c.descriptor.Source, c.descriptor.Name))
		}
		return nil, "", httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "evidence source unavailable")
	}

	contentType = resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &streamBody{
		ReadCloser: resp.Body,
		cancel:     cancel,
		delivered: func() {
			o.afterHarvest(ctx, acc, c.descriptor, opts)
		},
	}, contentType, nil
}

// HarvestOpenData retrieves a public dataset without an accreditation.
// identifier, when set, names the subject the data is about.
func (o *Orchestrator) HarvestOpenData(ctx context.Context, d *models.EvidenceCodeDescriptor, identifier string) (ev *models.Evidence, err error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanHarvest,
		tracer.String(tracer.AttrEvidenceCode, d.Name),
	)
	defer func() { span.End(err) }()

	if !d.IsPublic {
		return nil, dErrors.New(dErrors.CodeInvalidEvidenceRequest, fmt.Sprintf("evidence code %s is not open data", d.Name))
	}

	hr := models.HarvesterRequest{EvidenceCodeName: d.UpstreamName()}
	for _, p := range d.Parameters {
		if p.Value != nil {
			hr.Parameters = append(hr.Parameters, models.EvidenceParameterValue{Name: p.Name, Value: p.Value})
		}
	}
	if identifier != "" {
		subject, err := domain.ParseParty(identifier)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidSubject, "invalid identifier")
		}
		hr.SubjectParty = &subject
		hr.OrganizationNumber = subject.NorwegianOrganizationNumber
	}

	var header http.Header
	if d.RequiredScopes != "" {
		token, err := o.issue(ctx, d, nil)
		if err != nil {
			return nil, err
		}
		header = httpclient.Bearer(token)
	}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout(o.defaultTimeout))
	defer cancel()

	start := time.Now()
	var values []models.EvidenceValue
	err = httpclient.DoJSON(ctx, o.doer, httpclient.Request{
		Upstream: d.Source,
		Method:   http.MethodPost,
		URL:      d.HarvestURL,
		Body:     hr,
		Header:   header,
	}, &values)
	o.metrics.ObserveHarvest(d.Source, outcome(err), time.Since(start))
	if err != nil {
		return nil, o.upstreamFailure(ctx, d, err)
	}
	return &models.Evidence{
		Name:           d.Name,
		Timestamp:      requestcontext.Now(ctx),
		EvidenceStatus: models.NewStatus(d.Name, models.StatusAvailable),
		Values:         values,
	}, nil
}

// call is a prepared upstream request for one dataset.
type call struct {
	descriptor *models.EvidenceCodeDescriptor
	body       models.HarvesterRequest
	header     http.Header
	status     models.EvidenceStatus
}

func (c *call) request() httpclient.Request {
	return httpclient.Request{
		Upstream: c.descriptor.Source,
		Method:   http.MethodPost,
		URL:      c.descriptor.HarvestURL,
		Body:     c.body,
		Header:   c.header,
	}
}

// prepare runs every check that happens before the source is contacted and
// builds the upstream request.
func (o *Orchestrator) prepare(ctx context.Context, name string, acc *models.Accreditation, opts Options) (*call, error) {
	if acc.IsExpired(requestcontext.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeExpiredAccreditation, fmt.Sprintf("accreditation %s has expired", acc.ID))
	}
	stored, ok := acc.EvidenceCode(name)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidEvidenceRequest,
			fmt.Sprintf("evidence code %s is not part of accreditation %s", name, acc.ID))
	}

	st, err := o.checkStatus(ctx, acc, stored)
	if err != nil {
		return nil, err
	}

	live, err := o.catalog.Lookup(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, "evidence code is no longer offered")
	}
	d := live.Clone()
	d.Parameters = stored.Parameters

	c := &call{
		descriptor: &d,
		body:       acc.HarvesterRequest(&d, models.AsyncActionHarvest),
		status:     st,
	}

	token, err := o.bearer(ctx, acc, &d, opts)
	if err != nil {
		return nil, err
	}
	if token != "" {
		c.header = httpclient.Bearer(token)
	}

	if d.RequiresConsent(acc.ServiceContext) {
		jwt, err := o.consent.JWT(ctx, acc)
		if err != nil {
			return nil, err
		}
		c.body.ConsentJWT = jwt
	}
	return c, nil
}

// checkStatus rejects datasets that cannot be harvested yet. Asynchronous
// datasets are polled since local checks cannot decide for them.
func (o *Orchestrator) checkStatus(ctx context.Context, acc *models.Accreditation, stored *models.EvidenceCodeDescriptor) (models.EvidenceStatus, error) {
	st := o.status.GetStatus(ctx, acc, stored, true)
	if st.Status == models.StatusAggregateUnknown {
		st = o.status.GetStatus(ctx, acc, stored, false)
	}

	switch st.Status {
	case models.StatusPendingConsent, models.StatusDenied, models.StatusExpired:
		return st, dErrors.New(dErrors.CodeRequiresConsent,
			fmt.Sprintf("evidence code %s requires consent, consent status is %s", stored.Name, st.Status))
	case models.StatusUnavailable:
		return st, dErrors.New(dErrors.CodeServiceNotAvailable,
			fmt.Sprintf("evidence code %s is unavailable: %s", stored.Name, st.Description))
	case models.StatusWaiting:
		msg := fmt.Sprintf("evidence code %s is not ready yet", stored.Name)
		if st.RetryAt != nil {
			msg += ", retry at " + st.RetryAt.UTC().Format(time.RFC3339)
		}
		return st, dErrors.StillWaiting(msg, st.RetryAt)
	default:
		return st, nil
	}
}

// bearer resolves the token sent to the source: the caller's own token, then
// an explicit override, then one issued for the dataset's scopes.
func (o *Orchestrator) bearer(ctx context.Context, acc *models.Accreditation, d *models.EvidenceCodeDescriptor, opts Options) (string, error) {
	ownToken := d.RequiresOwnToken(acc.ServiceContext)
	if ownToken && !opts.ReuseClientAccessToken && opts.OverriddenAccessToken == "" {
		return "", dErrors.New(dErrors.CodeInvalidEvidenceRequest,
			fmt.Sprintf("evidence code %s requires the caller to provide its own access token", d.Name))
	}
	if d.RequiredScopes == "" && !ownToken {
		return "", nil
	}

	switch {
	case opts.ReuseClientAccessToken:
		token := requestcontext.AccessToken(ctx)
		if token == "" {
			return "", dErrors.New(dErrors.CodeUnauthorized, "no client access token to reuse")
		}
		return token, nil
	case opts.OverriddenAccessToken != "":
		return opts.OverriddenAccessToken, nil
	}

	var onBehalfOf *domain.Party
	if opts.FetchSupplierAccessTokenOnBehalfOfOwner {
		owner, err := domain.ParseParty(acc.Owner)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "accreditation owner is not a valid party")
		}
		onBehalfOf = &owner
	}
	return o.issue(ctx, d, onBehalfOf)
}

func (o *Orchestrator) issue(ctx context.Context, d *models.EvidenceCodeDescriptor, onBehalfOf *domain.Party) (string, error) {
	if o.tokens == nil {
		return "", dErrors.New(dErrors.CodeInternal, fmt.Sprintf("no token issuer configured for scopes %q", d.RequiredScopes))
	}
	token, err := o.tokens.Token(ctx, d.RequiredScopes, onBehalfOf)
	if err != nil {
		return "", httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "access token could not be issued")
	}
	return token, nil
}

// upstreamFailure maps a failed source call. Availability problems are
// ServiceNotAvailable; anything the source answered is EvidenceSourceError.
func (o *Orchestrator) upstreamFailure(ctx context.Context, d *models.EvidenceCodeDescriptor, err error) error {
	o.logger.WarnContext(ctx, "harvest failed",
		"evidence_code", d.Name,
		"source", d.Source,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	ue, ok := httpclient.AsUpstreamError(err)
	if !ok || ue.Transient() {
		return httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "evidence source unavailable")
	}
	var se models.SourceError
	if len(ue.Body) > 0 && json.Unmarshal(ue.Body, &se) == nil && (se.Code != 0 || se.Description != "") {
		return dErrors.Wrap(err, dErrors.CodeEvidenceSourceError,
			fmt.Sprintf("evidence source %s returned error %d: %s", d.Source, se.Code, se.Description))
	}
	return dErrors.Wrap(err, dErrors.CodeEvidenceSourceError,
		fmt.Sprintf("evidence source %s failed to deliver %s", d.Source, d.Name))
}

// afterHarvest runs the best-effort bookkeeping of a successful harvest.
func (o *Orchestrator) afterHarvest(ctx context.Context, acc *models.Accreditation, d *models.EvidenceCodeDescriptor, opts Options) {
	if d.RequiresConsent(acc.ServiceContext) {
		if err := o.consent.LogUse(ctx, acc, d.Name); err != nil {
			o.logger.WarnContext(ctx, "consent use logging failed",
				"accreditation_id", acc.ID,
				"evidence_code", d.Name,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	if opts.Ephemeral || o.recorder == nil {
		return
	}
	if err := o.recorder.RecordRetrieval(ctx, acc.ID, d.Name, requestcontext.Now(ctx)); err != nil {
		o.logger.WarnContext(ctx, "data retrieval not recorded",
			"accreditation_id", acc.ID,
			"evidence_code", d.Name,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if ue, ok := httpclient.AsUpstreamError(err); ok {
		return string(ue.Category)
	}
	return "error"
}

func withAccept(h http.Header, accept string) http.Header {
	if h == nil {
		h = make(http.Header)
	}
	if strings.TrimSpace(h.Get("Accept")) == "" {
		h.Set("Accept", accept)
	}
	return h
}

// streamBody releases the stream deadline on Close and runs delivered once
// if the reader saw EOF.
type streamBody struct {
	io.ReadCloser
	cancel    context.CancelFunc
	delivered func()
	eof       bool
	closed    bool
}

func (b *streamBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if errors.Is(err, io.EOF) {
		b.eof = true
	}
	return n, err
}

func (b *streamBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	err := b.ReadCloser.Close()
	b.cancel()
	if b.eof {
		b.delivered()
	}
	return err
}
