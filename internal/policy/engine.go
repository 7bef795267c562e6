// Package policy evaluates dataset authorization requirements against an
// authorization request.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"broker/internal/evidence/models"
	"broker/internal/platform/metrics"
	"broker/internal/policy/legalbasis"
	"broker/internal/policy/ports"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/requestcontext"
)

// Engine runs requirement checks. It holds no per-request state.
type Engine struct {
	delegation ports.Delegation
	classifier ports.PartyClassifier
	allowLists ports.AllowLists
	legalBasis map[models.LegalBasisType]ports.LegalBasisValidator
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLegalBasisValidator registers or replaces the validator for one legal basis type.
func WithLegalBasisValidator(t models.LegalBasisType, v ports.LegalBasisValidator) Option {
	return func(e *Engine) {
		e.legalBasis[t] = v
	}
}

// New creates an engine. Panics if a required collaborator is nil.
func New(delegation ports.Delegation, classifier ports.PartyClassifier, allowLists ports.AllowLists, opts ...Option) *Engine {
	if delegation == nil {
		panic("policy.New: delegation port is required")
	}
	if classifier == nil {
		panic("policy.New: party classifier is required")
	}
	if allowLists == nil {
		panic("policy.New: allow lists are required")
	}
	e := &Engine{
		delegation: delegation,
		classifier: classifier,
		allowLists: allowLists,
		legalBasis: legalbasis.Defaults(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is the isolated result slot written by exactly one evaluation goroutine.
type outcome struct {
	requirement models.Requirement
	reason      string
	err         error
}

func (o outcome) met() bool { return o.reason == "" && o.err == nil }

// ValidateRequirements evaluates every requirement of every dataset in
// perDataset concurrently and waits for all of them.
//
// An unmet requirement with failure action Skip records its dataset in skipped
// (the last such requirement in list order wins) and is not an error. Any other
// unmet requirement appends a message to errs. A collaborator failure counts as
// unmet. A dataset present in perDataset but absent from req is a programming
// error and is returned as err.
func (e *Engine) ValidateRequirements(
	ctx context.Context,
	perDataset map[string]models.Requirements,
	req *models.AuthorizationRequest,
) (errs []string, skipped map[string]models.Requirement, err error) {
	for name := range perDataset {
		if _, ok := req.EvidenceRequest(name); !ok {
			return nil, nil, dErrors.New(dErrors.CodeInternal,
				fmt.Sprintf("requirements supplied for %s which is not part of the request", name))
		}
	}

	// Request order keeps messages stable across runs.
	var datasets []string
	for _, er := range req.EvidenceRequests {
		if _, ok := perDataset[er.EvidenceCodeName]; ok {
			datasets = append(datasets, er.EvidenceCodeName)
		}
	}

	results := make([][]outcome, len(datasets))
	var g errgroup.Group
	for i, name := range datasets {
		reqs := perDataset[name]
		results[i] = make([]outcome, len(reqs))
		for j, r := range reqs {
			g.Go(func() error {
				results[i][j] = e.evaluate(ctx, name, r, req)
				return nil
			})
		}
	}
	_ = g.Wait()

	skipped = make(map[string]models.Requirement)
	for i, name := range datasets {
		for _, o := range results[i] {
			kind := string(o.requirement.Kind())
			switch {
			case o.met():
				e.metrics.IncPolicyEvaluation(kind, "met")
			case o.requirement.Common().Skips():
				e.metrics.IncPolicyEvaluation(kind, "skipped")
				skipped[name] = o.requirement
			default:
				e.metrics.IncPolicyEvaluation(kind, "unmet")
				errs = append(errs, o.message(name))
			}
		}
	}
	return errs, skipped, nil
}

func (o outcome) message(dataset string) string {
	if o.err != nil {
		return fmt.Sprintf("%s: %s requirement could not be verified", dataset, o.requirement.Kind())
	}
	return fmt.Sprintf("%s: %s", dataset, o.reason)
}

func (e *Engine) evaluate(ctx context.Context, dataset string, r models.Requirement, req *models.AuthorizationRequest) outcome {
	ev := &evaluator{
		engine:  e,
		ctx:     ctx,
		dataset: dataset,
		req:     req,
	}
	o := outcome{requirement: r}
	if err := r.Accept(ev); err != nil {
		var u unmetError
		if errors.As(err, &u) {
			o.reason = string(u)
		} else {
			o.err = err
			e.logger.WarnContext(ctx, "requirement evaluation failed",
				"evidence_code", dataset,
				"requirement", r.Kind(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return o
}
