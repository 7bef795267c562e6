package policy

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"broker/internal/evidence/models"
	"broker/pkg/domain"
	"broker/pkg/requestcontext"
)

// unmetError reports a requirement that was evaluated and did not hold.
// Any other error from a visit is a collaborator failure.
type unmetError string

func (e unmetError) Error() string { return string(e) }

func unmet(format string, args ...any) error {
	return unmetError(fmt.Sprintf(format, args...))
}

// evaluator checks one requirement of one dataset.
type evaluator struct {
	engine  *Engine
	ctx     context.Context
	dataset string
	req     *models.AuthorizationRequest
}

var _ models.RequirementVisitor = (*evaluator)(nil)

// party resolves a request role. Owner is the authenticated caller.
func (v *evaluator) party(role models.PartyRole) (domain.Party, bool) {
	switch role {
	case models.RoleRequestor:
		return v.req.RequestorParty, !v.req.RequestorParty.IsZero()
	case models.RoleSubject:
		if v.req.SubjectParty == nil {
			return domain.Party{}, false
		}
		return *v.req.SubjectParty, true
	case models.RoleOwner:
		owner := requestcontext.AuthenticatedParty(v.ctx)
		return owner, !owner.IsZero()
	default:
		return domain.Party{}, false
	}
}

func (v *evaluator) pair(coveredBy, offeredBy models.PartyRole) (domain.Party, domain.Party, error) {
	covered, ok := v.party(coveredBy)
	if !ok {
		return domain.Party{}, domain.Party{}, unmet("%s is not present in the request", coveredBy)
	}
	offered, ok := v.party(offeredBy)
	if !ok {
		return domain.Party{}, domain.Party{}, unmet("%s is not present in the request", offeredBy)
	}
	return covered, offered, nil
}

func (v *evaluator) VisitRoleDelegation(r *models.RoleDelegationRequirement) error {
	covered, offered, err := v.pair(r.CoveredBy, r.OfferedBy)
	if err != nil {
		return err
	}
	ok, err := v.engine.delegation.HasRole(v.ctx, covered, offered, r.RoleCode)
	if err != nil {
		return err
	}
	if !ok {
		return unmet("%s does not hold role %s on behalf of %s", r.CoveredBy, r.RoleCode, r.OfferedBy)
	}
	return nil
}

func (v *evaluator) VisitRightsDelegation(r *models.RightsDelegationRequirement) error {
	covered, offered, err := v.pair(r.CoveredBy, r.OfferedBy)
	if err != nil {
		return err
	}
	ok, err := v.engine.delegation.HasRights(v.ctx, covered, offered, r.ServiceCode, r.ServiceEdition, r.Rights)
	if err != nil {
		return err
	}
	if !ok {
		return unmet("%s lacks rights %v on service %s/%s delegated by %s",
			r.CoveredBy, r.Rights, r.ServiceCode, r.ServiceEdition, r.OfferedBy)
	}
	return nil
}

func (v *evaluator) VisitConsent(*models.ConsentRequirement) error {
	er, ok := v.req.EvidenceRequest(v.dataset)
	if !ok || !er.RequestConsent {
		return unmet("consent is required but was not requested")
	}
	if v.req.ConsentReference == "" {
		return unmet("consent is required but no consent reference was supplied")
	}
	if !v.req.RequestorParty.IsDomestic() {
		return unmet("consent can only be requested by a Norwegian party")
	}
	if v.req.SubjectParty == nil || !v.req.SubjectParty.IsDomestic() {
		return unmet("consent can only be given by a Norwegian party")
	}
	return nil
}

func (v *evaluator) VisitLegalBasis(r *models.LegalBasisRequirement) error {
	er, ok := v.req.EvidenceRequest(v.dataset)
	if !ok || er.LegalBasisID == "" {
		return unmet("a legal basis is required")
	}
	lb, ok := v.req.LegalBasis(er.LegalBasisID)
	if !ok {
		return unmet("legal basis %q was not supplied", er.LegalBasisID)
	}
	if !slices.Contains(r.ValidLegalBasisTypes, lb.Type) {
		return unmet("legal basis of type %s is not accepted", lb.Type)
	}
	validator, ok := v.engine.legalBasis[lb.Type]
	if !ok {
		return unmet("legal basis of type %s cannot be validated", lb.Type)
	}
	if err := validator.Validate(lb.Content); err != nil {
		return unmet("legal basis %q is invalid: %v", lb.ID, err)
	}
	return nil
}

func (v *evaluator) VisitPartyType(r *models.PartyTypeRequirement) error {
	allowed := make(map[models.PartyRole][]models.PartyTypeName)
	var roles []models.PartyRole
	for _, c := range r.AllowedPartyTypes {
		if _, seen := allowed[c.Party]; !seen {
			roles = append(roles, c.Party)
		}
		allowed[c.Party] = append(allowed[c.Party], c.Type)
	}
	for _, role := range roles {
		p, ok := v.party(role)
		if !ok {
			return unmet("%s is not present in the request", role)
		}
		typ, err := v.engine.classifier.Classify(v.ctx, p)
		if err != nil {
			return err
		}
		if !slices.Contains(allowed[role], typ) {
			return unmet("%s is %s, expected one of %v", role, typ, allowed[role])
		}
	}
	return nil
}

func (v *evaluator) VisitPartyRelation(r *models.PartyRelationRequirement) error {
	requestor, _ := v.party(models.RoleRequestor)
	subject, hasSubject := v.party(models.RoleSubject)
	owner, _ := v.party(models.RoleOwner)

	for _, rel := range r.Relations {
		var holds bool
		switch rel {
		case models.RelationRequestorAndOwnerAreEqual:
			holds = requestor.Equal(owner)
		case models.RelationRequestorAndSubjectAreEqual:
			holds = hasSubject && requestor.Equal(subject)
		case models.RelationRequestorAndSubjectAreNotEqual:
			holds = !hasSubject || !requestor.Equal(subject)
		case models.RelationOwnerAndSubjectAreEqual:
			holds = hasSubject && owner.Equal(subject)
		default:
			return unmet("unknown party relation %s", rel)
		}
		if !holds {
			return unmet("party relation %s does not hold", rel)
		}
	}
	return nil
}

func (v *evaluator) VisitAllowListed(r *models.AllowListedRequirement) error {
	allowed := make(map[models.PartyRole][]string)
	var roles []models.PartyRole
	for _, a := range r.AllowedParties {
		if _, seen := allowed[a.Party]; !seen {
			roles = append(roles, a.Party)
		}
		allowed[a.Party] = append(allowed[a.Party], a.Identifier)
	}
	for _, role := range roles {
		p, ok := v.party(role)
		if !ok || !slices.Contains(allowed[role], p.Key()) {
			return unmet("%s is not on the allow list", role)
		}
	}
	return nil
}

func (v *evaluator) VisitAllowListedFromConfig(r *models.AllowListedFromConfigRequirement) error {
	list, ok := v.engine.allowLists.AllowList(r.ConfigKey)
	if !ok {
		return fmt.Errorf("allow list %q is not configured", r.ConfigKey)
	}
	p, ok := v.party(r.Party)
	if !ok || !slices.Contains(list, p.Key()) {
		return unmet("%s is not on allow list %s", r.Party, r.ConfigKey)
	}
	return nil
}

func (v *evaluator) VisitScopeRequired(r *models.ScopeRequiredRequirement) error {
	granted := requestcontext.Scopes(v.ctx)
	for _, scope := range r.RequiredScopes {
		if !slices.Contains(granted, scope) {
			return unmet("access token lacks scope %s", scope)
		}
	}
	return nil
}

func (v *evaluator) VisitReferenceFormat(r *models.ReferenceFormatRequirement) error {
	var ref string
	switch r.ReferenceType {
	case models.ReferenceConsent:
		ref = v.req.ConsentReference
	default:
		ref = v.req.ExternalReference
	}
	re, err := regexp.Compile(r.AcceptedFormat)
	if err != nil {
		return fmt.Errorf("reference format %q: %w", r.AcceptedFormat, err)
	}
	if !re.MatchString(ref) {
		return unmet("%s does not match the required format", r.ReferenceType)
	}
	return nil
}

// VisitProvideOwnToken always holds here; the harvester enforces it.
func (v *evaluator) VisitProvideOwnToken(*models.ProvideOwnTokenRequirement) error {
	return nil
}
