package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// RequirementKind is the JSON discriminator of a Requirement variant.
type RequirementKind string

const (
	KindRoleDelegation        RequirementKind = "RoleDelegation"
	KindRightsDelegation      RequirementKind = "RightsDelegation"
	KindConsent               RequirementKind = "Consent"
	KindLegalBasis            RequirementKind = "LegalBasis"
	KindPartyType             RequirementKind = "PartyType"
	KindPartyRelation         RequirementKind = "PartyRelation"
	KindAllowListed           RequirementKind = "AllowListed"
	KindAllowListedFromConfig RequirementKind = "AllowListedFromConfig"
	KindScopeRequired         RequirementKind = "ScopeRequired"
	KindReferenceFormat       RequirementKind = "ReferenceFormat"
	KindProvideOwnToken       RequirementKind = "ProvideOwnToken"
)

// RequiredAtHarvest reports whether a requirement of this kind is re-evaluated when
// the harvester validates a request. Consent, legal basis and reference checks are
// settled when the accreditation is issued.
func (k RequirementKind) RequiredAtHarvest() bool {
	switch k {
	case KindConsent, KindLegalBasis, KindReferenceFormat:
		return false
	default:
		return true
	}
}

// FailureAction decides what an unmet requirement does to its dataset.
type FailureAction string

const (
	FailureActionFail FailureAction = "Fail"
	FailureActionSkip FailureAction = "Skip"
)

// PartyRole names one of the parties of an authorization request.
type PartyRole string

const (
	RoleRequestor PartyRole = "Requestor"
	RoleSubject   PartyRole = "Subject"
	RoleOwner     PartyRole = "Owner"
)

// PartyTypeName is the classification of a party.
type PartyTypeName string

const (
	PartyTypePublicAgency      PartyTypeName = "PublicAgency"
	PartyTypePrivateEnterprise PartyTypeName = "PrivateEnterprise"
	PartyTypePrivatePerson     PartyTypeName = "PrivatePerson"
	PartyTypeForeign           PartyTypeName = "Foreign"
	PartyTypeInvalid           PartyTypeName = "Invalid"
)

// PartyRelationType is a constraint between two request parties.
type PartyRelationType string

const (
	RelationRequestorAndOwnerAreEqual      PartyRelationType = "RequestorAndOwnerAreEqual"
	RelationRequestorAndSubjectAreEqual    PartyRelationType = "RequestorAndSubjectAreEqual"
	RelationRequestorAndSubjectAreNotEqual PartyRelationType = "RequestorAndSubjectAreNotEqual"
	RelationOwnerAndSubjectAreEqual        PartyRelationType = "OwnerAndSubjectAreEqual"
)

// ReferenceType selects which request reference a ReferenceFormat requirement checks.
type ReferenceType string

const (
	ReferenceExternal ReferenceType = "ExternalReference"
	ReferenceConsent  ReferenceType = "ConsentReference"
)

// Requirement is a closed sum type of authorization rules. Variants are the
// *XxxRequirement types in this file; dispatch goes through RequirementVisitor.
type Requirement interface {
	Kind() RequirementKind
	Common() *RequirementBase
	Accept(v RequirementVisitor) error
	Clone() Requirement
}

// RequirementVisitor has one method per variant. Adding a variant adds a method
// here, which breaks every evaluator until it handles the new case.
type RequirementVisitor interface {
	VisitRoleDelegation(*RoleDelegationRequirement) error
	VisitRightsDelegation(*RightsDelegationRequirement) error
	VisitConsent(*ConsentRequirement) error
	VisitLegalBasis(*LegalBasisRequirement) error
	VisitPartyType(*PartyTypeRequirement) error
	VisitPartyRelation(*PartyRelationRequirement) error
	VisitAllowListed(*AllowListedRequirement) error
	VisitAllowListedFromConfig(*AllowListedFromConfigRequirement) error
	VisitScopeRequired(*ScopeRequiredRequirement) error
	VisitReferenceFormat(*ReferenceFormatRequirement) error
	VisitProvideOwnToken(*ProvideOwnTokenRequirement) error
}

// RequirementBase holds the fields every variant shares.
type RequirementBase struct {
	FailureAction           FailureAction `json:"failureAction,omitempty"`
	AppliesToServiceContext []string      `json:"appliesToServiceContext,omitempty"`
}

// Common exposes the shared fields for in-place tagging of a cloned requirement.
func (b *RequirementBase) Common() *RequirementBase { return b }

// AppliesTo reports whether the requirement is active in the given service context.
// An empty list means the requirement is global.
func (b *RequirementBase) AppliesTo(serviceContext string) bool {
	return len(b.AppliesToServiceContext) == 0 || slices.Contains(b.AppliesToServiceContext, serviceContext)
}

// Skips reports whether failure drops the dataset instead of failing the request.
func (b *RequirementBase) Skips() bool { return b.FailureAction == FailureActionSkip }

func (b RequirementBase) clone() RequirementBase {
	return RequirementBase{
		FailureAction:           b.FailureAction,
		AppliesToServiceContext: slices.Clone(b.AppliesToServiceContext),
	}
}

// RoleDelegationRequirement needs CoveredBy to hold RoleCode on behalf of OfferedBy.
type RoleDelegationRequirement struct {
	RequirementBase
	RoleCode  string    `json:"roleCode"`
	OfferedBy PartyRole `json:"offeredBy"`
	CoveredBy PartyRole `json:"coveredBy"`
}

func (r *RoleDelegationRequirement) Kind() RequirementKind { return KindRoleDelegation }
func (r *RoleDelegationRequirement) Accept(v RequirementVisitor) error {
	return v.VisitRoleDelegation(r)
}
func (r *RoleDelegationRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	return &c
}

// RightsDelegationRequirement needs CoveredBy to hold Rights on a delegated service of OfferedBy.
type RightsDelegationRequirement struct {
	RequirementBase
	ServiceCode    string    `json:"serviceCode"`
	ServiceEdition string    `json:"serviceEdition"`
	Rights         []string  `json:"rights"`
	OfferedBy      PartyRole `json:"offeredBy"`
	CoveredBy      PartyRole `json:"coveredBy"`
}

func (r *RightsDelegationRequirement) Kind() RequirementKind { return KindRightsDelegation }
func (r *RightsDelegationRequirement) Accept(v RequirementVisitor) error {
	return v.VisitRightsDelegation(r)
}
func (r *RightsDelegationRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.Rights = slices.Clone(r.Rights)
	return &c
}

// ConsentRequirement gates a dataset on a consent given by the subject.
type ConsentRequirement struct {
	RequirementBase
	ServiceCode       string `json:"serviceCode"`
	ServiceEdition    string `json:"serviceEdition"`
	ConsentPeriodDays int    `json:"consentPeriodDays,omitempty"`
	RequiresSrr       bool   `json:"requiresSrr,omitempty"`
}

func (r *ConsentRequirement) Kind() RequirementKind { return KindConsent }
func (r *ConsentRequirement) Accept(v RequirementVisitor) error {
	return v.VisitConsent(r)
}
func (r *ConsentRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	return &c
}

// LegalBasisRequirement accepts a supplied legal basis document of one of the listed types.
type LegalBasisRequirement struct {
	RequirementBase
	ValidLegalBasisTypes []LegalBasisType `json:"validLegalBasisTypes"`
}

func (r *LegalBasisRequirement) Kind() RequirementKind { return KindLegalBasis }
func (r *LegalBasisRequirement) Accept(v RequirementVisitor) error {
	return v.VisitLegalBasis(r)
}
func (r *LegalBasisRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.ValidLegalBasisTypes = slices.Clone(r.ValidLegalBasisTypes)
	return &c
}

// PartyTypeConstraint allows one party type for one role.
type PartyTypeConstraint struct {
	Party PartyRole     `json:"party"`
	Type  PartyTypeName `json:"type"`
}

// PartyTypeRequirement restricts the kind of party allowed in each named role.
// Every role mentioned must classify as one of the types listed for it.
type PartyTypeRequirement struct {
	RequirementBase
	AllowedPartyTypes []PartyTypeConstraint `json:"allowedPartyTypes"`
}

func (r *PartyTypeRequirement) Kind() RequirementKind { return KindPartyType }
func (r *PartyTypeRequirement) Accept(v RequirementVisitor) error {
	return v.VisitPartyType(r)
}
func (r *PartyTypeRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.AllowedPartyTypes = slices.Clone(r.AllowedPartyTypes)
	return &c
}

// PartyRelationRequirement constrains how request parties relate to each other.
type PartyRelationRequirement struct {
	RequirementBase
	Relations []PartyRelationType `json:"partyRequirements"`
}

func (r *PartyRelationRequirement) Kind() RequirementKind { return KindPartyRelation }
func (r *PartyRelationRequirement) Accept(v RequirementVisitor) error {
	return v.VisitPartyRelation(r)
}
func (r *PartyRelationRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.Relations = slices.Clone(r.Relations)
	return &c
}

// AllowedParty is one allow-list entry.
type AllowedParty struct {
	Party      PartyRole `json:"party"`
	Identifier string    `json:"identifier"`
}

// AllowListedRequirement admits only listed identifiers for each role mentioned.
type AllowListedRequirement struct {
	RequirementBase
	AllowedParties []AllowedParty `json:"allowedParties"`
}

func (r *AllowListedRequirement) Kind() RequirementKind { return KindAllowListed }
func (r *AllowListedRequirement) Accept(v RequirementVisitor) error {
	return v.VisitAllowListed(r)
}
func (r *AllowListedRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.AllowedParties = slices.Clone(r.AllowedParties)
	return &c
}

// AllowListedFromConfigRequirement reads its allow list from configuration.
type AllowListedFromConfigRequirement struct {
	RequirementBase
	ConfigKey string    `json:"configKey"`
	Party     PartyRole `json:"party"`
}

func (r *AllowListedFromConfigRequirement) Kind() RequirementKind { return KindAllowListedFromConfig }
func (r *AllowListedFromConfigRequirement) Accept(v RequirementVisitor) error {
	return v.VisitAllowListedFromConfig(r)
}
func (r *AllowListedFromConfigRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	return &c
}

// ScopeRequiredRequirement needs the caller's token to carry every listed scope.
type ScopeRequiredRequirement struct {
	RequirementBase
	RequiredScopes []string `json:"requiredScopes"`
}

func (r *ScopeRequiredRequirement) Kind() RequirementKind { return KindScopeRequired }
func (r *ScopeRequiredRequirement) Accept(v RequirementVisitor) error {
	return v.VisitScopeRequired(r)
}
func (r *ScopeRequiredRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	c.RequiredScopes = slices.Clone(r.RequiredScopes)
	return &c
}

// ReferenceFormatRequirement needs a request reference matching AcceptedFormat (a regular expression).
type ReferenceFormatRequirement struct {
	RequirementBase
	ReferenceType  ReferenceType `json:"referenceType"`
	AcceptedFormat string        `json:"acceptedFormat"`
}

func (r *ReferenceFormatRequirement) Kind() RequirementKind { return KindReferenceFormat }
func (r *ReferenceFormatRequirement) Accept(v RequirementVisitor) error {
	return v.VisitReferenceFormat(r)
}
func (r *ReferenceFormatRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	return &c
}

// ProvideOwnTokenRequirement means the caller must bring the token sent to the source.
type ProvideOwnTokenRequirement struct {
	RequirementBase
}

func (r *ProvideOwnTokenRequirement) Kind() RequirementKind { return KindProvideOwnToken }
func (r *ProvideOwnTokenRequirement) Accept(v RequirementVisitor) error {
	return v.VisitProvideOwnToken(r)
}
func (r *ProvideOwnTokenRequirement) Clone() Requirement {
	c := *r
	c.RequirementBase = r.RequirementBase.clone()
	return &c
}

var requirementFactories = map[RequirementKind]func() Requirement{
	KindRoleDelegation:        func() Requirement { return &RoleDelegationRequirement{} },
	KindRightsDelegation:      func() Requirement { return &RightsDelegationRequirement{} },
	KindConsent:               func() Requirement { return &ConsentRequirement{} },
	KindLegalBasis:            func() Requirement { return &LegalBasisRequirement{} },
	KindPartyType:             func() Requirement { return &PartyTypeRequirement{} },
	KindPartyRelation:         func() Requirement { return &PartyRelationRequirement{} },
	KindAllowListed:           func() Requirement { return &AllowListedRequirement{} },
	KindAllowListedFromConfig: func() Requirement { return &AllowListedFromConfigRequirement{} },
	KindScopeRequired:         func() Requirement { return &ScopeRequiredRequirement{} },
	KindReferenceFormat:       func() Requirement { return &ReferenceFormatRequirement{} },
	KindProvideOwnToken:       func() Requirement { return &ProvideOwnTokenRequirement{} },
}

// Requirements is a JSON-codable list of requirements using the "requirementType" discriminator.
type Requirements []Requirement

// Clone deep-copies every requirement.
func (rs Requirements) Clone() Requirements {
	if rs == nil {
		return nil
	}
	out := make(Requirements, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// ApplicableTo returns the requirements active in serviceContext.
func (rs Requirements) ApplicableTo(serviceContext string) Requirements {
	var out Requirements
	for _, r := range rs {
		if r.Common().AppliesTo(serviceContext) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON writes each requirement with its discriminator as the first field.
func (rs Requirements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode %s requirement: %w", r.Kind(), err)
		}
		kind, _ := json.Marshal(r.Kind())
		buf.WriteString(`{"requirementType":`)
		buf.Write(kind)
		if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
			buf.WriteByte(',')
			buf.Write(inner)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a list of discriminated requirements. Unknown kinds are an error.
func (rs *Requirements) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Requirements, 0, len(raw))
	for i, item := range raw {
		var head struct {
			Kind RequirementKind `json:"requirementType"`
		}
		if err := json.Unmarshal(item, &head); err != nil {
			return fmt.Errorf("requirement %d: %w", i, err)
		}
		factory, ok := requirementFactories[head.Kind]
		if !ok {
			return fmt.Errorf("requirement %d: unknown requirement type %q", i, head.Kind)
		}
		r := factory()
		if err := json.Unmarshal(item, r); err != nil {
			return fmt.Errorf("requirement %d (%s): %w", i, head.Kind, err)
		}
		out = append(out, r)
	}
	*rs = out
	return nil
}
