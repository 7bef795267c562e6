package models

import (
	"maps"
	"slices"
	"time"
)

// ParamType is the declared type of an evidence parameter.
type ParamType string

const (
	ParamTypeBoolean    ParamType = "boolean"
	ParamTypeDateTime   ParamType = "dateTime"
	ParamTypeNumber     ParamType = "number"
	ParamTypeString     ParamType = "string"
	ParamTypeAttachment ParamType = "attachment"
)

// ValueType is the declared type of a value returned by a harvest.
type ValueType string

const (
	ValueTypeString     ValueType = "string"
	ValueTypeNumber     ValueType = "number"
	ValueTypeBoolean    ValueType = "boolean"
	ValueTypeDateTime   ValueType = "dateTime"
	ValueTypeURI        ValueType = "uri"
	ValueTypeAmount     ValueType = "amount"
	ValueTypeAttachment ValueType = "attachment"
	ValueTypeJSONSchema ValueType = "jsonSchema"
	ValueTypeBinary     ValueType = "binary"
)

// EvidenceParameter is one entry of a dataset's parameter schema. Value is set
// only on descriptors stored in an accreditation.
type EvidenceParameter struct {
	Name     string    `json:"evidenceParamName"`
	Type     ParamType `json:"paramType"`
	Required bool      `json:"required"`
	Value    any       `json:"value,omitempty"`
}

// EvidenceValueDefinition declares one value a harvest of the dataset returns.
type EvidenceValueDefinition struct {
	Name      string    `json:"evidenceValueName"`
	ValueType ValueType `json:"valueType"`
	Source    string    `json:"source,omitempty"`
}

// EvidenceCodeDescriptor is the canonical dataset definition published by an evidence source.
// Name is the case-sensitive unique key within the catalog.
type EvidenceCodeDescriptor struct {
	Name            string                    `json:"evidenceCodeName"`
	Description     string                    `json:"description,omitempty"`
	Source          string                    `json:"evidenceSource"`
	Parameters      []EvidenceParameter       `json:"parameters,omitempty"`
	Values          []EvidenceValueDefinition `json:"values,omitempty"`
	IsAsynchronous  bool                      `json:"isAsynchronous"`
	IsPublic        bool                      `json:"isPublic"`
	MaxValidDays    *int                      `json:"maxValidDays,omitempty"`
	ValidFrom       *time.Time                `json:"validFrom,omitempty"`
	ValidTo         *time.Time                `json:"validTo,omitempty"`
	Requirements    Requirements              `json:"authorizationRequirements,omitempty"`
	ServiceContexts []string                  `json:"belongsToServiceContexts,omitempty"`
	DatasetAliases  map[string]string         `json:"datasetAliases,omitempty"`
	AliasOf         string                    `json:"aliasOf,omitempty"`
	RequiredScopes  string                    `json:"requiredScopes,omitempty"`
	TimeoutSeconds  int                       `json:"timeout,omitempty"`
	HarvestURL      string                    `json:"harvestUrl,omitempty"`
}

// IsValidAt reports whether now falls inside the descriptor's validity window.
func (d *EvidenceCodeDescriptor) IsValidAt(now time.Time) bool {
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && !now.Before(*d.ValidTo) {
		return false
	}
	return true
}

// BelongsTo reports whether the dataset is offered in serviceContext.
func (d *EvidenceCodeDescriptor) BelongsTo(serviceContext string) bool {
	return slices.Contains(d.ServiceContexts, serviceContext)
}

// ApplicableRequirements returns the requirements active in serviceContext.
func (d *EvidenceCodeDescriptor) ApplicableRequirements(serviceContext string) Requirements {
	return d.Requirements.ApplicableTo(serviceContext)
}

// ConsentRequirement returns the first consent requirement active in serviceContext, if any.
func (d *EvidenceCodeDescriptor) ConsentRequirement(serviceContext string) *ConsentRequirement {
	for _, r := range d.Requirements.ApplicableTo(serviceContext) {
		if c, ok := r.(*ConsentRequirement); ok {
			return c
		}
	}
	return nil
}

// RequiresConsent reports whether the dataset is consent-gated in serviceContext.
func (d *EvidenceCodeDescriptor) RequiresConsent(serviceContext string) bool {
	return d.ConsentRequirement(serviceContext) != nil
}

// RequiresOwnToken reports whether the caller must supply the token forwarded to the source.
func (d *EvidenceCodeDescriptor) RequiresOwnToken(serviceContext string) bool {
	for _, r := range d.Requirements.ApplicableTo(serviceContext) {
		if r.Kind() == KindProvideOwnToken {
			return true
		}
	}
	return false
}

// IsStreamed reports whether the dataset returns a raw byte stream rather than a value list.
func (d *EvidenceCodeDescriptor) IsStreamed() bool {
	for _, v := range d.Values {
		if v.ValueType == ValueTypeBinary {
			return true
		}
	}
	return false
}

// Timeout returns the per-dataset harvest timeout, or def when none is declared.
func (d *EvidenceCodeDescriptor) Timeout(def time.Duration) time.Duration {
	if d.TimeoutSeconds > 0 {
		return time.Duration(d.TimeoutSeconds) * time.Second
	}
	return def
}

// RequiredParameterCount counts parameters marked required.
func (d *EvidenceCodeDescriptor) RequiredParameterCount() int {
	n := 0
	for _, p := range d.Parameters {
		if p.Required {
			n++
		}
	}
	return n
}

// Parameter looks up a parameter definition by name.
func (d *EvidenceCodeDescriptor) Parameter(name string) (EvidenceParameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return EvidenceParameter{}, false
}

// Clone deep-copies the descriptor including its requirements.
func (d *EvidenceCodeDescriptor) Clone() EvidenceCodeDescriptor {
	c := *d
	c.Parameters = slices.Clone(d.Parameters)
	c.Values = slices.Clone(d.Values)
	c.Requirements = d.Requirements.Clone()
	c.ServiceContexts = slices.Clone(d.ServiceContexts)
	c.DatasetAliases = maps.Clone(d.DatasetAliases)
	if d.MaxValidDays != nil {
		v := *d.MaxValidDays
		c.MaxValidDays = &v
	}
	if d.ValidFrom != nil {
		v := *d.ValidFrom
		c.ValidFrom = &v
	}
	if d.ValidTo != nil {
		v := *d.ValidTo
		c.ValidTo = &v
	}
	return c
}

// Stripped returns a copy without requirements, as stored on accreditations.
func (d *EvidenceCodeDescriptor) Stripped() EvidenceCodeDescriptor {
	c := d.Clone()
	c.Requirements = nil
	return c
}

// UpstreamName is the dataset name the owning source knows, resolving aliases.
func (d *EvidenceCodeDescriptor) UpstreamName() string {
	if d.AliasOf != "" {
		return d.AliasOf
	}
	return d.Name
}
