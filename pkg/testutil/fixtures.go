package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"broker/internal/evidence/models"
	"broker/pkg/domain"
)

// TestParties are valid identifiers for deterministic test data.
var TestParties = struct {
	Requestor string
	Subject   string
	Other     string
	Agency    string
	Person    string
	Person2   string
}{
	Requestor: "991825827",
	Subject:   "974760673",
	Other:     "923609016",
	Agency:    "889640782",
	Person:    "01019010046",
	Person2:   "15058510170",
}

// MustParty parses raw or panics.
func MustParty(raw string) domain.Party {
	p, err := domain.ParseParty(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Clock is a manually advanced time source safe for concurrent use.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock starts a clock at t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// DescriptorBuilder assembles dataset descriptors for tests.
type DescriptorBuilder struct {
	d models.EvidenceCodeDescriptor
}

// NewDescriptor starts a synchronous, non-public dataset owned by source "test".
func NewDescriptor(name string) *DescriptorBuilder {
	return &DescriptorBuilder{d: models.EvidenceCodeDescriptor{
		Name:   name,
		Source: "test",
	}}
}

func (b *DescriptorBuilder) InContexts(names ...string) *DescriptorBuilder {
	b.d.ServiceContexts = append(b.d.ServiceContexts, names...)
	return b
}

func (b *DescriptorBuilder) WithRequirements(rs ...models.Requirement) *DescriptorBuilder {
	b.d.Requirements = append(b.d.Requirements, rs...)
	return b
}

func (b *DescriptorBuilder) WithParameter(name string, typ models.ParamType, required bool) *DescriptorBuilder {
	b.d.Parameters = append(b.d.Parameters, models.EvidenceParameter{Name: name, Type: typ, Required: required})
	return b
}

func (b *DescriptorBuilder) WithValue(name string, typ models.ValueType) *DescriptorBuilder {
	b.d.Values = append(b.d.Values, models.EvidenceValueDefinition{Name: name, ValueType: typ})
	return b
}

func (b *DescriptorBuilder) WithAlias(serviceContext, alias string) *DescriptorBuilder {
	if b.d.DatasetAliases == nil {
		b.d.DatasetAliases = map[string]string{}
	}
	b.d.DatasetAliases[serviceContext] = alias
	return b
}

func (b *DescriptorBuilder) Async() *DescriptorBuilder {
	b.d.IsAsynchronous = true
	return b
}

func (b *DescriptorBuilder) Public() *DescriptorBuilder {
	b.d.IsPublic = true
	return b
}

func (b *DescriptorBuilder) MaxValidDays(days int) *DescriptorBuilder {
	b.d.MaxValidDays = &days
	return b
}

func (b *DescriptorBuilder) ValidBetween(from, to time.Time) *DescriptorBuilder {
	b.d.ValidFrom = &from
	b.d.ValidTo = &to
	return b
}

func (b *DescriptorBuilder) HarvestURL(url string) *DescriptorBuilder {
	b.d.HarvestURL = url
	return b
}

func (b *DescriptorBuilder) Timeout(seconds int) *DescriptorBuilder {
	b.d.TimeoutSeconds = seconds
	return b
}

func (b *DescriptorBuilder) Source(name string) *DescriptorBuilder {
	b.d.Source = name
	return b
}

func (b *DescriptorBuilder) Build() models.EvidenceCodeDescriptor {
	return b.d.Clone()
}

// NewAccreditation returns a grant from TestParties.Requestor about TestParties.Subject,
// owned by the requestor and valid for 30 days from issued.
func NewAccreditation(serviceContext string, issued time.Time, codes ...models.EvidenceCodeDescriptor) *models.Accreditation {
	subject := MustParty(TestParties.Subject)
	stripped := make([]models.EvidenceCodeDescriptor, len(codes))
	for i := range codes {
		stripped[i] = codes[i].Stripped()
	}
	return &models.Accreditation{
		ID:             uuid.NewString(),
		Requestor:      MustParty(TestParties.Requestor),
		Subject:        &subject,
		Owner:          TestParties.Requestor,
		ServiceContext: serviceContext,
		EvidenceCodes:  stripped,
		Issued:         issued,
		LastChanged:    issued,
		ValidTo:        issued.Add(30 * 24 * time.Hour),
	}
}
