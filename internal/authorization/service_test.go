package authorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"broker/internal/authorization/mocks"
	"broker/internal/entityregistry"
	"broker/internal/evidence/models"
	"broker/internal/platform/config"
	"broker/internal/servicecontext"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/audit"
	"broker/pkg/requestcontext"
	"broker/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	catalog *mocks.MockCatalog
	policy  *mocks.MockPolicyEngine
	consent *mocks.MockConsentInitiator
	status  *mocks.MockStatusResolver
	store   *mocks.MockAccreditationStore
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.catalog = mocks.NewMockCatalog(s.ctrl)
	s.policy = mocks.NewMockPolicyEngine(s.ctrl)
	s.consent = mocks.NewMockConsentInitiator(s.ctrl)
	s.status = mocks.NewMockStatusResolver(s.ctrl)
	s.store = mocks.NewMockAccreditationStore(s.ctrl)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	registry := mocks.NewMockEntityRegistry(s.ctrl)
	registry.EXPECT().Lookup(gomock.Any(), gomock.Any()).
		Return(&entityregistry.Unit{LegalForm: "AS"}, nil).AnyTimes()
	contexts, err := servicecontext.NewRegistry([]config.ServiceContextConfig{{ID: "1", Name: "sc1"}})
	s.Require().NoError(err)

	validator := NewValidator(s.catalog, s.policy, registry, contexts, WithValidatorClock(func() time.Time { return s.now }))
	s.service = New(validator, s.consent, s.status, s.store)

	ctx := requestcontext.WithServiceContext(context.Background(), "sc1")
	ctx = requestcontext.WithTime(ctx, s.now)
	s.ctx = requestcontext.WithAuthenticatedParty(ctx, testutil.MustParty(testutil.TestParties.Requestor))
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestAuthorizeIssuesAccreditation() {
	consent := &models.ConsentRequirement{ServiceCode: "5616", ServiceEdition: "1"}
	s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return([]models.EvidenceCodeDescriptor{
		testutil.NewDescriptor("Open").InContexts("sc1").WithParameter("year", models.ParamTypeNumber, true).Build(),
		testutil.NewDescriptor("Consented").InContexts("sc1").WithRequirements(consent).Build(),
	}, nil)
	s.policy.EXPECT().ValidateRequirements(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, nil)
	s.consent.EXPECT().Initiate(gomock.Any(), gomock.Any(), []*models.ConsentRequirement{consent}).
		DoAndReturn(func(_ context.Context, acc *models.Accreditation, _ []*models.ConsentRequirement) error {
			acc.ConsentRequestID = "consent-1"
			return nil
		})
	s.status.EXPECT().GetStatus(gomock.Any(), gomock.Any(), gomock.Any(), true).
		DoAndReturn(func(_ context.Context, _ *models.Accreditation, d *models.EvidenceCodeDescriptor, _ bool) models.EvidenceStatus {
			if d.Name == "Consented" {
				return models.NewStatus(d.Name, models.StatusPendingConsent)
			}
			return models.NewStatus(d.Name, models.StatusAvailable)
		}).Times(2)

	var stored *models.Accreditation
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, acc *models.Accreditation) error {
			stored = acc
			return nil
		})

	req := request("Open", "Consented")
	req.EvidenceRequests[0].Parameters = []models.EvidenceParameterValue{{Name: "year", Value: float64(2025)}}
	req.ConsentReference = "ref-1"
	req.LanguageCode = "nb"

	acc, err := s.service.Authorize(s.ctx, req)
	s.Require().NoError(err)
	s.Same(stored, acc)

	s.NotEmpty(acc.ID)
	s.Equal(testutil.TestParties.Requestor, acc.Owner)
	s.Equal(testutil.TestParties.Requestor, acc.Requestor.Key())
	s.Equal(testutil.TestParties.Subject, acc.SubjectKey())
	s.Equal("sc1", acc.ServiceContext)
	s.Equal(s.now, acc.Issued)
	s.Equal(s.now, acc.LastChanged)
	s.Equal(s.now.Add(DefaultValidity), acc.ValidTo)
	s.Equal("ref-1", acc.ConsentReference)
	s.Equal("nb", acc.LanguageCode)
	s.Equal("consent-1", acc.ConsentRequestID)
	s.Require().NotNil(acc.AggregateStatus)
	s.Equal(models.StatusPendingConsent, *acc.AggregateStatus)

	s.Require().Len(acc.EvidenceCodes, 2)
	for _, d := range acc.EvidenceCodes {
		s.Empty(d.Requirements)
	}
	s.Equal(float64(2025), acc.EvidenceCodes[0].Parameters[0].Value)
}

type auditCapture struct{ events []audit.Event }

func (c *auditCapture) Emit(_ context.Context, e audit.Event) error {
	c.events = append(c.events, e)
	return nil
}

func (s *ServiceSuite) TestAuthorizeIsAudited() {
	trail := &auditCapture{}
	service := New(s.service.validator, s.consent, s.status, s.store, WithAuditLogger(audit.NewLogger(nil, trail)))

	s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return([]models.EvidenceCodeDescriptor{
		testutil.NewDescriptor("Open").InContexts("sc1").Build(),
	}, nil)
	s.policy.EXPECT().ValidateRequirements(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, nil)
	s.consent.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.status.EXPECT().GetStatus(gomock.Any(), gomock.Any(), gomock.Any(), true).
		Return(models.NewStatus("Open", models.StatusAvailable))
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	acc, err := service.Authorize(s.ctx, request("Open"))
	s.Require().NoError(err)

	s.Require().Len(trail.events, 1)
	got := trail.events[0]
	s.Equal(string(audit.EventAccreditationIssued), got.Action)
	s.Equal(acc.ID, got.AccreditationID)
	s.Equal(testutil.TestParties.Subject, got.Subject)
	s.Equal("sc1", got.ServiceContext)
	s.Equal([]string{"Open"}, got.EvidenceCodes)
	s.True(s.now.Equal(got.Timestamp))

	s.Run("rejected requests are not audited", func() {
		_, err := service.Authorize(requestcontext.WithServiceContext(context.Background(), "sc1"), request("Open"))
		s.Require().Error(err)
		s.Len(trail.events, 1)
	})
}

func (s *ServiceSuite) TestAuthorizeRequiresOwner() {
	_, err := s.service.Authorize(requestcontext.WithServiceContext(context.Background(), "sc1"), request("Open"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestValidationFailureStoresNothing() {
	s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return(nil, nil)
	_, err := s.service.Authorize(s.ctx, request("Missing"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownEvidenceCode))
}

func (s *ServiceSuite) TestCollaboratorFailures() {
	offer := func() {
		s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return([]models.EvidenceCodeDescriptor{
			testutil.NewDescriptor("Open").InContexts("sc1").Build(),
		}, nil)
		s.policy.EXPECT().ValidateRequirements(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, nil)
	}

	s.Run("consent backend down", func() {
		offer()
		s.consent.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeServiceNotAvailable, "down"))
		_, err := s.service.Authorize(s.ctx, request("Open"))
		s.True(dErrors.HasCode(err, dErrors.CodeServiceNotAvailable))
	})

	s.Run("store failure", func() {
		offer()
		s.consent.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		s.status.EXPECT().GetStatus(gomock.Any(), gomock.Any(), gomock.Any(), true).
			Return(models.NewStatus("Open", models.StatusAvailable))
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
		_, err := s.service.Authorize(s.ctx, request("Open"))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestDirectAccreditationIsNotPersisted() {
	consent := &models.ConsentRequirement{ServiceCode: "5616", ServiceEdition: "1"}
	s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return([]models.EvidenceCodeDescriptor{
		testutil.NewDescriptor("Consented").InContexts("sc1").WithRequirements(consent).Build(),
	}, nil)
	s.policy.EXPECT().ValidateRequirements(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, nil)
	s.status.EXPECT().GetStatus(gomock.Any(), gomock.Any(), gomock.Any(), true).
		Return(models.NewStatus("Consented", models.StatusAvailable))

	acc, err := s.service.DirectAccreditation(s.ctx, request("Consented"))
	s.Require().NoError(err)
	s.NotEmpty(acc.ID)
	s.Equal(testutil.TestParties.Requestor, acc.Owner)
	s.Empty(acc.ConsentRequestID)
	s.Require().NotNil(acc.AggregateStatus)
	s.Equal(models.StatusAvailable, *acc.AggregateStatus)

	s.Run("requires an owner", func() {
		_, err := s.service.DirectAccreditation(requestcontext.WithServiceContext(context.Background(), "sc1"), request("Consented"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
