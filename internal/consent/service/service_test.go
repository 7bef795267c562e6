package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"broker/internal/consent/models"
	"broker/internal/consent/service/mocks"
	evmodels "broker/internal/evidence/models"
	"broker/internal/platform/httpclient"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/domain"
	"broker/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	service *Service
	now     time.Time
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.backend = mocks.NewMockBackend(s.ctrl)
	s.service = New(s.backend, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) accreditation(code string, validTo time.Time) *evmodels.Accreditation {
	subject := domain.NewOrganization("923609016")
	return &evmodels.Accreditation{
		ID:                "acc-1",
		Requestor:         domain.NewOrganization("991825827"),
		Subject:           &subject,
		AuthorizationCode: code,
		ValidTo:           validTo,
	}
}

func (s *ServiceSuite) TestStatus() {
	future := s.now.Add(24 * time.Hour)

	s.Run("no authorization code is pending", func() {
		status, err := s.service.Status(s.ctx, s.accreditation("", future))
		s.Require().NoError(err)
		s.Equal(models.StatusPending, status)
	})

	s.Run("denied sentinel is denied", func() {
		status, err := s.service.Status(s.ctx, s.accreditation(evmodels.ConsentDeniedCode, future))
		s.Require().NoError(err)
		s.Equal(models.StatusDenied, status)
	})

	s.Run("expired accreditation is expired without asking the backend", func() {
		status, err := s.service.Status(s.ctx, s.accreditation("code", s.now.Add(-time.Minute)))
		s.Require().NoError(err)
		s.Equal(models.StatusExpired, status)
	})

	s.Run("backend decides otherwise", func() {
		s.backend.EXPECT().Status(gomock.Any(), models.CodeRequest{
			AuthorizationCode: "code",
			CoveredBy:         "991825827",
			OfferedBy:         "923609016",
		}).Return(models.StatusRevoked, nil)

		status, err := s.service.Status(s.ctx, s.accreditation("code", future))
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, status)
	})

	s.Run("backend outage is service not available", func() {
		s.backend.EXPECT().Status(gomock.Any(), gomock.Any()).
			Return(models.Status(""), httpclient.NewUpstreamError(httpclient.ErrorOutage, "consent", "down", errors.New("dial")))

		_, err := s.service.Status(s.ctx, s.accreditation("code", future))
		s.True(dErrors.HasCode(err, dErrors.CodeServiceNotAvailable))
	})

	s.Run("unknown backend status is an error", func() {
		s.backend.EXPECT().Status(gomock.Any(), gomock.Any()).Return(models.Status("Maybe"), nil)

		_, err := s.service.Status(s.ctx, s.accreditation("code", future))
		s.Error(err)
	})
}

func (s *ServiceSuite) TestJWTIsCachedUntilExpiry() {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(s.now.Add(10 * time.Minute)),
	}).SignedString([]byte("k"))
	s.Require().NoError(err)
	acc := s.accreditation("code", s.now.Add(time.Hour))

	s.backend.EXPECT().Token(gomock.Any(), gomock.Any()).Return(token, nil).Times(2)

	for range 3 {
		got, err := s.service.JWT(s.ctx, acc)
		s.Require().NoError(err)
		s.Equal(token, got)
	}

	later := requestcontext.WithTime(context.Background(), s.now.Add(10*time.Minute))
	_, err = s.service.JWT(later, acc)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestJWTWithoutExpiryIsNotCached() {
	acc := s.accreditation("code", s.now.Add(time.Hour))
	s.backend.EXPECT().Token(gomock.Any(), gomock.Any()).Return("opaque", nil).Times(2)

	for range 2 {
		got, err := s.service.JWT(s.ctx, acc)
		s.Require().NoError(err)
		s.Equal("opaque", got)
	}
}

func (s *ServiceSuite) TestInitiate() {
	s.Run("deduplicates rights and records the request id", func() {
		acc := s.accreditation("", s.now.Add(time.Hour))
		s.backend.EXPECT().Initiate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.InitiateRequest) (string, error) {
				s.Len(req.Rights, 1)
				s.True(req.RequiresSrr)
				s.Equal("923609016", req.OfferedBy)
				return "cr-42", nil
			})

		err := s.service.Initiate(s.ctx, acc, []*evmodels.ConsentRequirement{
			{ServiceCode: "5616", ServiceEdition: "1"},
			{ServiceCode: "5616", ServiceEdition: "1", RequiresSrr: true},
		})
		s.Require().NoError(err)
		s.Equal("cr-42", acc.ConsentRequestID)
	})

	s.Run("nothing to initiate", func() {
		s.NoError(s.service.Initiate(s.ctx, s.accreditation("", s.now), nil))
	})

	s.Run("subject required", func() {
		acc := s.accreditation("", s.now.Add(time.Hour))
		acc.Subject = nil
		err := s.service.Initiate(s.ctx, acc, []*evmodels.ConsentRequirement{{ServiceCode: "1"}})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubject))
	})
}

func (s *ServiceSuite) TestLogUse() {
	acc := s.accreditation("code", s.now.Add(time.Hour))
	s.backend.EXPECT().LogUse(gomock.Any(), models.UseRecord{
		AuthorizationCode: "code",
		EvidenceCodeName:  "Bankruptcy",
		Timestamp:         s.now,
	}).Return(nil)

	s.NoError(s.service.LogUse(s.ctx, acc, "Bankruptcy"))
}
