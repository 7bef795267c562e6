package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"broker/internal/accreditation"
	"broker/internal/evidence/harvest"
	"broker/internal/evidence/models"
	"broker/internal/ratelimit"
	ratelimitconfig "broker/internal/ratelimit/config"
	ratelimitmw "broker/internal/ratelimit/middleware"
	ratelimitmodels "broker/internal/ratelimit/models"
	"broker/internal/ratelimit/store/bucket"
	"broker/internal/servicecontext"
	"broker/internal/transport/http/mocks"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/httputil"
	authmw "broker/pkg/platform/middleware/auth"
	"broker/pkg/requestcontext"
	"broker/pkg/testutil"
)

type tokenStub struct{}

func (tokenStub) ValidateToken(token string) (*authmw.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &authmw.Claims{ConsumerID: "0192:" + testutil.TestParties.Requestor, Scopes: []string{"broker:read"}}, nil
}

type HandlerSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	authorizer     *mocks.MockAuthorizer
	accreditations *mocks.MockAccreditations
	harvester      *mocks.MockHarvester
	catalog        *mocks.MockCatalog
	contexts       *mocks.MockServiceContexts
	router         http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.authorizer = mocks.NewMockAuthorizer(s.ctrl)
	s.accreditations = mocks.NewMockAccreditations(s.ctrl)
	s.harvester = mocks.NewMockHarvester(s.ctrl)
	s.catalog = mocks.NewMockCatalog(s.ctrl)
	s.contexts = mocks.NewMockServiceContexts(s.ctrl)

	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(s.authorizer, s.accreditations, s.harvester, s.catalog, s.contexts, WithLogger(logger))
	s.router = NewRouter(h, RouterConfig{
		Logger:       logger,
		Tokens:       tokenStub{},
		AdminToken:   "admin-secret",
		MaxBodyBytes: 1 << 20,
	})
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func authed(extra ...string) map[string]string {
	h := map[string]string{"Authorization": "Bearer good", "X-Service-Context": "sc1"}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func (s *HandlerSuite) errorBody(w *httptest.ResponseRecorder) httputil.ErrorResponse {
	var body httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *HandlerSuite) accreditation(codes ...models.EvidenceCodeDescriptor) *models.Accreditation {
	return testutil.NewAccreditation("sc1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), codes...)
}

func (s *HandlerSuite) TestAuthorize() {
	s.Run("issues an accreditation", func() {
		acc := s.accreditation(testutil.NewDescriptor("Basic").InContexts("sc1").Build())
		s.authorizer.EXPECT().Authorize(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, req *models.AuthorizationRequest) (*models.Accreditation, error) {
				s.Equal(testutil.TestParties.Requestor, requestcontext.AuthenticatedParty(ctx).Key())
				s.Equal("sc1", requestcontext.ServiceContext(ctx))
				s.Equal("good", requestcontext.AccessToken(ctx))
				s.Equal(testutil.TestParties.Requestor, req.Requestor)
				s.Equal("nb", req.LanguageCode)
				s.Require().Len(req.EvidenceRequests, 1)
				s.Equal("Basic", req.EvidenceRequests[0].EvidenceCodeName)
				s.Equal(float64(2025), req.EvidenceRequests[0].Parameters[0].Value)
				return acc, nil
			})

		w := s.do(http.MethodPost, "/authorization", map[string]any{
			"requestor":    " " + testutil.TestParties.Requestor + " ",
			"subject":      testutil.TestParties.Subject,
			"languageCode": "NB",
			"evidenceRequests": []map[string]any{{
				"evidenceCodeName": "Basic",
				"parameters":       []map[string]any{{"evidenceParamName": "year", "value": 2025}},
			}},
		}, authed())

		s.Equal(http.StatusCreated, w.Code)
		s.Equal("/accreditations/"+acc.ID, w.Header().Get("Location"))
		var got models.Accreditation
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Equal(acc.ID, got.ID)
	})

	s.Run("missing token", func() {
		w := s.do(http.MethodPost, "/authorization", map[string]any{}, nil)
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal(int(dErrors.CodeUnauthorized), s.errorBody(w).Code)
	})

	s.Run("malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/authorization", strings.NewReader("{"))
		for k, v := range authed() {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal(int(dErrors.CodeInvalidAuthorizationRequest), s.errorBody(w).Code)
	})

	s.Run("domain failures keep their code", func() {
		s.authorizer.EXPECT().Authorize(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeAuthorizationFailed, "Basic: requirement not met"))
		w := s.do(http.MethodPost, "/authorization", map[string]any{
			"requestor":        testutil.TestParties.Requestor,
			"evidenceRequests": []map[string]any{{"evidenceCodeName": "Basic"}},
		}, authed())
		s.Equal(http.StatusForbidden, w.Code)
		body := s.errorBody(w)
		s.Equal(int(dErrors.CodeAuthorizationFailed), body.Code)
		s.Equal("Basic: requirement not met", body.Description)
		s.Empty(body.Details)
	})
}

func (s *HandlerSuite) TestHarvest() {
	acc := s.accreditation(testutil.NewDescriptor("Basic").InContexts("sc1").Build())

	s.Run("buffered harvest with token options", func() {
		s.accreditations.EXPECT().Get(gomock.Any(), acc.ID).Return(acc, nil)
		s.harvester.EXPECT().Harvest(gomock.Any(), "Basic", acc, harvest.Options{
			ReuseClientAccessToken:                  true,
			FetchSupplierAccessTokenOnBehalfOfOwner: true,
			OverriddenAccessToken:                   "supplier-token",
		}).Return(&models.Evidence{
			Name:           "Basic",
			EvidenceStatus: models.NewStatus("Basic", models.StatusAvailable),
			Values:         []models.EvidenceValue{{Name: "name", ValueType: models.ValueTypeString, Value: "ACME"}},
		}, nil)

		w := s.do(http.MethodGet, "/evidence/"+acc.ID+"/Basic?reuseToken=true&tokenOnBehalfOfOwner=1", nil,
			authed(SupplierAccessTokenHeader, "supplier-token"))
		s.Equal(http.StatusOK, w.Code)
		var ev models.Evidence
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ev))
		s.Equal("Basic", ev.Name)
		s.Require().Len(ev.Values, 1)
		s.Equal("ACME", ev.Values[0].Value)
	})

	s.Run("still waiting carries a retry hint", func() {
		retryAt := time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC)
		s.accreditations.EXPECT().Get(gomock.Any(), acc.ID).Return(acc, nil)
		s.harvester.EXPECT().Harvest(gomock.Any(), "Basic", acc, gomock.Any()).
			Return(nil, dErrors.StillWaiting("evidence is not ready", &retryAt))

		w := s.do(http.MethodGet, "/evidence/"+acc.ID+"/Basic", nil, authed())
		s.Equal(http.StatusAccepted, w.Code)
		s.Equal(retryAt.Format(http.TimeFormat), w.Header().Get("Retry-After"))
		s.Equal(int(dErrors.CodeAsyncEvidenceStillWaiting), s.errorBody(w).Code)
	})

	s.Run("unknown accreditation", func() {
		s.accreditations.EXPECT().Get(gomock.Any(), "missing").
			Return(nil, dErrors.New(dErrors.CodeNonExistentAccreditation, "accreditation not found"))
		w := s.do(http.MethodGet, "/evidence/missing/Basic", nil, authed())
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *HandlerSuite) TestStreamedHarvest() {
	d := testutil.NewDescriptor("Document").InContexts("sc1").WithValue("pdf", models.ValueTypeBinary).Build()
	acc := s.accreditation(d)

	s.accreditations.EXPECT().Get(gomock.Any(), acc.ID).Return(acc, nil)
	s.harvester.EXPECT().HarvestStream(gomock.Any(), "Document", acc, gomock.Any()).
		Return(io.NopCloser(strings.NewReader("%PDF-1.7")), "application/pdf", nil)

	w := s.do(http.MethodGet, "/evidence/"+acc.ID+"/Document", nil, authed())
	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal("%PDF-1.7", w.Body.String())
}

func (s *HandlerSuite) TestEvidenceStatus() {
	list := []models.EvidenceStatus{models.NewStatus("Basic", models.StatusPendingConsent)}
	s.accreditations.EXPECT().Statuses(gomock.Any(), "acc-1").Return(list, nil)

	w := s.do(http.MethodGet, "/evidence/acc-1", nil, authed())
	s.Equal(http.StatusOK, w.Code)
	var got []models.EvidenceStatus
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal(models.StatusPendingConsent, got[0].Status)
}

func (s *HandlerSuite) TestDirectHarvest() {
	d := testutil.NewDescriptor("Basic").InContexts("sc1").WithParameter("year", models.ParamTypeNumber, false).Build()
	acc := s.accreditation(d)

	s.Run("validates then harvests without storing", func() {
		s.catalog.EXPECT().Lookup(gomock.Any(), "Basic").Return(&d, nil)
		s.authorizer.EXPECT().DirectAccreditation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.AuthorizationRequest) (*models.Accreditation, error) {
				s.Equal(testutil.TestParties.Requestor, req.Requestor)
				s.Equal(testutil.TestParties.Subject, req.Subject)
				s.Require().Len(req.EvidenceRequests[0].Parameters, 1)
				s.Equal(float64(2024), req.EvidenceRequests[0].Parameters[0].Value)
				return acc, nil
			})
		s.harvester.EXPECT().Harvest(gomock.Any(), "Basic", acc, harvest.Options{Ephemeral: true}).
			Return(&models.Evidence{Name: "Basic"}, nil)

		w := s.do(http.MethodGet, "/directharvest/Basic?subject="+testutil.TestParties.Subject+"&year=2024", nil, authed())
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("parameter of the wrong type", func() {
		s.catalog.EXPECT().Lookup(gomock.Any(), "Basic").Return(&d, nil)
		w := s.do(http.MethodGet, "/directharvest/Basic?year=last", nil, authed())
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal(int(dErrors.CodeInvalidEvidenceRequestParameter), s.errorBody(w).Code)
	})
}

func (s *HandlerSuite) TestOpenData() {
	d := testutil.NewDescriptor("Public").Public().WithParameter("flag", models.ParamTypeBoolean, false).Build()

	s.catalog.EXPECT().Lookup(gomock.Any(), "Public").Return(&d, nil)
	s.harvester.EXPECT().HarvestOpenData(gomock.Any(), gomock.Any(), testutil.TestParties.Subject).
		DoAndReturn(func(_ context.Context, got *models.EvidenceCodeDescriptor, _ string) (*models.Evidence, error) {
			s.Equal(true, got.Parameters[0].Value)
			return &models.Evidence{Name: "Public"}, nil
		})

	w := s.do(http.MethodGet, "/opendata/Public/"+testutil.TestParties.Subject+"?flag=true", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Nil(d.Parameters[0].Value)
}

func (s *HandlerSuite) TestAccreditations() {
	s.Run("query forwards filters", func() {
		s.accreditations.EXPECT().Query(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p accreditation.QueryParams) ([]*models.Accreditation, error) {
				s.Equal(testutil.TestParties.Other, p.Requestor)
				s.Require().NotNil(p.ChangedAfter)
				s.True(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Equal(*p.ChangedAfter))
				return nil, nil
			})
		w := s.do(http.MethodGet, "/accreditations?requestor="+testutil.TestParties.Other+"&changedAfter=2026-01-02T03:04:05Z", nil, authed())
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`[]`, w.Body.String())
	})

	s.Run("query rejects a malformed timestamp", func() {
		w := s.do(http.MethodGet, "/accreditations?changedAfter=yesterday", nil, authed())
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("delete", func() {
		s.accreditations.EXPECT().Delete(gomock.Any(), "acc-1").Return(nil)
		w := s.do(http.MethodDelete, "/accreditations/acc-1", nil, authed())
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("delete by another party", func() {
		s.accreditations.EXPECT().Delete(gomock.Any(), "acc-2").
			Return(dErrors.New(dErrors.CodeForbidden, "accreditation belongs to another party"))
		w := s.do(http.MethodDelete, "/accreditations/acc-2", nil, authed())
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("consent answer", func() {
		s.accreditations.EXPECT().UpdateConsent(gomock.Any(), "acc-1", accreditation.ConsentAnswer{AuthorizationCode: "code-1"}).
			Return(s.accreditation(), nil)
		w := s.do(http.MethodPost, "/accreditations/acc-1/consent", map[string]any{"authorizationCode": " code-1 "}, authed())
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("consent answer needs a code unless denied", func() {
		w := s.do(http.MethodPost, "/accreditations/acc-1/consent", map[string]any{}, authed())
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestMetadata() {
	list := []models.EvidenceCodeDescriptor{testutil.NewDescriptor("Basic").InContexts("sc1").Build()}

	s.Run("full catalog", func() {
		s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return(list, nil)
		w := s.do(http.MethodGet, "/metadata/evidencecodes", nil, nil)
		s.Equal(http.StatusOK, w.Code)
		var got []models.EvidenceCodeDescriptor
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Len(got, 1)
	})

	s.Run("per service context", func() {
		s.catalog.EXPECT().GetForServiceContext(gomock.Any(), "sc1").Return(list, nil)
		w := s.do(http.MethodGet, "/metadata/evidencecodes/sc1", nil, nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("service contexts", func() {
		s.contexts.EXPECT().All().Return([]servicecontext.ServiceContext{{ID: "1", Name: "sc1"}})
		w := s.do(http.MethodGet, "/metadata/servicecontexts", nil, nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"validLanguages":["nb","nn","en"]`)
	})
}

func (s *HandlerSuite) TestAdminRefresh() {
	s.Run("requires the admin token", func() {
		w := s.do(http.MethodPost, "/admin/evidencecodes/refresh", nil, nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("forces a catalog refresh", func() {
		s.catalog.EXPECT().GetCatalog(gomock.Any(), true).
			Return([]models.EvidenceCodeDescriptor{testutil.NewDescriptor("A").Build(), testutil.NewDescriptor("B").Build()}, nil)
		w := s.do(http.MethodPost, "/admin/evidencecodes/refresh", nil, map[string]string{"X-Admin-Token": "admin-secret"})
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"evidenceCodes":2}`, w.Body.String())
	})
}

func (s *HandlerSuite) TestDevelopmentModeAddsDetails() {
	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(s.authorizer, s.accreditations, s.harvester, s.catalog, s.contexts,
		WithLogger(logger), WithDevelopmentMode(true))
	router := NewRouter(h, RouterConfig{Logger: logger, Tokens: tokenStub{}})

	s.accreditations.EXPECT().Get(gomock.Any(), "acc-1").
		Return(nil, dErrors.Wrap(errors.New("connection refused"), dErrors.CodeInternal, "failed to load accreditation"))

	req := httptest.NewRequest(http.MethodGet, "/accreditations/acc-1", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("connection refused", s.errorBody(w).Details)
}

func (s *HandlerSuite) TestRateLimits() {
	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(s.authorizer, s.accreditations, s.harvester, s.catalog, s.contexts, WithLogger(logger))
	limits := &ratelimitconfig.Config{
		IPLimits: map[ratelimitmodels.EndpointClass]ratelimitconfig.Limit{
			ratelimitmodels.ClassPublic: {RequestsPerWindow: 1, Window: time.Minute},
		},
		ConsumerLimits: map[ratelimitmodels.EndpointClass]ratelimitconfig.Limit{
			ratelimitmodels.ClassRead: {RequestsPerWindow: 1, Window: time.Minute},
		},
	}
	limiter := ratelimit.New(bucket.NewInMemoryBucketStore(), ratelimit.WithConfig(limits), ratelimit.WithLogger(logger))
	router := NewRouter(h, RouterConfig{
		Logger:    logger,
		Tokens:    tokenStub{},
		RateLimit: ratelimitmw.New(limiter, logger),
	})
	serve := func(target string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	s.Run("public routes are limited per IP", func() {
		s.catalog.EXPECT().GetCatalog(gomock.Any(), false).Return(nil, nil)
		s.Equal(http.StatusOK, serve("/metadata/evidencecodes", nil).Code)

		w := serve("/metadata/evidencecodes", nil)
		s.Equal(http.StatusTooManyRequests, w.Code)
		s.Equal(1019, s.errorBody(w).Code)
	})

	s.Run("authenticated routes are limited per consumer", func() {
		s.accreditations.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.Equal(http.StatusOK, serve("/accreditations", authed()).Code)
		s.Equal(http.StatusTooManyRequests, serve("/accreditations", authed()).Code)
	})

	s.Run("classes without a budget are refused", func() {
		w := serve("/evidence/acc-1", authed())
		s.Equal(http.StatusTooManyRequests, w.Code)
	})
}

func TestEndpointClass(t *testing.T) {
	tests := []struct {
		method, path string
		want         ratelimitmodels.EndpointClass
	}{
		{http.MethodPost, "/authorization", ratelimitmodels.ClassAuthorize},
		{http.MethodPost, "/accreditations/acc-1/consent", ratelimitmodels.ClassAuthorize},
		{http.MethodGet, "/evidence/acc-1/Basic", ratelimitmodels.ClassHarvest},
		{http.MethodGet, "/directharvest/Basic", ratelimitmodels.ClassHarvest},
		{http.MethodGet, "/accreditations", ratelimitmodels.ClassRead},
		{http.MethodDelete, "/accreditations/acc-1", ratelimitmodels.ClassRead},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if got := endpointClass(r); got != tt.want {
				t.Errorf("endpointClass() = %q, want %q", got, tt.want)
			}
		})
	}
}
