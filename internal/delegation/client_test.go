package delegation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"broker/internal/platform/httpclient"
	"broker/pkg/domain"
)

type ClientSuite struct {
	suite.Suite
	server *httptest.Server
	client *Client
	last   partiesBody
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&s.last)
		if s.last.OfferedBy == "923609016" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if s.last.OfferedBy == "916455380" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/roles":
			_, _ = w.Write([]byte(`[{"roleCode":"DAGL"},{"roleCode":"REGN"}]`))
		case "/rights":
			_, _ = w.Write([]byte(`[{"action":"Read","permit":true},{"action":"Write","permit":false}]`))
		}
	}))
	s.client = NewClient(s.server.URL+"/", httpclient.New())
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) TestHasRole() {
	person, err := domain.ParseParty("01019010046")
	s.Require().NoError(err)
	org := domain.NewOrganization("991825827")

	s.Run("role held", func() {
		ok, err := s.client.HasRole(context.Background(), person, org, "dagl")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("01019010046", s.last.CoveredBy)
	})

	s.Run("role not held", func() {
		ok, err := s.client.HasRole(context.Background(), person, org, "LEDE")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("no relation", func() {
		ok, err := s.client.HasRole(context.Background(), person, domain.NewOrganization("923609016"), "DAGL")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("backend down", func() {
		_, err := s.client.HasRole(context.Background(), person, domain.NewOrganization("916455380"), "DAGL")
		s.Error(err)
	})
}

func (s *ClientSuite) TestHasRights() {
	coveredBy := domain.NewOrganization("974760673")
	offeredBy := domain.NewOrganization("991825827")

	ok, err := s.client.HasRights(context.Background(), coveredBy, offeredBy, "4629", "2", []string{"Read"})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("4629", s.last.ServiceCode)

	ok, err = s.client.HasRights(context.Background(), coveredBy, offeredBy, "4629", "2", []string{"Read", "Write"})
	s.Require().NoError(err)
	s.False(ok, "denied right must fail the check")
}
