// Package delegation verifies role and rights delegations with the delegation backend.
package delegation

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"broker/internal/platform/httpclient"
	"broker/pkg/domain"
)

const upstreamName = "delegation"

// Client talks to the delegation backend. Parties travel in request bodies,
// never in URLs, since they may be personal identifiers.
type Client struct {
	baseURL string
	doer    httpclient.Doer
}

func NewClient(baseURL string, doer httpclient.Doer) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

type partiesBody struct {
	CoveredBy      string `json:"coveredBy"`
	OfferedBy      string `json:"offeredBy"`
	ServiceCode    string `json:"serviceCode,omitempty"`
	ServiceEdition string `json:"serviceEdition,omitempty"`
}

type roleEntry struct {
	RoleCode string `json:"roleCode"`
}

type rightEntry struct {
	Action string `json:"action"`
	Permit bool   `json:"permit"`
}

// HasRole reports whether coveredBy holds roleCode on behalf of offeredBy.
// Role codes compare case-insensitively.
func (c *Client) HasRole(ctx context.Context, coveredBy, offeredBy domain.Party, roleCode string) (bool, error) {
	var roles []roleEntry
	found, err := c.post(ctx, "/roles", partiesBody{
		CoveredBy: coveredBy.Key(),
		OfferedBy: offeredBy.Key(),
	}, &roles)
	if err != nil || !found {
		return false, err
	}
	return slices.ContainsFunc(roles, func(r roleEntry) bool {
		return strings.EqualFold(r.RoleCode, roleCode)
	}), nil
}

// HasRights reports whether coveredBy is permitted every action in rights on the
// given service of offeredBy.
func (c *Client) HasRights(ctx context.Context, coveredBy, offeredBy domain.Party, serviceCode, serviceEdition string, rights []string) (bool, error) {
	var granted []rightEntry
	found, err := c.post(ctx, "/rights", partiesBody{
		CoveredBy:      coveredBy.Key(),
		OfferedBy:      offeredBy.Key(),
		ServiceCode:    serviceCode,
		ServiceEdition: serviceEdition,
	}, &granted)
	if err != nil || !found {
		return false, err
	}
	for _, want := range rights {
		if !slices.ContainsFunc(granted, func(r rightEntry) bool {
			return r.Permit && strings.EqualFold(r.Action, want)
		}) {
			return false, nil
		}
	}
	return true, nil
}

// post returns found=false when the backend knows no relation between the parties.
func (c *Client) post(ctx context.Context, path string, body any, out any) (bool, error) {
	err := httpclient.DoJSON(ctx, c.doer, httpclient.Request{
		Upstream: upstreamName,
		Method:   http.MethodPost,
		URL:      c.baseURL + path,
		Body:     body,
	}, out)
	if ue, ok := httpclient.AsUpstreamError(err); ok && ue.Category == httpclient.ErrorNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
