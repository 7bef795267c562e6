package entityregistry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"broker/internal/platform/httpclient"
	"broker/internal/sentinel"
)

// HTTPClient fetches units from the register's REST API. Main units are tried
// first, then sub-units.
type HTTPClient struct {
	baseURL string
	doer    httpclient.Doer
}

func NewHTTPClient(baseURL string, doer httpclient.Doer) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

// FetchUnit returns sentinel.ErrNotFound when neither collection has the number.
// A unit the register reports as gone is returned with Deleted set.
func (c *HTTPClient) FetchUnit(ctx context.Context, orgNo string) (*Unit, error) {
	for _, collection := range []string{"enheter", "underenheter"} {
		unit, err := c.fetch(ctx, collection, orgNo)
		if err == nil {
			return unit, nil
		}
		ue, ok := httpclient.AsUpstreamError(err)
		if !ok {
			return nil, err
		}
		switch {
		case ue.StatusCode == http.StatusGone:
			return &Unit{OrganizationNumber: orgNo, Deleted: true}, nil
		case ue.Category == httpclient.ErrorNotFound:
			continue
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("unit %s: %w", orgNo, sentinel.ErrNotFound)
}

func (c *HTTPClient) fetch(ctx context.Context, collection, orgNo string) (*Unit, error) {
	var raw brregUnit
	err := httpclient.DoJSON(ctx, c.doer, httpclient.Request{
		Upstream: "entityregistry",
		Method:   http.MethodGet,
		URL:      fmt.Sprintf("%s/%s/%s", c.baseURL, collection, orgNo),
	}, &raw)
	if err != nil {
		return nil, err
	}
	return raw.toUnit(), nil
}
