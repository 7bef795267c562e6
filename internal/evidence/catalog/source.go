package catalog

import (
	"context"
	"net/http"
	"strings"

	"broker/internal/evidence/models"
	"broker/internal/platform/config"
	"broker/internal/platform/httpclient"
)

// catalogPath is appended to a source's base URL to list its datasets.
const catalogPath = "/evidencecodes"

// HTTPSourceFetcher reads descriptor lists from evidence sources over HTTP.
type HTTPSourceFetcher struct {
	doer httpclient.Doer
}

func NewHTTPSourceFetcher(doer httpclient.Doer) *HTTPSourceFetcher {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &HTTPSourceFetcher{doer: doer}
}

// Fetch lists the datasets published by src. Descriptors that leave Source or
// HarvestURL empty are completed from the source configuration.
func (f *HTTPSourceFetcher) Fetch(ctx context.Context, src config.EvidenceSource) ([]models.EvidenceCodeDescriptor, error) {
	base := strings.TrimRight(src.BaseURL, "/")
	var list []models.EvidenceCodeDescriptor
	err := httpclient.DoJSON(ctx, f.doer, httpclient.Request{
		Upstream: src.Name,
		Method:   http.MethodGet,
		URL:      base + catalogPath,
	}, &list)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Source == "" {
			list[i].Source = src.Name
		}
		if list[i].HarvestURL == "" {
			list[i].HarvestURL = base + "/" + list[i].Name
		}
	}
	return list, nil
}
