// Package client is the HTTP adapter for the consent backend.
package client

import (
	"context"
	"net/http"
	"strings"

	"broker/internal/consent/models"
	"broker/internal/platform/httpclient"
)

const upstreamName = "consent"

type Client struct {
	baseURL string
	doer    httpclient.Doer
}

func New(baseURL string, doer httpclient.Doer) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

func (c *Client) Initiate(ctx context.Context, req models.InitiateRequest) (string, error) {
	var resp models.InitiateResponse
	if err := c.post(ctx, "/consent/requests", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) Status(ctx context.Context, req models.CodeRequest) (models.Status, error) {
	var resp models.StatusResponse
	if err := c.post(ctx, "/consent/status", req, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) Token(ctx context.Context, req models.CodeRequest) (string, error) {
	var resp models.TokenResponse
	if err := c.post(ctx, "/consent/token", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) LogUse(ctx context.Context, rec models.UseRecord) error {
	return c.post(ctx, "/consent/use", rec, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return httpclient.DoJSON(ctx, c.doer, httpclient.Request{
		Upstream: upstreamName,
		Method:   http.MethodPost,
		URL:      c.baseURL + path,
		Body:     body,
	}, out)
}
