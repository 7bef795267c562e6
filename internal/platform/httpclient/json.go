package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Request describes one JSON call.
type Request struct {
	Upstream string
	Method   string
	URL      string
	Body     any
	Header   http.Header
}

// DoJSON sends r with a JSON body (if any) and decodes a 2xx answer into out.
// out may be nil to discard the body. Every failure is an *UpstreamError.
func DoJSON(ctx context.Context, doer Doer, r Request, out any) error {
	resp, err := Send(ctx, doer, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewUpstreamError(ErrorBadData, r.Upstream, "failed to decode response", err)
	}
	return nil
}

// Send is DoJSON without decoding: on success the caller owns resp.Body.
func Send(ctx context.Context, doer Doer, r Request) (*http.Response, error) {
	var body io.Reader
	if r.Body != nil {
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, NewUpstreamError(ErrorInternal, r.Upstream, "failed to marshal request", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, NewUpstreamError(ErrorInternal, r.Upstream, "failed to create request", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, r.Upstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{
			Category:   classifyStatus(resp.StatusCode),
			Upstream:   r.Upstream,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Body:       raw,
		}
	}
	return resp, nil
}

// Bearer returns an Authorization header for token, or nil when token is empty.
func Bearer(token string) http.Header {
	if token == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
