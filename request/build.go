package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	libErr "github.com/LerianStudio/lib-wrapi-go/error"
)

// JoinURL joins the base URL and the endpoint with exactly one slash.
func JoinURL(baseURL, endpoint string) string {
	base := strings.TrimRight(baseURL, "/")
	endpoint = strings.TrimLeft(endpoint, "/")

	if endpoint == "" {
		return base
	}

	return base + "/" + endpoint
}

// Build turns a Request into an *http.Request against baseURL.
//
// Header and query parameters are applied when present. A non-empty form is
// encoded as the body; otherwise the JSON body, if any, is used. Accept
// defaults to application/json.
func Build(ctx context.Context, baseURL string, req Request) (*http.Request, error) {
	if isNil(req) {
		return nil, &libErr.ClientError{Err: cn.ErrMissingEndpoint}
	}

	u, err := url.Parse(JoinURL(baseURL, req.Endpoint()))
	if err != nil {
		return nil, &libErr.ClientError{Err: fmt.Errorf("invalid request URL: %w", err)}
	}

	params := parametersOf(req)

	if len(params.Query) > 0 {
		q := u.Query()
		for k, v := range params.Query {
			q.Set(k, v)
		}

		u.RawQuery = q.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)

	if len(params.Form) > 0 {
		form := make(url.Values, len(params.Form))
		for k, v := range params.Form {
			form.Set(k, v)
		}

		body = strings.NewReader(form.Encode())
		contentType = cn.ContentTypeForm
	} else if payload := bodyOf(req); payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &libErr.ClientError{Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}

		body = bytes.NewReader(data)
		contentType = cn.ContentTypeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, methodOf(req), u.String(), body)
	if err != nil {
		return nil, &libErr.ClientError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	for k, vs := range params.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	if contentType != "" && httpReq.Header.Get(cn.HeaderContentType) == "" {
		httpReq.Header.Set(cn.HeaderContentType, contentType)
	}

	if httpReq.Header.Get(cn.HeaderAccept) == "" {
		httpReq.Header.Set(cn.HeaderAccept, cn.ContentTypeJSON)
	}

	return httpReq, nil
}

// withJSONBody returns a copy of httpReq bound to ctx and carrying the JSON
// body of req, if any.
func withJSONBody(ctx context.Context, httpReq *http.Request, req Request) (*http.Request, error) {
	if ctx == nil {
		ctx = httpReq.Context()
	}

	out := httpReq.Clone(ctx)

	payload := bodyOf(req)
	if payload == nil {
		return out, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &libErr.ClientError{Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	out.Body = io.NopCloser(bytes.NewReader(data))
	out.ContentLength = int64(len(data))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	if out.Header.Get(cn.HeaderContentType) == "" {
		out.Header.Set(cn.HeaderContentType, cn.ContentTypeJSON)
	}

	return out, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
