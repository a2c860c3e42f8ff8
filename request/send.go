package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	libErr "github.com/LerianStudio/lib-wrapi-go/error"
)

// Send builds req against baseURL, executes it with doer and decodes the
// response into R.
func Send[R any](ctx context.Context, doer Doer, baseURL string, req Request) (R, error) {
	var zero R

	httpReq, err := Build(ctx, baseURL, req)
	if err != nil {
		return zero, err
	}

	return do[R](doer, httpReq)
}

// Execute sends a request the caller built themselves, bound to ctx. Only the
// JSON body of req is applied; the response goes through the same decoding as
// Send. httpReq is not modified.
func Execute[R any](ctx context.Context, doer Doer, httpReq *http.Request, req Request) (R, error) {
	var zero R

	if httpReq == nil {
		return zero, &libErr.ClientError{Err: errors.New("nil http request")}
	}

	prepared, err := withJSONBody(ctx, httpReq, req)
	if err != nil {
		return zero, err
	}

	return do[R](doer, prepared)
}

// FromResponse decodes a response into R when the status is 2xx and into a
// *libErr.ResponseError otherwise. The body is always closed. An empty 2xx
// body yields the zero value of R.
func FromResponse[R any](resp *http.Response) (R, error) {
	var out R

	if resp == nil {
		return out, &libErr.ClientError{Err: errors.New("nil http response")}
	}

	var data []byte

	if resp.Body != nil {
		defer resp.Body.Close()

		var err error

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return out, &libErr.ClientError{Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respErr := &libErr.ResponseError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
		}

		if trimmed := bytes.TrimSpace(data); json.Valid(trimmed) {
			respErr.Body = json.RawMessage(trimmed)
		}

		return out, respErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &libErr.DecodeError{StatusCode: resp.StatusCode, Err: err}
	}

	return out, nil
}

func do[R any](doer Doer, httpReq *http.Request) (R, error) {
	var zero R

	if doer == nil {
		return zero, &libErr.ClientError{Err: errors.New("nil http client")}
	}

	resp, err := doer.Do(httpReq)
	if err != nil {
		return zero, &libErr.ClientError{Err: err}
	}

	return FromResponse[R](resp)
}
