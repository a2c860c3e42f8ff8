// Package request declares HTTP API calls as Go types and executes them
// against a caller supplied client.
//
// A request type only has to name its endpoint. Method, headers, query and
// form parameters and the body are optional capabilities detected through
// the provider interfaces below. Unless a request implements BodyProvider,
// the request value itself is serialized as the JSON body.
package request

import (
	"net/http"

	"github.com/LerianStudio/lib-wrapi-go/model"
)

// Doer executes an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is an API call. Endpoint is relative to the base URL, e.g. "user".
type Request interface {
	Endpoint() string
}

// MethodProvider overrides the HTTP method. Requests default to GET.
type MethodProvider interface {
	Method() string
}

// HeaderProvider adds header parameters to the request.
type HeaderProvider interface {
	Headers() http.Header
}

// QueryProvider adds query parameters to the request URL.
type QueryProvider interface {
	Query() map[string]string
}

// FormProvider adds form parameters. A non-empty form is sent as an
// application/x-www-form-urlencoded body instead of JSON.
type FormProvider interface {
	Form() map[string]string
}

// ParametersProvider supplies headers, query and form parameters in one bundle.
// Values from HeaderProvider, QueryProvider and FormProvider win over it.
type ParametersProvider interface {
	Parameters() model.Parameters
}

// BodyProvider overrides the JSON body. Returning nil sends no body.
type BodyProvider interface {
	Body() any
}

// NoBody can be embedded in a request type to skip sending a body.
type NoBody struct{}

// Body implements BodyProvider.
func (NoBody) Body() any {
	return nil
}

func methodOf(req Request) string {
	if p, ok := req.(MethodProvider); ok {
		if m := p.Method(); m != "" {
			return m
		}
	}

	return http.MethodGet
}

func parametersOf(req Request) model.Parameters {
	params := model.NewParameters()

	if p, ok := req.(ParametersProvider); ok {
		params = p.Parameters()
	}

	overlay := model.NewParameters()

	if p, ok := req.(HeaderProvider); ok {
		overlay = overlay.WithHeaders(p.Headers())
	}

	if p, ok := req.(QueryProvider); ok {
		overlay = overlay.WithQuery(p.Query())
	}

	if p, ok := req.(FormProvider); ok {
		overlay = overlay.WithForm(p.Form())
	}

	return params.Merge(overlay)
}

func bodyOf(req Request) any {
	p, ok := req.(BodyProvider)
	if !ok {
		return req
	}

	body := p.Body()
	if isNil(body) {
		return nil
	}

	return body
}
