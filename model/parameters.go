package model

import (
	"maps"
	"net/http"
)

// Parameters bundles the header, query and form parameters of a request.
// A nil field means the parameter kind is absent.
type Parameters struct {
	Headers http.Header
	Query   map[string]string
	Form    map[string]string
}

// NewParameters returns an empty set of parameters.
func NewParameters() Parameters {
	return Parameters{}
}

// WithHeaders replaces the header parameters.
func (p Parameters) WithHeaders(headers http.Header) Parameters {
	p.Headers = headers
	return p
}

// WithHeader sets a single header, leaving the receiver untouched.
func (p Parameters) WithHeader(key, value string) Parameters {
	headers := p.Headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}

	headers.Set(key, value)
	p.Headers = headers

	return p
}

// WithQuery replaces the query parameters.
func (p Parameters) WithQuery(query map[string]string) Parameters {
	p.Query = query
	return p
}

// WithQueryParam sets a single query parameter, leaving the receiver untouched.
func (p Parameters) WithQueryParam(key, value string) Parameters {
	p.Query = withEntry(p.Query, key, value)
	return p
}

// WithForm replaces the form parameters.
func (p Parameters) WithForm(form map[string]string) Parameters {
	p.Form = form
	return p
}

// WithFormField sets a single form field, leaving the receiver untouched.
func (p Parameters) WithFormField(key, value string) Parameters {
	p.Form = withEntry(p.Form, key, value)
	return p
}

// Merge overlays other on top of p. Entries of other win on conflicting keys.
// Header keys are compared in canonical form.
func (p Parameters) Merge(other Parameters) Parameters {
	if other.Headers != nil {
		headers := canonicalHeaders(p.Headers, len(other.Headers))

		for k, vs := range other.Headers {
			headers[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}

		p.Headers = headers
	}

	p.Query = mergeEntries(p.Query, other.Query)
	p.Form = mergeEntries(p.Form, other.Form)

	return p
}

// canonicalHeaders copies h with every key in canonical form. Values of keys
// that differ only in case are concatenated.
func canonicalHeaders(h http.Header, extra int) http.Header {
	out := make(http.Header, len(h)+extra)

	for k, vs := range h {
		ck := http.CanonicalHeaderKey(k)
		out[ck] = append(out[ck], vs...)
	}

	return out
}

func withEntry(m map[string]string, key, value string) map[string]string {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[string]string, 1)
	}

	out[key] = value

	return out
}

func mergeEntries(base, overlay map[string]string) map[string]string {
	if overlay == nil {
		return base
	}

	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(overlay))
	}

	maps.Copy(out, overlay)

	return out
}
