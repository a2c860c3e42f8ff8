package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/LerianStudio/lib-wrapi-go/constant"
	libErr "github.com/LerianStudio/lib-wrapi-go/error"
)

// EntityNotFoundError is answered when the upstream API reports a missing resource (404).
type EntityNotFoundError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e EntityNotFoundError) Error() string {
	switch {
	case strings.TrimSpace(e.Message) != "":
		return e.Message
	case strings.TrimSpace(e.EntityType) != "":
		return e.EntityType + " not found"
	case e.Err != nil:
		return e.Err.Error()
	}

	return "resource not found"
}

func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError is answered for invalid client configuration or an upstream 400.
type ValidationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string
	Message    string
	Code       string
	Err        error `json:"err,omitempty"`
}

func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) == "" {
		return e.Message
	}

	return e.Code + " - " + e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// EntityConflictError maps an upstream 409.
type EntityConflictError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e EntityConflictError) Error() string {
	if strings.TrimSpace(e.Message) == "" && e.Err != nil {
		return e.Err.Error()
	}

	return e.Message
}

func (e EntityConflictError) Unwrap() error {
	return e.Err
}

// UnauthorizedError maps an upstream 401: the API rejected the credentials sent.
type UnauthorizedError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e UnauthorizedError) Error() string {
	return e.Message
}

// ForbiddenError maps an upstream 403.
type ForbiddenError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e ForbiddenError) Error() string {
	return e.Message
}

// UnprocessableOperationError maps an upstream 422.
type UnprocessableOperationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

// HTTPError carries any other status to answer with, e.g. 502 for upstream failures or a forwarded 429.
type HTTPError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	StatusCode int
	Err        error
}

func (e HTTPError) Error() string {
	return e.Message
}

func (e HTTPError) Unwrap() error {
	return e.Err
}

// InternalServerError is the fallback for errors that are not API failures.
type InternalServerError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e InternalServerError) Error() string {
	return e.Message
}

// ResponseError is the JSON error payload written to fiber responses.
type ResponseError struct {
	Code    string `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r ResponseError) Error() string {
	return r.Message
}

// ValidationKnownFieldsError is a 400 payload listing invalid fields.
type ValidationKnownFieldsError struct {
	EntityType string           `json:"entityType,omitempty"`
	Title      string           `json:"title,omitempty"`
	Code       string           `json:"code,omitempty"`
	Message    string           `json:"message,omitempty"`
	Fields     FieldValidations `json:"fields,omitempty"`
}

func (r ValidationKnownFieldsError) Error() string {
	return r.Message
}

// FieldValidations maps field names to their validation message.
type FieldValidations map[string]string

// ValidateInternalError wraps err into an InternalServerError.
func ValidateInternalError(err error, entityType string) error {
	return InternalServerError{
		EntityType: entityType,
		Code:       constant.ErrInternalServer.Error(),
		Title:      "Unexpected failure",
		Message:    "The request could not be completed because of an unexpected error.",
		Err:        err,
	}
}

// ValidateBusinessError maps a constant error code to the business error with code, title, and message.
// Unknown errors are returned unchanged.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	switch {
	case errors.Is(err, constant.ErrInvalidConfig):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidConfig.Error(),
			Title:      "Invalid client configuration",
			Message:    fmt.Sprintf("The API client configuration is invalid: %s.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrMissingEndpoint):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrMissingEndpoint.Error(),
			Title:      "Missing request",
			Message:    "No request was provided, so no endpoint could be called.",
			Err:        err,
		}
	case errors.Is(err, constant.ErrClientDecode):
		return HTTPError{
			EntityType: entityType,
			Code:       constant.ErrClientDecode.Error(),
			Title:      "Invalid upstream response",
			Message:    "The upstream API answered with a payload that could not be decoded.",
			StatusCode: http.StatusBadGateway,
			Err:        err,
		}
	case errors.Is(err, constant.ErrUpstreamFailure):
		return HTTPError{
			EntityType: entityType,
			Code:       constant.ErrUpstreamFailure.Error(),
			Title:      "Upstream API unavailable",
			Message:    fmt.Sprintf("The upstream API could not be reached: %s.", args...),
			StatusCode: http.StatusBadGateway,
			Err:        err,
		}
	}

	return err
}

// FromAPIError translates an error returned by a wrapi request into the business error
// a service should answer with. Upstream 4xx statuses keep their meaning; upstream
// failures become 502 Bad Gateway.
func FromAPIError(err error, entityType string) error {
	if err == nil {
		return nil
	}

	var respErr *libErr.ResponseError
	if errors.As(err, &respErr) {
		return fromResponseError(respErr, entityType)
	}

	if errors.Is(err, constant.ErrClientDecode) || errors.Is(err, constant.ErrMissingEndpoint) {
		return ValidateBusinessError(err, entityType)
	}

	if libErr.IsConnectionError(err) {
		return ValidateBusinessError(fmt.Errorf("%w: %w", constant.ErrUpstreamFailure, err), entityType, err.Error())
	}

	return ValidateInternalError(err, entityType)
}

func fromResponseError(respErr *libErr.ResponseError, entityType string) error {
	code := respErr.Field("code").String()
	if code == "" {
		code = constant.ErrResponse.Error()
	}

	title := respErr.Field("title").String()
	if title == "" {
		title = http.StatusText(respErr.StatusCode)
	}

	message := respErr.Field("message").String()
	if message == "" {
		message = respErr.Error()
	}

	switch respErr.StatusCode {
	case http.StatusBadRequest:
		return ValidationError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	case http.StatusUnauthorized:
		return UnauthorizedError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	case http.StatusForbidden:
		return ForbiddenError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	case http.StatusNotFound:
		return EntityNotFoundError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	case http.StatusConflict:
		return EntityConflictError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	case http.StatusUnprocessableEntity:
		return UnprocessableOperationError{EntityType: entityType, Code: code, Title: title, Message: message, Err: respErr}
	}

	status := respErr.StatusCode
	if status >= 500 {
		status = http.StatusBadGateway
	}

	return HTTPError{EntityType: entityType, Code: code, Title: title, Message: message, StatusCode: status, Err: respErr}
}
