package helper

import (
	"testing"

	libErr "github.com/LerianStudio/lib-wrapi-go/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResponseError asserts err is a *libErr.ResponseError with the expected status and JSON body.
// An empty expectedBody asserts that no body was captured.
func AssertResponseError(t *testing.T, err error, expectedStatus int, expectedBody string) *libErr.ResponseError {
	t.Helper()

	var respErr *libErr.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, expectedStatus, respErr.StatusCode, "response status mismatch")

	if expectedBody == "" {
		assert.Empty(t, respErr.Body, "expected no response body")
	} else {
		assert.JSONEq(t, expectedBody, string(respErr.Body), "response body mismatch")
	}

	return respErr
}
