// Package middleware propagates request correlation IDs from inbound HTTP and gRPC
// requests to the outbound API calls made by wrapi clients created WithRequestID.
package middleware

import (
	"strings"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// requestID returns the inbound ID when it is usable, or a new one
func requestID(incoming string, l log.Logger) string {
	id := strings.TrimSpace(incoming)

	if id == "" {
		return uuid.NewString()
	}

	if len(id) > maxRequestIDLength {
		if l != nil {
			l.Warnf("Discarding request ID longer than %d characters", maxRequestIDLength)
		}

		return uuid.NewString()
	}

	return id
}
