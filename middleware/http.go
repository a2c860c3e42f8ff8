package middleware

import (
	"github.com/LerianStudio/lib-commons/commons/log"
	wrapi "github.com/LerianStudio/lib-wrapi-go"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/gofiber/fiber/v2"
)

// RequestID creates a Fiber middleware that reads the X-Request-Id header, or generates one,
// echoes it on the response and stores it in the user context for wrapi clients.
// l may be nil.
func RequestID(l log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := requestID(c.Get(cn.RequestIDHeader), l)

		c.Set(cn.RequestIDHeader, id)
		c.SetUserContext(wrapi.ContextWithRequestID(c.UserContext(), id))

		return c.Next()
	}
}
