package wrapi

import (
	"context"

	"github.com/LerianStudio/lib-wrapi-go/request"
)

// Call sends req through c, relative to the client base URL, and decodes the response into R.
func Call[R any](ctx context.Context, c *Client, req request.Request) (R, error) {
	return request.Send[R](ctx, c, c.BaseURL(), req)
}
