package confluence

import (
	"io"
	"net/http"
	"strings"

	"github.com/vishkar/confluence-gateway/internal/apperr"
)

// parseError converts a non-2xx Confluence response into a backend error
// carrying the status and message substance unchanged.
func parseError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	message := strings.TrimSpace(string(data))
	if message == "" {
		message = res.Status
	}

	return apperr.New(apperr.KindBackend, "confluence: HTTP %d: %s", res.StatusCode, message)
}

// wrapTransportError classifies network-level failures (timeouts, refused
// connections) as backend errors.
func wrapTransportError(err error) error {
	return apperr.Wrap(apperr.KindBackend, err, "confluence: request failed")
}
