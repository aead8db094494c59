package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoCredentials is returned when no access token is configured.
var ErrNoCredentials = errors.New("no credentials found; set CODEX_CLIENT_ACCESS_TOKEN or OPENAI_API_KEY")

// UpstreamError represents a rejected upstream request with error details.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func (e *UpstreamError) Error() string {
	msg := strings.TrimSpace(gjson.GetBytes(e.Body, "error.message").String())
	if msg == "" {
		msg = strings.TrimSpace(gjson.GetBytes(e.Body, "detail").String())
	}
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if id := upstreamRequestID(e.Headers); id != "" {
		return fmt.Sprintf("upstream returned status %d: %s (request_id=%s)", e.StatusCode, msg, id)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, msg)
}
