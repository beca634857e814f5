package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/storekit/storefront/pkg/errors"
)

// upstreamErrorBody covers the error shapes returned by Fake Store style APIs:
// either {"message": "..."} or {"error": "..."}.
type upstreamErrorBody struct {
	Message string `json:"message"`
	ErrText string `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from the
// catalog provider and translates it into an AppError. 404 maps to NotFound
// and 401 to Unauthorized so credential and lookup failures stay
// distinguishable; everything else surfaces as an opaque upstream failure.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Upstream(fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err))
	}

	message := string(bodyBytes)
	var parsed upstreamErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		if parsed.Message != "" {
			message = parsed.Message
		} else if parsed.ErrText != "" {
			message = parsed.ErrText
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.Unauthorized(fmt.Sprintf("%s: %s", serviceName, message))
	default:
		return apperrors.Upstream(fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, message))
	}
}
