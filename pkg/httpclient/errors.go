package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// UpstreamError is a failure reported by a third-party HTTP API. It is not an
// AppError, so handlers surface it as a 500 without leaking the message.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Message)
}

// upstreamErrorBody is the {"error":{"message":"..."}} shape used by the
// media host's REST API.
type upstreamErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// translates it into an error. 404 becomes apperrors.NotFound; 401/403 mean
// our own credentials are wrong and stay upstream errors.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var body upstreamErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil && body.Error != nil {
		message = body.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName+" resource", message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", serviceName, message))
	default:
		return &UpstreamError{Service: serviceName, Status: resp.StatusCode, Message: message}
	}
}

// IsClientError reports whether status is a 4xx.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
