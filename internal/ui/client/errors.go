package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodySize caps how much of an error response is read when looking for the API error message
const maxErrorBodySize = 1 << 20

// ErrorKind is the closed set of ways a call to the API can fail
type ErrorKind int

const (
	// KindNetwork: the call did not complete (dns, connection refused, timeout, cancelled context). No status code or response.
	KindNetwork ErrorKind = iota + 1
	// KindStatus: the API responded with a non-2xx status
	KindStatus
	// KindDecode: the API responded 2xx but the body was not valid JSON. No status code or response.
	KindDecode
	// KindInternal: the request could not be built
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ClientError represents an error encountered when communicating with the wiki API.
// StatusCode 0 = no HTTP response was received, >0 = HTTP response received (Response is then set).
type ClientError struct {
	Kind       ErrorKind
	Message    string         // from the API error body, or the HTTP status text
	Detail     string         // optional detail from the API error body
	StatusCode int            // 0 when absent
	Response   *http.Response // raw response (body already consumed); nil when absent
	Err        error          // underlying cause for network, decode and internal errors
}

// apiErrorBody is the shape of the error responses sent by the API
type apiErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (e *ClientError) Error() string {
	switch e.Kind {
	case KindStatus:
		msg := fmt.Sprintf("wiki api status %d - %s", e.StatusCode, e.Message)
		if e.Detail != "" && e.Detail != e.Message {
			msg += fmt.Sprintf(" (%s)", e.Detail)
		}
		return msg
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// UserError returns the user-friendly message
func (e *ClientError) UserError() string {
	if e.Kind == KindNetwork {
		return "Unable to reach the wiki. Please check your internet connection and try again."
	}
	if e.Kind != KindStatus {
		return "An error occurred. Please try again later."
	}

	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusForbidden, http.StatusTooManyRequests:
		// the API explains validation failures, duplicate votes, failed captcha checks and rate limits
		if e.Message != "" && e.Message != http.StatusText(e.StatusCode) {
			return e.Message
		}
		switch e.StatusCode {
		case http.StatusForbidden:
			return "You don't have permission to do that."
		case http.StatusTooManyRequests:
			return "Too many requests. Please try again in a few moments."
		}
		return "Invalid request. Please check your input and try again."
	case http.StatusNotFound:
		return "The requested item could not be found."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "An error occurred. Please try again."
	}
}

// NewClientConnectionError creates a ClientError for network/connection issues
func NewClientConnectionError(err error) *ClientError {
	return &ClientError{
		Kind:    KindNetwork,
		Message: "Network error or request failed",
		Err:     err,
	}
}

// NewClientInternalError creates a ClientError for internal errors, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		Kind:    KindInternal,
		Message: fmt.Sprintf("%v while %v", err, while),
		Err:     err,
	}
}

// NewClientDecodeError creates a ClientError for a 2xx response whose body could not be decoded
func NewClientDecodeError(err error, endpoint string) *ClientError {
	return &ClientError{
		Kind:    KindDecode,
		Message: fmt.Sprintf("%v while decoding response from %s", err, endpoint),
		Err:     err,
	}
}

// NewClientApiError creates a ClientError from a non-2xx HTTP response sent by the API.
//
// The message is taken from the JSON error body ({"error": "...", "detail": "..."}).
// When the body cannot be decoded the HTTP status text is used instead.
func NewClientApiError(res *http.Response) *ClientError {
	clientErr := &ClientError{
		Kind:       KindStatus,
		StatusCode: res.StatusCode,
		Response:   res,
	}

	var body apiErrorBody
	decodeErr := errors.New("empty response body")
	if res.Body != nil {
		data, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		if err == nil {
			decodeErr = json.Unmarshal(data, &body)
		} else {
			decodeErr = err
		}
	}

	switch {
	case decodeErr != nil:
		clientErr.Message = http.StatusText(res.StatusCode)
	case body.Error != "":
		clientErr.Message = body.Error
		clientErr.Detail = body.Detail
	case body.Detail != "":
		clientErr.Message = body.Detail
		clientErr.Detail = body.Detail
	}

	if clientErr.Message == "" {
		clientErr.Message = "Request failed"
	}

	return clientErr
}

// Outcome classifies the result of a call to the API
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNetworkFailure
	OutcomeHTTPFailure
	OutcomeDecodeFailure
	OutcomeInternalFailure
	OutcomeOther // the error did not come from the client
)

// Classify maps the error returned by a client call to its Outcome. A nil error is OutcomeSuccess.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var ce *ClientError
	if !errors.As(err, &ce) {
		return OutcomeOther
	}

	switch ce.Kind {
	case KindNetwork:
		return OutcomeNetworkFailure
	case KindStatus:
		return OutcomeHTTPFailure
	case KindDecode:
		return OutcomeDecodeFailure
	case KindInternal:
		return OutcomeInternalFailure
	default:
		return OutcomeOther
	}
}

// StatusCode returns the HTTP status of a failed API call, or 0 if no response was received
func StatusCode(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

// UserMessage returns the message to show the end user for err
func UserMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.UserError()
	}
	return "An error occurred. Please try again."
}
