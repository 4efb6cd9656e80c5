package util

import "net/http"

// ErrorResponse is the unified failure representation rendered identically as
// an HTTP response body and as the payload of an operation-error event.
type ErrorResponse struct {
	Status int     `json:"status"`
	Title  string  `json:"title"`
	Detail string  `json:"detail"`
	Type   *string `json:"type"`
	// OriginalMessage carries the inbound payload whose processing failed.
	// Populated on the asynchronous channel only.
	OriginalMessage any `json:"original_message,omitempty"`
}

// Resolve classifies a failure and renders the channel-agnostic error
// payload. Unrecognized errors resolve to a 500 with the raw fault message.
func Resolve(err error) *ErrorResponse {
	appErr := AsAppError(err)
	if appErr == nil {
		return nil
	}
	return &ErrorResponse{
		Status: appErr.HTTPStatus,
		Title:  http.StatusText(appErr.HTTPStatus),
		Detail: appErr.Detail,
	}
}

// WithOriginalMessage returns a copy of the response carrying the inbound
// payload that failed, for operator inspection or replay.
func (r *ErrorResponse) WithOriginalMessage(payload any) *ErrorResponse {
	if r == nil {
		return nil
	}
	clone := *r
	clone.OriginalMessage = payload
	return &clone
}
