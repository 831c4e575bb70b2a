package models

const (
	ResponseStatusSuccess = "success"
	ResponseStatusError   = "error"
)

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries the machine readable part of a failure
type APIError struct {
	Type    string `json:"type,omitempty"`    // ValidationError, AuthorizationError, ...
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"` // offending field for validation failures
}

// Success builds a success envelope
func Success(code int, message string, data interface{}) APIResponse {
	return APIResponse{Status: ResponseStatusSuccess, Code: code, Message: message, Data: data}
}

// Failure builds an error envelope
func Failure(code int, message, errType, details string) APIResponse {
	return APIResponse{
		Status:  ResponseStatusError,
		Code:    code,
		Message: message,
		Error:   &APIError{Type: errType, Details: details},
	}
}

// WithField attaches the offending field to an error envelope
func (r APIResponse) WithField(field string) APIResponse {
	if r.Error != nil && field != "" {
		e := *r.Error
		e.Field = field
		r.Error = &e
	}
	return r
}
