// Package merchant holds the merchant profile record and the response
// envelope returned by the canister.
package merchant

import "net/http"

// Status codes used in the response envelope. They follow HTTP semantics.
const (
	StatusOK         = http.StatusOK
	StatusBadRequest = http.StatusBadRequest
	StatusNotFound   = http.StatusNotFound
	StatusInternal   = http.StatusInternalServerError
)

// Merchant is the profile owned by the canister. Clients push it back
// wholesale on edit.
type Merchant struct {
	Name               string `json:"name"`
	EmailAddress       string `json:"email_address"`
	PhoneNumber        string `json:"phone_number"`
	EmailNotifications bool   `json:"email_notifications"`
	PhoneNotifications bool   `json:"phone_notifications"`
}

// Response is the {status, data?, error_text?} envelope.
type Response struct {
	Status    int       `json:"status"`
	Data      *Merchant `json:"data,omitempty"`
	ErrorText string    `json:"error_text,omitempty"`
}

// OK reports whether r is a successful response carrying data.
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusOK && r.Data != nil
}

// Success builds a 200 response.
func Success(m Merchant) *Response {
	return &Response{Status: StatusOK, Data: &m}
}

// Failure builds an error response.
func Failure(status int, text string) *Response {
	return &Response{Status: status, ErrorText: text}
}

// OnOff renders a notification flag the way the dashboard shows it.
func OnOff(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
