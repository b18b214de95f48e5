package domain

import "time"

// Call status values recorded in the call log.
const (
	CallStatusStarted = "started"
	CallStatusFailed  = "failed"
)

// CallPopupSeconds is how long the SPA shows the "call in progress" popup
// before redirecting, whatever the backend answered.
const CallPopupSeconds = 15

// CallRequest is the payload of POST /retell/start-call.
type CallRequest struct {
	PhoneNumber     string `json:"phoneNumber"`
	BuilderName     string `json:"builderName"`
	RFQ             string `json:"rfq"`
	ProjectID       string `json:"project_id"`
	SubcontractorID string `json:"subcontractor_id"`
	BuilderID       string `json:"builder_id"`
}

// CallRecord is the gateway's own audit entry for an outbound call.
type CallRecord struct {
	ID              string    `json:"id"`
	BuilderID       string    `json:"builder_id"`
	BuilderName     string    `json:"builder_name"`
	SubcontractorID string    `json:"subcontractor_id"`
	ProjectID       string    `json:"project_id,omitempty"`
	PhoneNumber     string    `json:"phone_number"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// WebhookCall is the payload of POST /webhook.
type WebhookCall struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
