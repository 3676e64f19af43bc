package notification

import "context"

// TemplateKey selects which email template a notification renders.
type TemplateKey string

const (
	TemplateLeaveRequestSubmitted TemplateKey = "leave_request_submitted"
	TemplateLeaveRequestApproved  TemplateKey = "leave_request_approved"
	TemplateLeaveRequestRejected  TemplateKey = "leave_request_rejected"
	TemplateLeaveRequestCancelled TemplateKey = "leave_request_cancelled"
)

// Notifier delivers a templated notification to a set of recipients.
// Delivery is strictly side-effectful: failures are logged by callers and
// never roll back the state transition that triggered them.
type Notifier interface {
	Send(ctx context.Context, recipients []string, template TemplateKey, data map[string]string) error
}
