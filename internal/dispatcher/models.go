// internal/dispatcher/models.go
package dispatcher

import (
	"fmt"
	"strings"
)

// MessageKind tags a message as transactional or promotional. Carriers
// route and throttle the two classes differently.
type MessageKind string

const (
	KindTransactional MessageKind = "TRANSACTIONAL"
	KindPromotional   MessageKind = "PROMOTIONAL"
)

// ParseKind normalizes a user-supplied kind string. Empty defaults to
// transactional, matching the backend default.
func ParseKind(s string) (MessageKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(KindTransactional):
		return KindTransactional, nil
	case string(KindPromotional):
		return KindPromotional, nil
	default:
		return "", fmt.Errorf("invalid message kind: %q", s)
	}
}

// SendRequest is one message intent prior to dispatch. Recipient is an E.164
// phone number (leading + and country code). Format validation is deferred to
// the backend.
type SendRequest struct {
	Recipient string      `json:"recipient"`
	Body      string      `json:"body"`
	Kind      MessageKind `json:"kind,omitempty"`
}

// DeliveryResult is the backend-reported outcome of one dispatch attempt.
type DeliveryResult struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	MessageID     string `json:"messageId,omitempty"`
}

// Outcome pairs one request of a batch with its result or error. A batch of N
// recipients always produces exactly N outcomes.
type Outcome struct {
	Request SendRequest
	Result  *DeliveryResult
	Err     error
}
