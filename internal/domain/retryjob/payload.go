package retryjob

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type Kind string

const (
	KindInvoiceIssue Kind = "invoice_issue"
)

var ErrUnknownKind = errors.New("unknown retry job kind")

// Payload is the tagged union of job payloads. Each kind owns its own typed
// variant so payload shape cannot drift between job kinds sharing the queue.
type Payload interface {
	Kind() Kind
}

// InvoiceIssuePayload asks for invoice issuance against a committed booking.
// The attempt counter lives on the job row, not in the payload.
type InvoiceIssuePayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

func (InvoiceIssuePayload) Kind() Kind { return KindInvoiceIssue }

func MarshalPayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

func UnmarshalPayload(kind Kind, data []byte) (Payload, error) {
	switch kind {
	case KindInvoiceIssue:
		var p InvoiceIssuePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, ErrUnknownKind
	}
}
