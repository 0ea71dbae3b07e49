// Package invoicing is the HTTP client for the external invoice provider.
package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/pkg/errs"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type issueRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type issueResponse struct {
	InvoiceID string `json:"invoice_id"`
}

// IssueInvoice asks the provider to issue an invoice for the booking and
// returns the provider's invoice id. Any non-2xx response is an error; the
// retry queue owns the retry policy.
func (c *Client) IssueInvoice(ctx context.Context, bookingID uuid.UUID) (string, error) {
	body, err := json.Marshal(issueRequest{BookingID: bookingID})
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal invoice request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(err, "failed to build invoice request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "invoice request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.New(fmt.Sprintf("invoice provider returned %d: %s", resp.StatusCode, string(snippet)))
	}

	var out issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.Wrap(err, "failed to decode invoice response")
	}
	if out.InvoiceID == "" {
		return "", errs.New("invoice provider returned empty invoice id")
	}
	return out.InvoiceID, nil
}
