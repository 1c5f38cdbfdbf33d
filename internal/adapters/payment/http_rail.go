package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/ports"
)

// HTTPRail submits payouts to the external provider over HTTP. Failure
// classification drives the payout manager's retry decision: network errors
// and 5xx responses are retryable, 4xx rejections are terminal.
type HTTPRail struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRail creates a payment rail client against baseURL. The timeout
// bounds each individual submission attempt.
func NewHTTPRail(baseURL string, timeout time.Duration) *HTTPRail {
	return &HTTPRail{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ ports.PaymentRail = (*HTTPRail)(nil)

type payoutSubmission struct {
	RequestID    string `json:"requestID"`
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	Method       string `json:"method"`
	Destination  string `json:"destination"`
}

type payoutAck struct {
	ProviderRef string `json:"providerRef"`
}

type payoutRejection struct {
	Message string `json:"message"`
}

func (r *HTTPRail) SubmitPayout(ctx context.Context, instruction ports.PayoutInstruction) (*ports.PayoutOutcome, error) {
	body, err := json.Marshal(payoutSubmission{
		RequestID:    instruction.RequestID,
		Amount:       instruction.Amount.StringFixed(2),
		CurrencyCode: instruction.CurrencyCode,
		Method:       string(instruction.Method),
		Destination:  instruction.Destination,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The provider deduplicates on this key, so a retried submission after
	// an ambiguous timeout cannot pay twice.
	req.Header.Set("Idempotency-Key", instruction.RequestID)

	resp, err := r.client.Do(req)
	if err != nil {
		// Network failures and timeouts: the submission may or may not have
		// landed; the idempotency key makes retrying safe.
		return nil, apperrors.NewExternalPayoutError(true, "payout submission failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var ack payoutAck
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			return nil, apperrors.NewExternalPayoutError(true, "failed to decode payout acknowledgement", err)
		}
		return &ports.PayoutOutcome{ProviderRef: ack.ProviderRef}, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, apperrors.NewExternalPayoutError(true,
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, rejectionMessage(resp.Body)), nil)

	default:
		// 4xx: the provider rejected the instruction itself; retrying the
		// same submission cannot succeed.
		return nil, apperrors.NewExternalPayoutError(false,
			fmt.Sprintf("provider rejected payout with %d: %s", resp.StatusCode, rejectionMessage(resp.Body)), nil)
	}
}

func rejectionMessage(body io.Reader) string {
	var rejection payoutRejection
	if err := json.NewDecoder(body).Decode(&rejection); err != nil || rejection.Message == "" {
		return "no detail"
	}
	return rejection.Message
}
