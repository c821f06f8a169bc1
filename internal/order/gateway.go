package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/shopfront/internal/resilience"
)

// Submission is the validated input for a server-confirmed order.
type Submission struct {
	DestinationCity    string           `json:"destination_city"`
	DestinationAddress string           `json:"destination_address"`
	Items              []SubmissionItem `json:"items"`
}

// SubmissionItem is one wire-format order line.
type SubmissionItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Gateway talks to the remote order-creation endpoint.
type Gateway struct {
	BaseURL string
	HTTP    resilience.Client
}

// Confirmation is the order service acknowledgement.
type Confirmation struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type remoteError struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// validateSubmission checks preconditions locally. It never touches the network.
func validateSubmission(sub Submission) error {
	if strings.TrimSpace(sub.DestinationCity) == "" || strings.TrimSpace(sub.DestinationAddress) == "" {
		return ErrMissingDestination
	}
	if len(sub.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// Submit validates the submission and posts it to the order service. Any
// precondition failure returns before a request is made.
func (g Gateway) Submit(ctx context.Context, sub Submission) (Confirmation, error) {
	if err := validateSubmission(sub); err != nil {
		return Confirmation{}, err
	}
	if strings.TrimSpace(g.BaseURL) == "" {
		return Confirmation{}, fmt.Errorf("order: order service url not configured")
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return Confirmation{}, fmt.Errorf("order: encode submission: %w", err)
	}
	endpoint := strings.TrimRight(g.BaseURL, "/") + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Confirmation{}, fmt.Errorf("order: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(ctx, req)
	if err != nil {
		return Confirmation{}, fmt.Errorf("order: submit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var payload remoteError
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error.Message
		if msg == "" {
			msg = payload.Message
		}
		if msg == "" {
			msg = "unable to place order"
		}
		return Confirmation{}, fmt.Errorf("order: %s", msg)
	}

	var created Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// tolerate services that confirm without a body
		created = Confirmation{}
	}
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = StatusConfirmed
	}
	return created, nil
}
