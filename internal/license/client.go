// Package license talks to the external license/pricing service that gates
// booking creation. The service is an opaque predicate: it either allows a
// booking (optionally quoting a price) or denies it.
package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CheckRequest describes one booking request to be authorized and priced.
type CheckRequest struct {
	UserID      string `json:"user_id"`
	ResourceID  string `json:"resource_id"`
	Minutes     int    `json:"minutes"`
	Occurrences int    `json:"occurrences"`
}

// Verdict is the oracle's answer.
type Verdict struct {
	Allowed            bool     `json:"allowed"`
	Reason             string   `json:"reason"`
	PricePerOccurrence *float64 `json:"price_per_occurrence"`
}

type Oracle interface {
	Check(ctx context.Context, req CheckRequest) (Verdict, error)
}

// HTTPOracle queries the license service over HTTP.
type HTTPOracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPOracle(baseURL, apiKey string, timeout time.Duration) *HTTPOracle {
	return &HTTPOracle{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *HTTPOracle) Check(ctx context.Context, req CheckRequest) (Verdict, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal license request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/check", bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("build license request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("license request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var v Verdict
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			return Verdict{}, fmt.Errorf("decode license response failed: %w", err)
		}
		return v, nil
	case http.StatusForbidden:
		// Some deployments answer denial with 403 instead of allowed=false.
		return Verdict{Allowed: false}, nil
	default:
		return Verdict{}, fmt.Errorf("license service returned status %d", resp.StatusCode)
	}
}

// AllowAll is the oracle used when no license service is configured. Every
// request passes and no price is quoted.
type AllowAll struct{}

func (AllowAll) Check(ctx context.Context, req CheckRequest) (Verdict, error) {
	return Verdict{Allowed: true}, nil
}
