package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"app/internal/model"
)

const ledgerTimeout = 10 * time.Second

// UsageLedger reads and writes the per-user plan tier and free-usage counter
// held by the external identity provider.
type UsageLedger interface {
	Get(ctx context.Context, userID string) (*model.UsageRecord, error)
	SetFreeUsage(ctx context.Context, userID string, freeUsage int) error
}

type usageLedgerClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewUsageLedgerClient(baseURL, apiKey string) UsageLedger {
	return &usageLedgerClient{
		client:  &http.Client{Timeout: ledgerTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type userMetadata struct {
	Plan      model.Plan `json:"plan"`
	FreeUsage int        `json:"free_usage"`
}

func (c *usageLedgerClient) Get(ctx context.Context, userID string) (*model.UsageRecord, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating ledger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching usage record for user %s: %w", userID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading ledger response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching usage record for user %s: %s", userID, providerErrorMessage(body, resp.StatusCode))
	}

	var user struct {
		PrivateMetadata userMetadata `json:"private_metadata"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decoding ledger response: %w", err)
	}

	plan := user.PrivateMetadata.Plan
	if plan != model.PlanPremium {
		plan = model.PlanFree
	}
	return &model.UsageRecord{
		UserID:    userID,
		Plan:      plan,
		FreeUsage: user.PrivateMetadata.FreeUsage,
	}, nil
}

func (c *usageLedgerClient) SetFreeUsage(ctx context.Context, userID string, freeUsage int) error {
	payload := struct {
		PrivateMetadata map[string]int `json:"private_metadata"`
	}{
		PrivateMetadata: map[string]int{"free_usage": freeUsage},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling metadata update: %w", err)
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("updating free usage for user %s: %w", userID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("updating free usage for user %s: %s", userID, providerErrorMessage(respBody, resp.StatusCode))
	}
	return nil
}
