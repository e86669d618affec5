package alchemy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/metrics"
	"github.com/walletlens/walletlens/internal/ratelimit"
)

// Client handles communication with the Alchemy NFT API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Alchemy NFT API client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.AlchemyBaseURL,
		apiKey:     cfg.AlchemyAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    ratelimit.New(cfg.AlchemyRPS),
	}
}

// NFTs fetches all NFTs owned by the wallet. A well-formed response without
// an ownedNfts field yields an empty slice, not an error.
func (c *Client) NFTs(ctx context.Context, owner string) ([]NFT, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(fmt.Sprintf("%s/v2/%s/getNFTs/", c.baseURL, c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("owner", owner)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordAPIRequest("alchemy", "getNFTs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var decoded nftsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return decoded.OwnedNFTs, nil
}
