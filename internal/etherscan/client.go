package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/metrics"
	"github.com/walletlens/walletlens/internal/ratelimit"
)

// Client handles communication with the Etherscan account API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Etherscan API client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.EtherscanBaseURL,
		apiKey:     cfg.EtherscanAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    ratelimit.New(cfg.EtherscanRPS),
	}
}

// Transactions fetches the wallet's normal transaction history, newest first
func (c *Client) Transactions(ctx context.Context, address string, limit int) ([]Transaction, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "desc")
	if limit > 0 {
		params.Set("offset", strconv.Itoa(limit))
		params.Set("page", "1")
	}

	var txs []Transaction
	if err := c.call(ctx, "txlist", params, &txs); err != nil {
		return nil, err
	}
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// TokenList fetches the wallet's ERC20 token holdings
func (c *Client) TokenList(ctx context.Context, address string) ([]Token, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "tokenlist")
	params.Set("address", address)

	var tokens []Token
	if err := c.call(ctx, "tokenlist", params, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Balance fetches the wallet's current ETH balance as a wei string
func (c *Client) Balance(ctx context.Context, address string) (string, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")

	var wei string
	if err := c.call(ctx, "balance", params, &wei); err != nil {
		return "", err
	}
	return wei, nil
}

// call executes one rate-limited API request and decodes the result payload.
// A status "0" response whose message indicates an empty result set decodes
// into the zero value of result rather than an error.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	env, err := c.doRequest(ctx, params)
	metrics.RecordAPIRequest("etherscan", endpoint, time.Since(start), err)
	if err != nil {
		return err
	}

	if env.Status != "1" {
		if isEmptyResult(env.Message, env.Result) {
			return nil
		}
		return fmt.Errorf("etherscan %s: status %s: %s (%s)", endpoint, env.Status, env.Message, strings.TrimSpace(string(env.Result)))
	}

	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", endpoint, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) (*envelope, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	params.Set("apikey", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

// isEmptyResult distinguishes "nothing found" from real API failures
func isEmptyResult(message string, result json.RawMessage) bool {
	msg := strings.ToLower(message)
	if strings.Contains(msg, "no transactions found") || strings.Contains(msg, "no token") {
		return true
	}
	// Some actions report an empty result array with a NOTOK-free message
	trimmed := strings.TrimSpace(string(result))
	return trimmed == "[]"
}
