// Package bankdirectory resolves bank codes against the BrasilAPI bank
// directory. Successful lookups are cached in Redis so repeated external
// transfers to the same bank do not round-trip to the upstream service.
package bankdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"digibank/internal/config"
	"digibank/internal/service"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	redis      *redis.Client
	cacheTTL   time.Duration
}

// NewClient builds a directory client. rdb may be nil, in which case caching
// is disabled.
func NewClient(cfg *config.BankDirectoryConfig, rdb *redis.Client) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		redis:      rdb,
		cacheTTL:   cacheTTL,
	}
}

// Resolve looks up one bank by code. Unknown codes fail with
// service.ErrBankNotFound; an upstream deadline fails with
// service.ErrDirectoryTimeout.
func (c *Client) Resolve(ctx context.Context, bankCode string) (*service.Bank, error) {
	if cached := c.fromCache(ctx, bankCode); cached != nil {
		return cached, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, bankCode), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, service.ErrDirectoryTimeout
		}
		return nil, fmt.Errorf("bank directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, service.ErrBankNotFound
	default:
		return nil, fmt.Errorf("bank directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bank directory response unreadable: %w", err)
	}

	var bank service.Bank
	if err := json.Unmarshal(body, &bank); err != nil {
		return nil, fmt.Errorf("bank directory response malformed: %w", err)
	}

	c.toCache(ctx, bankCode, &bank)
	return &bank, nil
}

// ListBanks fetches the full directory. Not cached; it backs an
// informational endpoint only.
func (c *Client) ListBanks(ctx context.Context) ([]service.Bank, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, service.ErrDirectoryTimeout
		}
		return nil, fmt.Errorf("bank directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank directory returned status %d", resp.StatusCode)
	}

	var banks []service.Bank
	if err := json.NewDecoder(resp.Body).Decode(&banks); err != nil {
		return nil, fmt.Errorf("bank directory response malformed: %w", err)
	}
	return banks, nil
}

func (c *Client) cacheKey(bankCode string) string {
	return "bankdir:code:" + bankCode
}

func (c *Client) fromCache(ctx context.Context, bankCode string) *service.Bank {
	if c.redis == nil {
		return nil
	}
	raw, err := c.redis.Get(ctx, c.cacheKey(bankCode)).Result()
	if err != nil {
		return nil
	}
	var bank service.Bank
	if err := json.Unmarshal([]byte(raw), &bank); err != nil {
		return nil
	}
	return &bank
}

func (c *Client) toCache(ctx context.Context, bankCode string, bank *service.Bank) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(bank)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.cacheKey(bankCode), raw, c.cacheTTL).Err(); err != nil {
		log.Printf("[BankDirectory] cache write failed: %v", err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
