// Package tronscan fetches recent TRON transactions from the tronscan API
package tronscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/tracker/deps"
	"github.com/twexity/relaybots/internal/domain/tracker/entities"
	trackererrors "github.com/twexity/relaybots/internal/domain/tracker/errors"
)

// Client implements deps.TransactionSource
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
	logger     zerolog.Logger
}

type transactionsResponse struct {
	Data []json.RawMessage `json:"data"`
}

// NewClient creates a tronscan client
func NewClient(cfg *config.TrackerConfig, logger zerolog.Logger) deps.TransactionSource {
	client := &Client{
		baseURL: cfg.APIURL,
		limit:   cfg.Limit,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "tronscan").Logger(),
	}

	client.logger.Info().
		Str("base_url", cfg.APIURL).
		Int("limit", cfg.Limit).
		Msg("Transaction API client initialized")

	return client
}

// FetchRecent returns the newest transactions, newest first. Entries that
// cannot be decoded are skipped; a missing data field yields an empty slice.
func (c *Client) FetchRecent(ctx context.Context) ([]entities.Transaction, error) {
	params := url.Values{}
	params.Set("sort", "-timestamp")
	params.Set("count", "true")
	params.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trackererrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", trackererrors.ErrUnexpectedStatus, resp.StatusCode)
	}

	var body transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", trackererrors.ErrMalformedResponse, err)
	}

	txs := make([]entities.Transaction, 0, len(body.Data))
	for i, raw := range body.Data {
		var tx entities.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			c.logger.Debug().Err(err).Int("index", i).Msg("Skipping undecodable transaction")
			continue
		}
		txs = append(txs, tx)
	}

	c.logger.Debug().Int("received", len(body.Data)).Int("decoded", len(txs)).Msg("Fetched transactions")

	return txs, nil
}
