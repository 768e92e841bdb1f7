// Package fastcreate resolves Instagram links through the fast-creat media API
package fastcreate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/deps"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

type mediaItem struct {
	Caption    string `json:"caption"`
	IsVideo    bool   `json:"is_video"`
	VideoURL   string `json:"video_url"`
	DisplayURL string `json:"display_url"`
}

type mediaResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		Result []mediaItem `json:"result"`
	} `json:"result"`
}

func NewClient(cfg *config.MediaAPIConfig, logger zerolog.Logger) deps.MediaResolver {
	client := &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "media_api").Logger(),
	}

	client.logger.Info().
		Str("base_url", cfg.URL).
		Msg("Media API client initialized")

	return client
}

// ResolveMedia returns the first media item behind link. A response without
// ok or without items yields ErrMediaNotFound.
func (c *Client) ResolveMedia(ctx context.Context, link string) (*entities.MediaResult, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("type", "post")
	params.Set("url", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("link", link).Msg("Media API request failed")
		return nil, fmt.Errorf("%w: %w", boterrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("link", link).
			Msg("Unexpected status code from media API")
		return nil, fmt.Errorf("%w: %d", boterrors.ErrUnexpectedStatus, resp.StatusCode)
	}

	var result mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn().Err(err).Str("link", link).Msg("Failed to decode media API response")
		return nil, fmt.Errorf("%w: %w", boterrors.ErrMalformedResponse, err)
	}

	if !result.OK || len(result.Result.Result) == 0 {
		c.logger.Debug().Str("link", link).Msg("Media API returned no items")
		return nil, boterrors.ErrMediaNotFound
	}

	item := result.Result.Result[0]
	return &entities.MediaResult{
		Caption:    item.Caption,
		IsVideo:    item.IsVideo,
		VideoURL:   item.VideoURL,
		DisplayURL: item.DisplayURL,
	}, nil
}
