// Package priceoracle quotes the reward token in USD from a
// dex-aggregation search feed.
package priceoracle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
)

type Client struct {
	client  http.Client
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{
		client:  http.Client{Timeout: model.DefaultReadTimeout},
		baseURL: baseURL,
	}
}

// FetchUSDPrice returns the USD price of the first trading pair the
// feed lists for the token address. First-by-feed-order is the defined
// tie-break when several pairs come back; the feed is not re-ranked by
// liquidity. Every failure degrades to an absent quote, the price is
// cosmetic.
func (c *Client) FetchUSDPrice(ctx context.Context, tokenAddress string) (*decimal.Decimal, error) {
	price, err := c.fetch(ctx, tokenAddress)
	if err != nil {
		return nil, &serviceerrs.PriceFetchError{
			Token: tokenAddress,
			Err:   err,
		}
	}
	return price, nil
}

func (c *Client) fetch(ctx context.Context, tokenAddress string) (*decimal.Decimal, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	base.Path += "/latest/dex/search"
	query := url.Values{}
	query.Set("q", tokenAddress)
	base.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(
		ctx, http.MethodGet, base.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create the request: %w", err)
	}
	resp, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to price feed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	defer func() {
		if err = resp.Body.Close(); err != nil {
			log := logger.FromContext(ctx)
			log.LogAttrs(
				ctx,
				slog.LevelError,
				"failed to close the response body",
				slog.Any(model.KeyLoggerError, err),
			)
		}
	}()
	if err != nil {
		return nil, fmt.Errorf("failed to read the body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	pairs := gjson.GetBytes(body, "pairs")
	if !pairs.IsArray() || len(pairs.Array()) == 0 {
		return nil, fmt.Errorf("no trading pairs for token")
	}
	price, err := decimal.NewFromString(pairs.Array()[0].Get("priceUsd").String())
	if err != nil {
		return nil, fmt.Errorf("non-numeric priceUsd: %w", err)
	}
	return &price, nil
}
