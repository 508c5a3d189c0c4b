// Package marketplace fetches current collection listings from the
// marketplace HTTP API and normalizes its response shapes.
package marketplace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
)

const defaultPageLimit = 100

type Client struct {
	client    http.Client
	baseURL   string
	pageLimit int
}

func New(baseURL string) *Client {
	return &Client{
		client:    http.Client{Timeout: model.DefaultReadTimeout},
		baseURL:   baseURL,
		pageLimit: defaultPageLimit,
	}
}

// FetchListings pages through the collection's current listings. The
// endpoint answers either with a bare array or with an object holding
// a "results" array; both are accepted. Entries with a missing or
// unparsable price are kept with an absent price, entries without a
// token ID are dropped since they cannot be joined.
func (c *Client) FetchListings(ctx context.Context, collectionKey string) ([]model.ListingEntry, error) {
	var all []model.ListingEntry
	for offset := 0; ; offset += c.pageLimit {
		entries, pageSize, err := c.fetchPage(ctx, collectionKey, offset)
		if err != nil {
			return nil, &serviceerrs.ListingFetchError{
				Collection: collectionKey,
				Err:        err,
			}
		}
		all = append(all, entries...)
		if pageSize < c.pageLimit {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, collectionKey string, offset int) ([]model.ListingEntry, int, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse base URL: %w", err)
	}
	base.Path += "/collections/" + collectionKey + "/listings"
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.pageLimit))
	query.Set("offset", strconv.Itoa(offset))
	base.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(
		ctx, http.MethodGet, base.String(), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create the request: %w", err)
	}
	resp, err := c.client.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request to marketplace: %w", err)
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
		return nil, 0, fmt.Errorf("failed to read the body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return normalize(body)
}

// normalize detects the envelope shape and maps raw listing objects
// into ListingEntry. The raw element count is returned separately so
// pagination is driven by what the feed sent, not by how many entries
// survived normalization.
func normalize(body []byte) ([]model.ListingEntry, int, error) {
	root := gjson.ParseBytes(body)
	arr := root
	if !root.IsArray() {
		arr = root.Get("results")
		if !arr.Exists() || !arr.IsArray() {
			return nil, 0, fmt.Errorf("unrecognized response shape: %.80s", body)
		}
	}

	raw := arr.Array()
	entries := make([]model.ListingEntry, 0, len(raw))
	for _, item := range raw {
		idField := item.Get("tokenId")
		if !idField.Exists() {
			idField = item.Get("id")
		}
		id, err := strconv.ParseUint(idField.String(), 10, 64)
		if err != nil {
			continue
		}

		entry := model.ListingEntry{
			TokenID:  id,
			ImageURI: item.Get("image").String(),
		}
		if price, err := decimal.NewFromString(item.Get("price").String()); err == nil {
			entry.Price = &price
		}
		entries = append(entries, entry)
	}
	return entries, len(raw), nil
}
