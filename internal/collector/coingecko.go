package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public CoinGecko API host.
const DefaultBaseURL = "https://api.coingecko.com"

// CoinGeckoFetcher implements Fetcher against the CoinGecko simple-price
// endpoint: one request covers every configured coin.
type CoinGeckoFetcher struct {
	client *resty.Client
	apiKey string
}

// NewCoinGeckoFetcher creates a fetcher with retry and rate-limit handling.
// Proxy configuration is picked up from the environment by resty.
func NewCoinGeckoFetcher(baseURL, apiKey string, timeout time.Duration) *CoinGeckoFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			// CoinGecko rate-limits aggressively; honor Retry-After on 429.
			if resp.StatusCode() == http.StatusTooManyRequests {
				if ra := resp.Header().Get("Retry-After"); ra != "" {
					if d, err := time.ParseDuration(ra + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})
	return &CoinGeckoFetcher{client: client, apiKey: apiKey}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// FetchQuotes requests USD price, market cap, 24h volume and 24h change for
// all ids in a single call.
func (f *CoinGeckoFetcher) FetchQuotes(ctx context.Context, ids []string) (map[string]Quote, error) {
	if len(ids) == 0 {
		return map[string]Quote{}, nil
	}

	// Absent fields must stay absent, so decode into a loose map first.
	var raw map[string]map[string]float64

	req := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 strings.Join(ids, ","),
			"vs_currencies":       "usd",
			"include_market_cap":  "true",
			"include_24hr_vol":    "true",
			"include_24hr_change": "true",
		}).
		SetResult(&raw)
	if f.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", f.apiKey)
	}

	resp, err := req.Get("/api/v3/simple/price")
	if err != nil {
		return nil, fmt.Errorf("coingecko request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	quotes := make(map[string]Quote, len(raw))
	for id, fields := range raw {
		price, ok := fields["usd"]
		if !ok {
			continue
		}
		quotes[id] = Quote{
			PriceUSD:  price,
			MarketCap: optField(fields, "usd_market_cap"),
			Volume24h: optField(fields, "usd_24h_vol"),
			Change24h: optField(fields, "usd_24h_change"),
		}
	}
	return quotes, nil
}

func optField(fields map[string]float64, key string) *float64 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	return &v
}
