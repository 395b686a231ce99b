package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	xhttp "sigmaband/pkg/http"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements a PriceSource backed by the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a Yahoo chart API client. An empty baseURL uses the public
// endpoint; tests point it at a local server.
func New(baseURL string, timeout time.Duration) domrepo.PriceSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses fetches daily closing prices for symbol over [from, to],
// oldest first. Days where the API reports a null close are skipped.
func (c *Client) DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    u,
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {"1d"},
			"events":   {"history"},
		},
		Headers: map[string]string{
			"User-Agent": "sigmaband/1.0",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domrepo.ErrSourceUnavailable, symbol, err)
	}

	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("%w: %s: %s (%s)", domrepo.ErrSourceUnavailable, symbol, e.Description, e.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", domrepo.ErrSourceUnavailable, symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote series for %s", domrepo.ErrSourceUnavailable, symbol)
	}
	closes := result.Indicators.Quote[0].Close

	quotes := make([]models.Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		quotes = append(quotes, models.Quote{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close: *closes[i],
		})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no usable closes for %s", domrepo.ErrSourceUnavailable, symbol)
	}
	return quotes, nil
}
