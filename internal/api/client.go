package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL      = "https://api.aladhan.com/v1"
	defaultQuranBaseURL = "https://api.alquran.cloud/v1"
)

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchByTimestamp fetches the timings for the day containing instant t at the given coordinates.
// A negative method lets the API choose one for the location.
func (c *Client) FetchByTimestamp(ctx context.Context, t time.Time, lat, lon float64, method int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%d", c.BaseURL, t.Unix())

	params := coordParams(lat, lon, method)

	var resp Response
	if err := getJSON(ctx, c.httpClient, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}

	return &resp, nil
}

// FetchCalendar fetches a whole month of timings for the given coordinates.
func (c *Client) FetchCalendar(ctx context.Context, month, year int, lat, lon float64, method int) (*CalendarResponse, error) {
	endpoint := c.BaseURL + "/calendar"

	params := coordParams(lat, lon, method)
	params.Set("month", fmt.Sprintf("%d", month))
	params.Set("year", fmt.Sprintf("%d", year))

	var resp CalendarResponse
	if err := getJSON(ctx, c.httpClient, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}

	return &resp, nil
}

// QuranClient reads the surah index and surah texts from the alquran.cloud API.
type QuranClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewQuranClient creates a QuranClient with the same timeout as Client.
func NewQuranClient() *QuranClient {
	return &QuranClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    defaultQuranBaseURL,
	}
}

// Surahs returns all 114 surahs in order.
func (q *QuranClient) Surahs(ctx context.Context) ([]Surah, error) {
	var resp SurahListResponse
	if err := getJSON(ctx, q.httpClient, q.BaseURL+"/surah", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return resp.Data, nil
}

// readerEditions are the Arabic text, the Bengali translation and the English transliteration.
const readerEditions = "quran-uthmani,bn.bengali,en.transliteration"

// Surah returns the verses of surah number in the reader's three editions.
func (q *QuranClient) Surah(ctx context.Context, number int) (*SurahText, error) {
	if number < 1 || number > SurahCount {
		return nil, fmt.Errorf("invalid surah %d: must be 1-%d", number, SurahCount)
	}
	endpoint := fmt.Sprintf("%s/surah/%d/editions/%s", q.BaseURL, number, readerEditions)

	var resp SurahEditionsResponse
	if err := getJSON(ctx, q.httpClient, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return MergeEditions(resp.Data)
}

func coordParams(lat, lon float64, method int) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	return params
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, out any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}

	return nil
}
