package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"milk-bench/connectors/dataset"
	"milk-bench/domain/sample"
)

// Client fetches sample exports from a remote dataset API. When a token URL
// is configured, requests authenticate with the OAuth2 client-credentials
// flow; token refresh is handled by the oauth2 transport.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a dataset API client. With an empty tokenURL the client
// performs unauthenticated requests.
func NewClient(ctx context.Context, tokenURL, clientID, clientSecret string, scopes []string) *Client {
	if tokenURL == "" {
		return &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
	}
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
	return &Client{httpClient: cc.Client(ctx)}
}

// FetchSamples downloads and decodes one JSON sample resource.
func (c *Client) FetchSamples(ctx context.Context, url string) ([]sample.RawSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d %s", resp.StatusCode, string(body))
	}
	return dataset.Decode(resp.Body)
}

// FetchAll downloads several chunked resources and concatenates their rows
// in order, mirroring how local chunked files are loaded.
func (c *Client) FetchAll(ctx context.Context, urls []string) ([]sample.RawSample, error) {
	var all []sample.RawSample
	for _, u := range urls {
		rows, err := c.FetchSamples(ctx, u)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}
