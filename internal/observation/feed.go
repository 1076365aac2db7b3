package observation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the Met Éireann weather observations website API.
const DefaultBaseURL = "https://wowapi.metweb.ie"

// maxBody caps how much of a response is read.
const maxBody = 64 << 20

// HTTPFeed fetches observations from a WOW-style observations API.
type HTTPFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFeed returns a feed for baseURL with a 30 second client timeout.
// An empty baseURL uses DefaultBaseURL.
func NewHTTPFeed(baseURL string) *HTTPFeed {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPFeed{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// URL builds the request URL for q. The date is sent as DD/MM/YYYY.
func (f *HTTPFeed) URL(q Query) (string, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w: %w", ErrFeed, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: base URL %q needs a scheme and host", ErrFeed, f.BaseURL)
	}
	u = u.JoinPath("getObservations", q.Element)

	v := url.Values{}
	v.Set("date", q.Date.Format("02/01/2006"))
	v.Set("time", strconv.Itoa(q.Hour))
	v.Set("timePoint", "-1")
	v.Set("mapFilterTags", "")
	v.Set("showWowData", "true")
	v.Set("showOfficialData", "true")
	v.Set("showRegisteredSites", "false")
	u.RawQuery = v.Encode()
	return u.String(), nil
}

// Fetch requests the observations for q and parses the GeoJSON response.
func (f *HTTPFeed) Fetch(ctx context.Context, q Query) ([]Observation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	target, err := f.URL(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch observations: %w: %w", ErrFeed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s returned %s: %s", ErrFeed, target, resp.Status, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w: %w", ErrFeed, err)
	}
	return Parse(body, q.Field)
}

// FileFeed reads a saved feed response from disk. The query's element, date
// and hour are ignored; only its field is used.
type FileFeed struct {
	Path string
}

// Fetch reads and parses the file.
func (f FileFeed) Fetch(ctx context.Context, q Query) ([]Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}
	obs, err := Parse(data, q.Field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return obs, nil
}
