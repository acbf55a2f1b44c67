package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BaGreal2/filmes-server/internal/model"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

var (
	ErrNotFound            = errors.New("no catalog match")
	ErrUpstreamUnavailable = errors.New("catalog provider unavailable")
)

type Config struct {
	BaseURL  string
	Bearer   string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// Client performs a single attempt per lookup; there is no retry policy.
type Client struct {
	baseURL  string
	bearer   string
	apiKey   string
	language string
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  base,
		bearer:   cfg.Bearer,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Results []struct {
		Title        string `json:"title"`
		Name         string `json:"name"`
		Overview     string `json:"overview"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
}

// Search looks the title up and normalizes the first-ranked match.
func (c *Client) Search(ctx context.Context, mediaType model.MediaType, title string) (model.CatalogResult, error) {
	endpoint := "/search/movie"
	if mediaType == model.MediaSeries {
		endpoint = "/search/tv"
	}

	q := url.Values{}
	q.Set("query", title)
	if c.language != "" {
		q.Set("language", c.language)
	}
	if c.bearer == "" && c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	var res searchResponse
	if err := c.get(ctx, endpoint+"?"+q.Encode(), &res); err != nil {
		return model.CatalogResult{}, err
	}
	if len(res.Results) == 0 {
		return model.CatalogResult{}, ErrNotFound
	}

	first := res.Results[0]
	if mediaType == model.MediaSeries {
		return model.CatalogResult{Title: first.Name, Overview: first.Overview, ReleaseDate: first.FirstAirDate}, nil
	}
	return model.CatalogResult{Title: first.Title, Overview: first.Overview, ReleaseDate: first.ReleaseDate}, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: TMDB returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
