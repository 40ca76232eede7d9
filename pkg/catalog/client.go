// Package catalog wraps the read-only TMDB movie catalog. The review
// service never consumes this package; only the catalog proxy routes do.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// MovieSummary is the list-item shape shared by the top-rated, popular
// and search lookups.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail extends the summary with the fields the detail page shows.
type MovieDetail struct {
	MovieSummary
	Tagline  string  `json:"tagline"`
	Runtime  int     `json:"runtime"`
	Genres   []Genre `json:"genres"`
	Overview string  `json:"overview"`
}

type listResponse struct {
	Page    int            `json:"page"`
	Results []MovieSummary `json:"results"`
}

type Client struct {
	http   *resty.Client
	apiKey string
}

func New(baseURL, apiKey string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Client{http: http, apiKey: apiKey}
}

func (c *Client) TopRated(ctx context.Context) ([]MovieSummary, error) {
	return c.list(ctx, "/movie/top_rated", nil)
}

func (c *Client) Popular(ctx context.Context, page int) ([]MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	return c.list(ctx, "/movie/popular", map[string]string{"page": strconv.Itoa(page)})
}

func (c *Client) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	return c.list(ctx, "/search/movie", map[string]string{"query": query})
}

func (c *Client) Details(ctx context.Context, movieID string) (*MovieDetail, error) {
	var detail MovieDetail
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&detail).
		Get("/movie/" + movieID)
	if err != nil {
		return nil, fmt.Errorf("fetch movie %s: %w", movieID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch movie %s: catalog returned %s", movieID, resp.Status())
	}
	return &detail, nil
}

func (c *Client) list(ctx context.Context, path string, params map[string]string) ([]MovieSummary, error) {
	var out listResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&out)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: catalog returned %s", path, resp.Status())
	}
	return out.Results, nil
}
