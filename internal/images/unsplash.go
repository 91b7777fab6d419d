package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

var (
	ErrNotConfigured = errors.New("image search is not configured")
	ErrImageFetch    = errors.New("image fetch failed")
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// UnsplashClient ищет фотографии по названию места.
type UnsplashClient struct {
	accessKey   string
	baseURL     string
	perPage     int
	orientation string
	httpClient  *http.Client
}

type photoURLs struct {
	Regular string `json:"regular"`
}

type photo struct {
	URLs photoURLs `json:"urls"`
}

type searchResponse struct {
	Results []photo `json:"results"`
}

// NewUnsplashClient создает клиент Unsplash с заданными параметрами.
func NewUnsplashClient(accessKey, baseURL string, perPage int, orientation string, timeout time.Duration) *UnsplashClient {
	return &UnsplashClient{
		accessKey:   strings.TrimSpace(accessKey),
		baseURL:     strings.TrimRight(baseURL, "/"),
		perPage:     perPage,
		orientation: orientation,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Search возвращает ссылки на изображения в порядке выдачи Unsplash.
func (c *UnsplashClient) Search(ctx context.Context, query string) ([]string, error) {
	if c.accessKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(c.perPage))
	if c.orientation != "" {
		params.Set("orientation", c.orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unsplash status %d", ErrImageFetch, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrImageFetch, err)
	}

	urls := lo.Map(payload.Results, func(item photo, _ int) string {
		return item.URLs.Regular
	})

	return lo.Compact(urls), nil
}
