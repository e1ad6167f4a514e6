package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/foxseedlab/jukebox/internal/resolver"
)

const (
	defaultSearchBaseURL = "https://www.youtube.com"
	maxSearchBodyBytes   = 4 << 20
)

var searchResultPattern = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)

// Searcher finds the first video on a YouTube results page.
type Searcher struct {
	BaseURL string
	Client  *http.Client
}

func NewSearcher() *Searcher {
	return &Searcher{
		BaseURL: defaultSearchBaseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Searcher) SearchFirstVideoURL(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", s.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube search failed with status code %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodyBytes))
	if err != nil {
		return "", err
	}
	m := searchResultPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no video found for %q: %w", query, resolver.ErrNoMatches)
	}
	return fmt.Sprintf(watchURLFormat, m[1]), nil
}
