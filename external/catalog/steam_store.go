package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/foxseedlab/jukebox/internal/catalog"
	"golang.org/x/sync/singleflight"
)

type steamApp struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

type steamAppList struct {
	AppList struct {
		Apps []steamApp `json:"apps"`
	} `json:"applist"`
}

// SteamStore matches app names against the Steam app list and keeps the
// ones whose store page still exists.
type SteamStore struct {
	appListURL string
	storeURL   string
	client     *http.Client
	probe      *http.Client

	group singleflight.Group
	mu    sync.RWMutex
	apps  []steamApp
}

func NewSteamStore(appListURL, storeBaseURL string) catalog.Catalog {
	return newSteamStore(appListURL, storeBaseURL, &http.Client{})
}

func newSteamStore(appListURL, storeBaseURL string, client *http.Client) *SteamStore {
	probe := *client
	probe.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &SteamStore{
		appListURL: appListURL,
		storeURL:   strings.TrimRight(storeBaseURL, "/"),
		client:     client,
		probe:      &probe,
	}
}

func (s *SteamStore) FindStorePages(ctx context.Context, query string, limit int) ([]string, error) {
	apps, err := s.appList(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil, nil
	}

	var pages []string
	for _, app := range apps {
		if len(pages) >= limit {
			break
		}
		name := strings.ToLower(app.Name)
		if !isListedApp(name) || !strings.Contains(name, query) {
			continue
		}
		page := s.storeURL + "/app/" + strconv.FormatInt(app.AppID, 10)
		live, err := s.pageExists(ctx, page)
		if err != nil {
			return pages, err
		}
		if live {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// appList fetches the list on first use; failed fetches are retried on the
// next lookup.
func (s *SteamStore) appList(ctx context.Context) ([]steamApp, error) {
	s.mu.RLock()
	apps := s.apps
	s.mu.RUnlock()
	if apps != nil {
		return apps, nil
	}

	v, err, _ := s.group.Do("applist", func() (any, error) {
		fetched, err := s.fetchAppList(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.apps = fetched
		s.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]steamApp), nil
}

func (s *SteamStore) fetchAppList(ctx context.Context) ([]steamApp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.appListURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app list: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("app list returned status %d", resp.StatusCode)
	}
	var list steamAppList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode app list: %w", err)
	}
	apps := list.AppList.Apps
	if apps == nil {
		apps = []steamApp{}
	}
	return apps, nil
}

// pageExists reports false when the store redirects the page to its front page.
func (s *SteamStore) pageExists(ctx context.Context, page string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return false, err
	}
	resp, err := s.probe.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to probe %s: %w", page, err)
	}
	_ = resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "" {
		return strings.TrimRight(loc, "/") != s.storeURL, nil
	}
	return isHTTPSuccessStatus(resp.StatusCode), nil
}

func isListedApp(lowerName string) bool {
	return !strings.Contains(lowerName, "-") && !strings.Contains(lowerName, "trailer")
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
