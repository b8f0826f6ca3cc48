package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// FileSource reads the tree document from a local file. The version
// argument is ignored; files have no revision pinning.
type FileSource struct {
	Path string
}

// Fetch reads the configured file.
func (s *FileSource) Fetch(ctx context.Context, version string) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file %s: %w", s.Path, err)
	}
	return data, nil
}

// Static serves a fixed in-memory document, mostly for tests.
type Static []byte

// Fetch returns the document.
func (s Static) Fetch(ctx context.Context, version string) ([]byte, error) {
	return []byte(s), nil
}

// HTTPSource fetches the tree document over HTTP. The URL may contain a
// "{version}" placeholder which is substituted per fetch, pinning an
// immutable revision (raw-file-at-commit style). Fetched documents are
// cached by version: a version string names immutable content, so a
// cache hit never needs revalidation. The empty version bypasses the
// cache.
type HTTPSource struct {
	URL    string
	Client *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

// NewHTTPSource creates a source with a default client timeout.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 15 * time.Second},
		cache:  make(map[string][]byte),
	}
}

// Fetch retrieves the document for a version, consulting the cache first.
func (s *HTTPSource) Fetch(ctx context.Context, version string) ([]byte, error) {
	if version != "" {
		s.mu.Lock()
		cached, ok := s.cache[version]
		s.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	url := strings.ReplaceAll(s.URL, "{version}", version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if version != "" {
		s.mu.Lock()
		if s.cache == nil {
			s.cache = make(map[string][]byte)
		}
		s.cache[version] = data
		s.mu.Unlock()
	}
	return data, nil
}
