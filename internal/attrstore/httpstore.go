package attrstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPStore is a minimal Store backed by a plain HTTP coordinator: Get
// issues GET <baseURL>/<path>, Set issues PUT <baseURL>/<path> with value
// as the request body. The wire protocol of the real fabric ensemble
// coordinator (ZooKeeper in the original system) is out of scope here;
// this is the thin glue CachingStore needs to have a concrete upstream to
// wrap when one is configured.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore returns a Store against baseURL, e.g. "http://localhost:8181/attrs".
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{baseURL: strings.TrimRight(baseURL, "/"), client: http.DefaultClient}
}

// Get fetches path's value. A non-2xx response is reported as an error,
// letting CachingStore fall back to its last-known value.
func (s *HTTPStore) Get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(path), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("attrstore: GET %s: %s", path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Set writes value to path.
func (s *HTTPStore) Set(ctx context.Context, path, value string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url(path), strings.NewReader(value))
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("attrstore: PUT %s: %s", path, resp.Status)
	}
	return nil
}

func (s *HTTPStore) url(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
