package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSearchNotConfigured проверяет ошибку без ключа доступа.
func TestSearchNotConfigured(t *testing.T) {
	client := NewUnsplashClient("", "http://unused", 3, "landscape", time.Second)

	if _, err := client.Search(context.Background(), "Coorg"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

// TestSearchReturnsRegularURLs проверяет параметры запроса и разбор ответа.
func TestSearchReturnsRegularURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("query") != "Coorg" || query.Get("per_page") != "3" || query.Get("orientation") != "landscape" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Client-ID key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://img/1"}},{"urls":{"regular":"https://img/2"}},{"urls":{}}]}`))
	}))
	defer server.Close()

	client := NewUnsplashClient("key", server.URL+"/", 3, "landscape", time.Second)

	urls, err := client.Search(context.Background(), "Coorg")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://img/1" || urls[1] != "https://img/2" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

// TestSearchStatusError проверяет ошибку при неуспешном статусе.
func TestSearchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewUnsplashClient("key", server.URL, 3, "landscape", time.Second)

	if _, err := client.Search(context.Background(), "Coorg"); !errors.Is(err, ErrImageFetch) {
		t.Fatalf("expected ErrImageFetch, got %v", err)
	}
}
