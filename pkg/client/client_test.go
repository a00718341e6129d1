package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name: "empty base URL falls back to default",
			config: Config{
				UserAgent: "TestApp/1.0.0 (test@example.com)",
			},
			expectError: false,
		},
		{
			name: "empty user agent",
			config: Config{
				BaseURL: DefaultBaseURL,
			},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
		{
			name: "negative timeout",
			config: Config{
				UserAgent: "TestApp/1.0.0",
				Timeout:   -1 * time.Second,
			},
			expectError: true,
			errorMsg:    "timeout must be >= 0 (got -1s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("Expected client but got nil")
			}
		})
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c, err := New(Config{UserAgent: "TestApp/1.0.0"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	c, err := New(Config{
		BaseURL:   serverURL,
		UserAgent: "TestApp/1.0.0 (test@example.com)",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestGet_Success(t *testing.T) {
	var gotUA, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [], "endOfRecords": true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	query := url.Values{}
	query.Set("q", "Rana")
	resp, err := c.Get(context.Background(), "/v1/occurrence/search", query)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "endOfRecords") {
		t.Errorf("unexpected body: %s", body)
	}
	if gotUA != "TestApp/1.0.0 (test@example.com)" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotQuery != "q=Rana" {
		t.Errorf("query = %q, want q=Rana", gotQuery)
	}
}

func TestGet_HTTPErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantClass ErrorClass
	}{
		{"bad_request", http.StatusBadRequest, ErrorClassClient},
		{"not_found", http.StatusNotFound, ErrorClassClient},
		{"server_error", http.StatusInternalServerError, ErrorClassServer},
		{"bad_gateway", http.StatusBadGateway, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL)

			_, err := c.Get(context.Background(), "/v1/occurrence/search", nil)
			if err == nil {
				t.Fatal("Expected error for non-2xx status")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error is %T, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.ErrorClass != tt.wantClass {
				t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, tt.wantClass)
			}
		})
	}
}

func TestGet_NetworkError(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Get(context.Background(), "/v1/occurrence/search", nil)
	if err == nil {
		t.Fatal("Expected network error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, ErrorClassNetwork)
	}
	if apiErr.Unwrap() == nil {
		t.Error("network APIError should wrap the transport error")
	}
}

func TestGet_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "/v1/occurrence/search", nil)
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}
