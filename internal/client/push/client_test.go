package push

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"resource-tracker/internal/config"
)

// setupTestServer creates a test server and push client for testing.
func setupTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.PushConfig{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	}
	retryCfg := &config.RetryConfig{
		MaxRetries: 2,
		BaseDelay:  10 * time.Millisecond,
	}
	client := NewClient(cfg, retryCfg, zerolog.Nop())
	return server, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.PushConfig
		retryCfg *config.RetryConfig
	}{
		{
			name: "with all config",
			cfg: &config.PushConfig{
				Endpoint: "http://localhost:5000",
				Timeout:  30 * time.Second,
			},
			retryCfg: &config.RetryConfig{
				MaxRetries: 5,
				BaseDelay:  2 * time.Second,
			},
		},
		{
			name: "with nil retry config",
			cfg: &config.PushConfig{
				Endpoint: "http://localhost:5000",
				Timeout:  30 * time.Second,
			},
			retryCfg: nil,
		},
		{
			name: "with zero timeout",
			cfg: &config.PushConfig{
				Endpoint: "http://localhost:5000",
			},
			retryCfg: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.cfg, tt.retryCfg, zerolog.Nop())

			if client == nil {
				t.Fatal("NewClient returned nil")
			}
			if client.endpoint != tt.cfg.Endpoint {
				t.Errorf("Expected endpoint '%s', got '%s'", tt.cfg.Endpoint, client.endpoint)
			}
			if client.httpClient == nil {
				t.Error("HTTP client should not be nil")
			}

			// Verify default timeout when zero
			if tt.cfg.Timeout == 0 && client.timeout != 30*time.Second {
				t.Errorf("Expected default timeout 30s, got %v", client.timeout)
			}

			// Verify default retry config when nil
			if tt.retryCfg == nil && client.retry.MaxRetries != 3 {
				t.Errorf("Expected default max retries 3, got %d", client.retry.MaxRetries)
			}
		})
	}
}

func TestPush_Success(t *testing.T) {
	payload := []byte("Username: user001\nTotal RAM: 15.78 GB\n")

	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin" {
			t.Errorf("Expected path /admin, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		body, _ := io.ReadAll(r.Body)
		if string(body) != string(payload) {
			t.Errorf("Body = %q, want %q", body, payload)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success","user_id":"user001","message":"Log processed and stored for user001"}`))
	}

	_, client := setupTestServer(t, handler)

	result, err := client.Push(context.Background(), payload)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if result.Status != "success" {
		t.Errorf("Status = %q, want success", result.Status)
	}
	if result.UserID != "user001" {
		t.Errorf("UserID = %q, want user001", result.UserID)
	}
	if result.Message != "Log processed and stored for user001" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestPush_ServerError(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"disk full"}`))
	}

	_, client := setupTestServer(t, handler)

	_, err := client.Push(context.Background(), []byte("payload"))
	if err == nil {
		t.Fatal("Push() should return error for 5xx response")
	}

	// 5xx responses are retried: initial attempt + 2 retries
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server called %d times, want 3 (with retries)", got)
	}
}

func TestPush_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte(`{"status":"error","message":"payload too large"}`))
	}

	_, client := setupTestServer(t, handler)

	_, err := client.Push(context.Background(), []byte("payload"))
	if err == nil {
		t.Fatal("Push() should return error for 4xx response")
	}

	// 4xx responses are not retried
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server called %d times, want 1 (no retries)", got)
	}
}

func TestRetryCondition(t *testing.T) {
	tests := []struct {
		name string
		resp *resty.Response
		err  error
		want bool
	}{
		{
			name: "retry on error",
			resp: nil,
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "no retry without response or error",
			resp: nil,
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryCondition(tt.resp, tt.err); got != tt.want {
				t.Errorf("retryCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPush_RecoversAfterRetry(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","user_id":"user001","message":"ok"}`))
	}

	_, client := setupTestServer(t, handler)

	result, err := client.Push(context.Background(), []byte("payload"))
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if result.UserID != "user001" {
		t.Errorf("UserID = %q, want user001", result.UserID)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}
