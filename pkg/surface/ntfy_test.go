package surface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/sniffnotify/pkg/notification"
)

func TestNtfy_Emit(t *testing.T) {
	tests := []struct {
		name        string
		payload     any
		serverFunc  func(t *testing.T) http.HandlerFunc
		wantErr     bool
		errContains string
	}{
		{
			name:    "successful send",
			payload: notification.Message{Message: "LRT Message"},
			serverFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					if r.Method != http.MethodPost {
						t.Errorf("Method = %v, want POST", r.Method)
					}
					if r.URL.Path != "/" {
						t.Errorf("Path = %v, want /", r.URL.Path)
					}
					if ct := r.Header.Get("Content-Type"); ct != "application/json" {
						t.Errorf("Content-Type = %q, want application/json", ct)
					}

					body, _ := io.ReadAll(r.Body)
					var payload map[string]interface{}
					if err := json.Unmarshal(body, &payload); err != nil {
						t.Errorf("Failed to unmarshal body: %v", err)
					}

					if payload["topic"] != "alerts" {
						t.Errorf("topic = %v, want alerts", payload["topic"])
					}
					if payload["title"] != "longRunningThread" {
						t.Errorf("title = %v, want longRunningThread", payload["title"])
					}
					if payload["message"] != "LRT Message" {
						t.Errorf("message = %v, want LRT Message", payload["message"])
					}

					w.WriteHeader(http.StatusOK)
					_, _ = fmt.Fprint(w, `{"id":"test123"}`)
				}
			},
		},
		{
			name:    "server error",
			payload: "x",
			serverFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = fmt.Fprint(w, "Internal Server Error")
				}
			},
			wantErr:     true,
			errContains: "ntfy returned status 500",
		},
		{
			name:    "rate limit error",
			payload: "x",
			serverFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusTooManyRequests)
					_, _ = fmt.Fprint(w, "Rate limited")
				}
			},
			wantErr:     true,
			errContains: "Rate limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.serverFunc(t))
			defer server.Close()

			n := NewNtfy(server.URL+"/", "alerts")
			err := n.Emit("longRunningThread", tt.payload)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Emit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Emit() error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}

func TestNtfy_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewNtfy(url, "alerts").Emit("tick", nil)
	if err == nil || !strings.Contains(err.Error(), "failed to send ntfy message") {
		t.Errorf("Emit() error = %v, want send failure", err)
	}
}

func TestNtfy_WithContextCancelsRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	n := NewNtfy(server.URL, "alerts").WithContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Emit("tick", "x")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Emit() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Emit did not return after its context was cancelled")
	}
}
