package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
)

type stubDocument struct {
	token string
	path  string
}

func (d *stubDocument) CSRFToken() string   { return d.token }
func (d *stubDocument) Path() string        { return d.path }
func (d *stubDocument) Reload()             {}
func (d *stubDocument) Navigate(url string) {}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Params{
		BaseURL:  baseURL,
		Document: &stubDocument{token: "csrf-abc"},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestPostJSONAttachesCSRFToken(t *testing.T) {
	t.Parallel()

	var gotToken, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRFToken")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"success": true, "cart_count": 3}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	var resp struct {
		Success   bool `json:"success"`
		CartCount int  `json:"cart_count"`
	}
	if err := client.PostJSON(context.Background(), "cart_add", "/cart/add/10/", map[string]int{"quantity": 1}, &resp); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if gotToken != "csrf-abc" {
		t.Fatalf("expected CSRF token on POST, got %q", gotToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if !resp.Success || resp.CartCount != 3 {
		t.Fatalf("unexpected decoded response %+v", resp)
	}
}

func TestGetJSONOmitsCSRFToken(t *testing.T) {
	t.Parallel()

	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRFToken")
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	var resp struct {
		Products []any `json:"products"`
	}
	if err := client.GetJSON(context.Background(), "search", "/search/?q=ab&format=json", &resp); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if gotToken != "" {
		t.Fatalf("GET must not carry a CSRF token, got %q", gotToken)
	}
}

func TestStructuredRejectionSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Недостаточно товара на складе"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.PostEmpty(context.Background(), "cart_remove", "/cart/remove/10/", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeServerRejected {
		t.Fatalf("expected server rejection, got %v", err)
	}
	if typed.Message() != "Недостаточно товара на складе" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestNonJSONFailureMapsToNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.PostEmpty(context.Background(), "cart_remove", "/cart/remove/10/", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestTransportFailureMapsToNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.PostJSON(context.Background(), "cart_add", "/cart/add/10/", map[string]int{"quantity": 1}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestNewClientRequiresDocument(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Params{Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard})})
	if err == nil {
		t.Fatal("expected error when document is missing")
	}
}
