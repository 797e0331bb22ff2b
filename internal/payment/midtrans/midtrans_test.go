package midtrans

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientRequiresServerKey(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid got %v", err)
	}
	if _, err := NewClient(Config{ServerKey: "   "}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("blank server key want ErrConfigInvalid got %v", err)
	}
}

func TestNewClientBaseURLSelection(t *testing.T) {
	sandbox, err := NewClient(Config{ServerKey: "sk"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if sandbox.baseURL != SandboxBaseURL {
		t.Fatalf("default base url want sandbox got %s", sandbox.baseURL)
	}

	prod, err := NewClient(Config{ServerKey: "sk", Production: true})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if prod.baseURL != ProductionBaseURL {
		t.Fatalf("production base url want %s got %s", ProductionBaseURL, prod.baseURL)
	}

	override, err := NewClient(Config{ServerKey: "sk", BaseURL: "http://localhost:9090/"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if override.baseURL != "http://localhost:9090" {
		t.Fatalf("override base url should drop trailing slash, got %s", override.baseURL)
	}
}

func TestCreateTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/snap/v1/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "sk-test" || pass != "" {
			t.Errorf("basic auth want server key with empty password, got %q/%q", user, pass)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type want application/json got %s", ct)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"abc123","redirect_url":"https://app.sandbox.midtrans.com/snap/v2/vtweb/abc123"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	resp, err := client.CreateTransaction(context.Background(), SnapRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORDER-1", GrossAmount: 370000},
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	if resp.Token != "abc123" || resp.RedirectURL == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateTransactionValidatesInput(t *testing.T) {
	client, err := NewClient(Config{ServerKey: "sk-test"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	if _, err := client.CreateTransaction(context.Background(), SnapRequest{
		TransactionDetails: TransactionDetails{OrderID: "", GrossAmount: 1000},
	}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("empty order id want ErrConfigInvalid got %v", err)
	}
	if _, err := client.CreateTransaction(context.Background(), SnapRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORDER-1", GrossAmount: 0},
	}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("zero amount want ErrConfigInvalid got %v", err)
	}
}

func TestCreateTransactionGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_messages":["Access denied due to unauthorized transaction","Please check client or server key"]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "sk-bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	_, err = client.CreateTransaction(context.Background(), SnapRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORDER-1", GrossAmount: 1000},
	})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed got %v", err)
	}
	if !strings.Contains(err.Error(), "Access denied") || !strings.Contains(err.Error(), "; ") {
		t.Fatalf("error should join gateway messages, got %v", err)
	}
}

func TestCreateTransactionEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"token":"","redirect_url":""}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	_, err = client.CreateTransaction(context.Background(), SnapRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORDER-1", GrossAmount: 1000},
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("want ErrResponseInvalid got %v", err)
	}
}
