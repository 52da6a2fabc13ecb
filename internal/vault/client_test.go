package vault

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newVaultServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	t.Setenv("VAULT_TOKEN", "")
	t.Setenv("VAULT_ADDR", "")
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetString_KVv1(t *testing.T) {
	srv := newVaultServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/catbackup" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("X-Vault-Token"); got != "root" {
			t.Errorf("vault token header = %q", got)
		}
		writeJSON(w, map[string]any{"data": map[string]any{"token": "disk-token"}})
	})

	client, err := NewClient(context.Background(), WithAddress(srv.URL), WithToken("root"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := client.GetString(context.Background(), "secret/catbackup", "token")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "disk-token" {
		t.Fatalf("got %q", got)
	}
}

func TestGetString_KVv2(t *testing.T) {
	srv := newVaultServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{
			"data":     map[string]any{"token": "v2-token"},
			"metadata": map[string]any{"version": 3},
		}})
	})

	client, err := NewClient(context.Background(), WithAddress(srv.URL), WithToken("root"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := client.GetString(context.Background(), "secret/data/catbackup", "token")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "v2-token" {
		t.Fatalf("got %q", got)
	}
}

func TestGetString_MissingKey(t *testing.T) {
	srv := newVaultServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"other": "x"}})
	})

	client, err := NewClient(context.Background(), WithAddress(srv.URL), WithToken("root"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.GetString(context.Background(), "secret/catbackup", "token")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestNewClient_AppRoleLogin(t *testing.T) {
	srv := newVaultServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/approle/role/catbackup/secret-id":
			writeJSON(w, map[string]any{"data": map[string]any{"secret_id": "sid"}})
		case "/v1/auth/approle/login":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["role_id"] != "rid" || body["secret_id"] != "sid" {
				t.Errorf("login body = %v", body)
			}
			writeJSON(w, map[string]any{"auth": map[string]any{"client_token": "session"}})
		case "/v1/secret/catbackup":
			if got := r.Header.Get("X-Vault-Token"); got != "session" {
				t.Errorf("read used token %q", got)
			}
			writeJSON(w, map[string]any{"data": map[string]any{"token": "from-approle"}})
		default:
			http.NotFound(w, r)
		}
	})

	client, err := NewClient(context.Background(),
		WithAddress(srv.URL),
		WithToken("bootstrap"),
		WithAppRole("rid", "catbackup"),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := client.GetString(context.Background(), "secret/catbackup", "token")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "from-approle" {
		t.Fatalf("got %q", got)
	}
}
