package operations

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kebairia/catbackup/internal/config"
)

func TestResolveToken_Precedence(t *testing.T) {
	askCalled := false
	ask := func() (string, error) {
		askCalled = true
		return "prompted", nil
	}
	cfg := config.Config{Storage: config.StorageConfig{Token: " from-config "}}

	tok, src, err := ResolveToken(context.Background(), cfg, "from-flag", ask)
	if err != nil || tok != "from-flag" || src != TokenFromFlag {
		t.Fatalf("flag: %q %q %v", tok, src, err)
	}

	tok, src, err = ResolveToken(context.Background(), cfg, "", ask)
	if err != nil || tok != "from-config" || src != TokenFromConfig {
		t.Fatalf("config: %q %q %v", tok, src, err)
	}

	tok, src, err = ResolveToken(context.Background(), config.Config{}, "", ask)
	if err != nil || tok != "prompted" || src != TokenFromPrompt {
		t.Fatalf("prompt: %q %q %v", tok, src, err)
	}
	if !askCalled {
		t.Fatal("prompt not consulted")
	}
}

func TestResolveToken_Empty(t *testing.T) {
	_, _, err := ResolveToken(context.Background(), config.Config{}, "", func() (string, error) {
		return "   ", nil
	})
	if !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}

	_, _, err = ResolveToken(context.Background(), config.Config{}, "", nil)
	if !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken without prompt, got %v", err)
	}
}

func TestResolveToken_Vault(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")
	t.Setenv("VAULT_TOKEN", "root")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/kv/data/catbackup" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"data":{"disk_token":"from-vault"},"metadata":{"version":1}}}`)
	}))
	defer srv.Close()

	cfg := config.Config{Vault: config.VaultConfig{
		Address:   srv.URL,
		TokenPath: "kv/data/catbackup",
		TokenKey:  "disk_token",
	}}
	tok, src, err := ResolveToken(context.Background(), cfg, "", func() (string, error) {
		t.Fatal("prompt must not be used when vault is configured")
		return "", nil
	})
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if tok != "from-vault" || src != TokenFromVault {
		t.Fatalf("got %q from %q", tok, src)
	}
}

func TestResolveToken_VaultBlankSecret(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")
	t.Setenv("VAULT_TOKEN", "root")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"data":{"disk_token":"  \n"},"metadata":{"version":1}}}`)
	}))
	defer srv.Close()

	cfg := config.Config{Vault: config.VaultConfig{
		Address:   srv.URL,
		TokenPath: "kv/data/catbackup",
		TokenKey:  "disk_token",
	}}
	tok, _, err := ResolveToken(context.Background(), cfg, "", nil)
	if !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %q, %v", tok, err)
	}
}
