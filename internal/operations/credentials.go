package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kebairia/catbackup/internal/config"
	"github.com/kebairia/catbackup/internal/vault"
)

// ErrEmptyToken is returned when no source produced a storage token.
var ErrEmptyToken = errors.New("token cannot be empty")

// TokenSource names where the storage token came from.
type TokenSource string

const (
	TokenFromFlag   TokenSource = "flag"
	TokenFromConfig TokenSource = "config"
	TokenFromVault  TokenSource = "vault"
	TokenFromPrompt TokenSource = "prompt"
)

// ResolveToken picks the storage token: explicit value, then config/env,
// then Vault when configured, then ask. ask may be nil.
func ResolveToken(
	ctx context.Context,
	cfg config.Config,
	explicit string,
	ask func() (string, error),
) (string, TokenSource, error) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, TokenFromFlag, nil
	}
	if t := strings.TrimSpace(cfg.Storage.Token); t != "" {
		return t, TokenFromConfig, nil
	}

	if cfg.Vault.Enabled() {
		vaultOpts := []vault.Option{
			vault.WithAddress(cfg.Vault.Address),
			vault.WithAppRole(cfg.Vault.RoleID, cfg.Vault.ApproleName),
		}
		client, err := vault.NewClient(ctx, vaultOpts...)
		if err != nil {
			return "", "", fmt.Errorf("vault client init: %w", err)
		}
		t, err := client.GetString(ctx, cfg.Vault.TokenPath, cfg.Vault.TokenKey)
		if err != nil {
			return "", "", fmt.Errorf("read storage token from vault: %w", err)
		}
		if t = strings.TrimSpace(t); t == "" {
			return "", "", fmt.Errorf("vault secret %s: %w", cfg.Vault.TokenPath, ErrEmptyToken)
		}
		return t, TokenFromVault, nil
	}

	if ask == nil {
		return "", "", ErrEmptyToken
	}
	t, err := ask()
	if err != nil {
		return "", "", fmt.Errorf("read token: %w", err)
	}
	if t = strings.TrimSpace(t); t == "" {
		return "", "", ErrEmptyToken
	}
	return t, TokenFromPrompt, nil
}
