package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

// ManagedKeys are the environment variables a Vault path may populate.
// Anything else stored at the path is ignored.
var ManagedKeys = []string{
	"OPENAI_API_KEY",
	"WEB_SEARCH_API_KEY",
	"GEOLOCATION_API_KEY",
	"WHATSAPP_ACCESS_TOKEN",
	"TYPESENSE_API_KEY",
	"DB_PASSWORD",
	"REDIS_PASSWORD",
}

// VaultConfig points at one KV secret
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	Overwrite bool
}

// VaultResult reports which managed keys were exported
type VaultResult struct {
	Path    string
	Loaded  []string
	Skipped []string
	Ignored int
}

// LoadVaultConfigFromEnv reads VAULT_* variables
func LoadVaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     os.Getenv("VAULT_MOUNT"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && v > 0 {
		cfg.Timeout = time.Duration(v) * time.Millisecond
	}
	return cfg
}

// Fetch reads the secret at cfg.Path and returns its key/value pairs
func Fetch(ctx context.Context, client *http.Client, cfg VaultConfig) (map[string]string, error) {
	if cfg.Addr == "" || cfg.Token == "" || strings.Trim(cfg.Path, "/") == "" {
		return nil, apperrors.NewValidationError("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, secretURL(cfg), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build vault request", err)
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("vault request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read vault response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("vault returned %d", resp.StatusCode),
			errors.New(strings.TrimSpace(string(body))),
		)
	}

	var payload struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode vault response", err)
	}

	data := payload.Data
	if cfg.KVVersion != 1 {
		var inner map[string]json.RawMessage
		if raw, ok := payload.Data["data"]; !ok || json.Unmarshal(raw, &inner) != nil {
			return nil, apperrors.NewExternalError("vault response missing data", nil)
		}
		data = inner
	}
	if data == nil {
		return nil, apperrors.NewExternalError("vault response missing data", nil)
	}

	out := make(map[string]string, len(data))
	for k, raw := range data {
		out[k] = stringify(raw)
	}
	return out, nil
}

// ApplyVaultSecrets exports managed keys from Vault into the process environment.
// Keys already set are kept unless cfg.Overwrite is true.
func ApplyVaultSecrets(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	result := VaultResult{Path: cfg.Path}
	if !cfg.Enabled {
		return result, nil
	}

	data, err := Fetch(ctx, nil, cfg)
	if err != nil {
		return result, err
	}

	result.Ignored = len(data)
	for _, key := range ManagedKeys {
		value, ok := data[key]
		if !ok {
			continue
		}
		result.Ignored--
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return result, apperrors.NewInternalError("failed to export "+key, err)
		}
		result.Loaded = append(result.Loaded, key)
	}
	return result, nil
}

func secretURL(cfg VaultConfig) string {
	addr := strings.TrimRight(cfg.Addr, "/")
	mount := strings.Trim(cfg.Mount, "/")
	if mount == "" {
		mount = "secret"
	}
	path := strings.Trim(cfg.Path, "/")
	if cfg.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
}

// stringify renders a JSON value as an environment string; strings lose their quotes
func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
