package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Credentials holds API keys outside settings.json so the settings file can
// be shared without leaking secrets.
type Credentials struct {
	Keys map[string]string `json:"keys"` // credential name → API key
}

// credMu guards read-modify-write cycles on the credentials file.
var credMu sync.Mutex

func CredentialsPath() string {
	return filepath.Join(ConfigDir(), "credentials.json")
}

func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(CredentialsPath())
}

func LoadCredentialsFrom(path string) (Credentials, error) {
	creds := Credentials{Keys: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{Keys: make(map[string]string)}, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if creds.Keys == nil {
		creds.Keys = make(map[string]string)
	}
	return creds, nil
}

// SaveAPIKey stores key under name; an empty key removes the entry.
func SaveAPIKey(name, key string) error {
	return SaveAPIKeyTo(CredentialsPath(), name, key)
}

func SaveAPIKeyTo(path, name, key string) error {
	credMu.Lock()
	defer credMu.Unlock()

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		delete(creds.Keys, name)
	} else {
		creds.Keys[name] = key
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// MaskKey shortens a key for display, e.g. "abcd…wxyz".
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return "not set"
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "…" + key[len(key)-4:]
	}
}
