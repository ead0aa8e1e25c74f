// Package auth stores the credential used to reach a remote storage backend
// (the redis password). TADA_TOKEN overrides the saved file.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvToken     = "TADA_TOKEN"
	credFileName = "credentials.json"

	SourceEnv  = "env"
	SourceFile = "file"
)

type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Dir is ~/.tada unless overridden (tests point it at a temp dir).
var Dir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

func credFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns nil, nil when no credential is configured.
func GetToken() (*TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: SourceEnv}, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Source = SourceFile
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

func SetToken(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	// owner-only: the file holds a secret
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p := filepath.Join(dir, credFileName)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func DeleteToken() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// stripBearer drops a pasted "Bearer " scheme so only the secret is kept.
func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
