package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetAPIToken returns the bearer token that protects the local HTTP API,
// generating and persisting one on first use. The WISEBRIEF_API_TOKEN
// environment variable overrides the stored token.
func GetAPIToken() (string, error) {
	if tok := os.Getenv("WISEBRIEF_API_TOKEN"); tok != "" {
		return tok, nil
	}

	path := tokenFilePath()
	if data, err := os.ReadFile(path); err == nil {
		tok := strings.TrimSpace(string(data))
		if tok != "" {
			return tok, nil
		}
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating API token: %w", err)
	}
	tok := hex.EncodeToString(buf)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(tok+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing API token: %w", err)
	}
	return tok, nil
}

func tokenFilePath() string {
	return filepath.Join(filepath.Dir(configFilePath()), "api_token")
}
