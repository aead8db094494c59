// Package auth reads credentials saved by a previous Codex login.
package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNoAuthFile = errors.New("no auth.json found")
	ErrInvalidJWT = errors.New("invalid JWT token")
)

// Credentials are the values needed to authenticate upstream requests.
type Credentials struct {
	AccessToken string
	AccountID   string
}

type tokenData struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
}

type authFile struct {
	APIKey string    `json:"OPENAI_API_KEY"`
	Tokens tokenData `json:"tokens"`
}

// searchDirs lists the directories probed for auth.json, in priority order.
func searchDirs() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{
		os.Getenv("CODEX_CLIENT_HOME"),
		os.Getenv("CODEX_HOME"),
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".codex"))
	}
	return dirs
}

// Load returns the credentials from the first readable auth.json. A ChatGPT
// access token is preferred over a stored API key.
func Load() (Credentials, error) {
	for _, dir := range searchDirs() {
		if dir == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
		if err != nil {
			continue
		}
		var af authFile
		if err := json.Unmarshal(data, &af); err != nil {
			continue
		}
		if creds, ok := af.credentials(); ok {
			return creds, nil
		}
	}
	return Credentials{}, ErrNoAuthFile
}

func (af *authFile) credentials() (Credentials, bool) {
	if token := strings.TrimSpace(af.Tokens.AccessToken); token != "" {
		accountID := af.Tokens.AccountID
		if accountID == "" {
			accountID = DeriveAccountID(af.Tokens.IDToken)
		}
		return Credentials{AccessToken: token, AccountID: accountID}, true
	}
	if key := strings.TrimSpace(af.APIKey); key != "" {
		return Credentials{AccessToken: key}, true
	}
	return Credentials{}, false
}

type idClaims struct {
	Auth struct {
		AccountID string `json:"chatgpt_account_id"`
	} `json:"https://api.openai.com/auth"`
}

// DeriveAccountID extracts the ChatGPT account ID from an id_token's claims.
// The signature is not verified.
func DeriveAccountID(idToken string) string {
	var claims idClaims
	if err := decodeJWTPayload(idToken, &claims); err != nil {
		return ""
	}
	return claims.Auth.AccountID
}

func decodeJWTPayload(token string, v any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidJWT
	}
	data, err := base64URLDecode(parts[1])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
