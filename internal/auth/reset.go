package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
)

// ResetPayload is embedded, base64 encoded, in password reset links so the
// recovery page can greet the user. It is not signed.
type ResetPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EncodeResetPayload returns the standard base64 encoding of the payload JSON.
func EncodeResetPayload(p ResetPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal reset payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func DecodeResetPayload(blob string) (ResetPayload, error) {
	var p ResetPayload
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return p, fmt.Errorf("decode reset payload: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("unmarshal reset payload: %w", err)
	}
	return p, nil
}

// ResetLink builds <pageURL>?data=<blob>[&token=<token>].
func ResetLink(pageURL, blob, token string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse reset page url: %w", err)
	}
	q := u.Query()
	q.Set("data", blob)
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
