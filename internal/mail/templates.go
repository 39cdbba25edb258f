package mail

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"muuapp-api/internal/storage"
)

//go:embed templates/reset_password.html
var defaultResetTemplate string

// ResetPasswordData feeds the password reset email.
type ResetPasswordData struct {
	Name  string
	Email string
	Link  string
}

// Templates renders the transactional emails.
type Templates struct {
	reset *template.Template
}

// NewTemplates parses resetHTML as the password reset body. An empty string
// selects the built-in template.
func NewTemplates(resetHTML string) (*Templates, error) {
	if resetHTML == "" {
		resetHTML = defaultResetTemplate
	}
	tpl, err := template.New("reset_password").Parse(resetHTML)
	if err != nil {
		return nil, fmt.Errorf("parse reset password template: %w", err)
	}
	return &Templates{reset: tpl}, nil
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() *Templates {
	t, err := NewTemplates("")
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTemplates fetches the reset template from object storage. Without a
// bucket the built-in templates are returned.
func LoadTemplates(ctx context.Context, fetcher storage.ObjectFetcher, bucket, key string) (*Templates, error) {
	if bucket == "" || fetcher == nil {
		return DefaultTemplates(), nil
	}
	raw, err := fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetch template s3://%s/%s: %w", bucket, key, err)
	}
	return NewTemplates(string(raw))
}

func (t *Templates) ResetPassword(data ResetPasswordData) (string, error) {
	var buf bytes.Buffer
	if err := t.reset.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render reset password email: %w", err)
	}
	return buf.String(), nil
}
