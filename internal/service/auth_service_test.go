package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muuapp-api/internal/auth"
	"muuapp-api/internal/domain"
	"muuapp-api/internal/validation"
)

const testResetPage = "https://muuapp.example/recovery-password"

func newTestAuthService(users *fakeUsersRepo, mailer *fakeMailer, requireToken bool) AuthService {
	return NewAuthService(users, testHasher(), testIssuer(), mailer, nil, AuthConfig{
		ResetPageURL:      testResetPage,
		RequireResetToken: requireToken,
	}, quietLogger())
}

func TestAuthService_Login(t *testing.T) {
	users := newFakeUsersRepo()
	ana := users.seed("Ana", "ana@x.com", "Abcdef1!")
	s := newTestAuthService(users, &fakeMailer{}, false)

	res, err := s.Login(context.Background(), "Ana@x.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, res.UserID)
	require.NotEmpty(t, res.Token)

	sub, err := testIssuer().Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, sub)
}

func TestAuthService_LoginFailures(t *testing.T) {
	users := newFakeUsersRepo()
	users.seed("Ana", "ana@x.com", "Abcdef1!")
	s := newTestAuthService(users, &fakeMailer{}, false)

	cases := []struct {
		name     string
		email    string
		password string
		kind     domain.ErrorKind
		msg      string
	}{
		{"unknown email", "nobody@x.com", "Abcdef1!", domain.KindAuth, domain.MsgEmailNotFound},
		{"wrong password", "ana@x.com", "Abcdef1?", domain.KindAuth, domain.MsgIncorrectPassword},
		{"malformed email", "ana", "Abcdef1!", domain.KindValidation, validation.MsgEmailInvalid},
		{"missing password", "ana@x.com", "", domain.KindValidation, validation.MsgPasswordRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Login(context.Background(), tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
			assert.Equal(t, tc.msg, domain.MessageOf(err))
		})
	}
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	users := newFakeUsersRepo()
	users.err = errDBDown
	s := newTestAuthService(users, &fakeMailer{}, false)

	_, err := s.Login(context.Background(), "ana@x.com", "Abcdef1!")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, domain.MsgInternal, domain.MessageOf(err))
}

func resetLinkFrom(t *testing.T, text string) *url.URL {
	t.Helper()
	i := strings.Index(text, testResetPage)
	require.GreaterOrEqual(t, i, 0, text)
	u, err := url.Parse(text[i:])
	require.NoError(t, err)
	return u
}

func TestAuthService_SendResetEmail(t *testing.T) {
	users := newFakeUsersRepo()
	ana := users.seed("Ana", "ana@x.com", "Abcdef1!")
	mailer := &fakeMailer{}
	s := newTestAuthService(users, mailer, false)

	id, err := s.SendResetEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "<test-id@muuapp.mx>", id)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "ana@x.com", msg.To)
	assert.Equal(t, defaultResetSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "HOLA Ana")

	link := resetLinkFrom(t, msg.Text)
	payload, err := auth.DecodeResetPayload(link.Query().Get("data"))
	require.NoError(t, err)
	assert.Equal(t, auth.ResetPayload{Email: "ana@x.com", Name: "Ana"}, payload)

	assert.NoError(t, testIssuer().VerifyReset(link.Query().Get("token"), ana.ID, ana.PasswordHash))
}

func TestAuthService_SendResetEmailUnknown(t *testing.T) {
	mailer := &fakeMailer{}
	s := newTestAuthService(newFakeUsersRepo(), mailer, false)

	_, err := s.SendResetEmail(context.Background(), "nobody@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.MsgEmailNotFound, domain.MessageOf(err))
	assert.Empty(t, mailer.sent)
}

func TestAuthService_SendResetEmailTransportFailure(t *testing.T) {
	users := newFakeUsersRepo()
	users.seed("Ana", "ana@x.com", "Abcdef1!")
	transportErr := errors.New("smtp: 421 service not available")
	s := newTestAuthService(users, &fakeMailer{err: transportErr}, false)

	_, err := s.SendResetEmail(context.Background(), "ana@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, domain.MsgInternal, domain.MessageOf(err))
	assert.ErrorIs(t, err, transportErr)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	users := newFakeUsersRepo()
	ana := users.seed("Ana", "ana@x.com", "Abcdef1!")
	s := newTestAuthService(users, &fakeMailer{}, false)

	updated, err := s.UpdatePassword(context.Background(), "ana@x.com", "Nuevo#2024", "")
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := users.GetByID(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.NotEqual(t, ana.PasswordHash, stored.PasswordHash)

	_, err = s.Login(context.Background(), "ana@x.com", "Abcdef1!")
	assert.Equal(t, domain.MsgIncorrectPassword, domain.MessageOf(err))
	_, err = s.Login(context.Background(), "ana@x.com", "Nuevo#2024")
	assert.NoError(t, err)
}

func TestAuthService_UpdatePasswordUnknownEmail(t *testing.T) {
	users := newFakeUsersRepo()
	s := newTestAuthService(users, &fakeMailer{}, true)

	// unknown email short-circuits before the policy or the token are checked
	updated, err := s.UpdatePassword(context.Background(), "nobody@x.com", "weak", "")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestAuthService_UpdatePasswordComplexity(t *testing.T) {
	users := newFakeUsersRepo()
	ana := users.seed("Ana", "ana@x.com", "Abcdef1!")
	s := newTestAuthService(users, &fakeMailer{}, false)

	_, err := s.UpdatePassword(context.Background(), "ana@x.com", "sinmayusculas1!", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, validation.MsgPasswordUpper, domain.MessageOf(err))

	stored, err := users.GetByID(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.PasswordHash, stored.PasswordHash)
}

func TestAuthService_UpdatePasswordWithResetToken(t *testing.T) {
	users := newFakeUsersRepo()
	users.seed("Ana", "ana@x.com", "Abcdef1!")
	mailer := &fakeMailer{}
	s := newTestAuthService(users, mailer, true)

	_, err := s.UpdatePassword(context.Background(), "ana@x.com", "Nuevo#2024", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	assert.Equal(t, domain.MsgInvalidResetToken, domain.MessageOf(err))

	_, err = s.SendResetEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	token := resetLinkFrom(t, mailer.sent[0].Text).Query().Get("token")

	updated, err := s.UpdatePassword(context.Background(), "ana@x.com", "Nuevo#2024", token)
	require.NoError(t, err)
	assert.True(t, updated)

	// the link is single use
	_, err = s.UpdatePassword(context.Background(), "ana@x.com", "Otro#2025x", token)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
}
