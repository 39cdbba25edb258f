package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"muuapp-api/internal/auth"
	"muuapp-api/internal/domain"
	"muuapp-api/internal/mail"
	"muuapp-api/internal/repository"
	"muuapp-api/internal/validation"
)

const defaultResetSubject = "Recupera tu contraseña de MuuApp"

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token  string
	UserID string
}

// AuthService orchestrates login and the password reset flow.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// SendResetEmail mails a reset link and returns the transport message id.
	SendResetEmail(ctx context.Context, email string) (string, error)
	// UpdatePassword replaces the stored hash. It reports false, with no
	// error, when the email is not registered.
	UpdatePassword(ctx context.Context, email, password, resetToken string) (bool, error)
}

// AuthConfig tunes the reset flow.
type AuthConfig struct {
	ResetPageURL string
	ResetSubject string
	// RequireResetToken makes UpdatePassword demand the signed token from the
	// reset link.
	RequireResetToken bool
}

type authService struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	mailer    mail.Dispatcher
	templates *mail.Templates
	cfg       AuthConfig
	log       *logrus.Entry
}

func NewAuthService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer mail.Dispatcher,
	templates *mail.Templates,
	cfg AuthConfig,
	logger *logrus.Logger,
) AuthService {
	if templates == nil {
		templates = mail.DefaultTemplates()
	}
	if cfg.ResetSubject == "" {
		cfg.ResetSubject = defaultResetSubject
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		templates: templates,
		cfg:       cfg,
		log:       logger.WithField("component", "auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := (validation.Login{Email: email, Password: password}).Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.AuthError(domain.MsgEmailNotFound)
		}
		return nil, domain.InternalError(err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	if !ok {
		return nil, domain.AuthError(domain.MsgIncorrectPassword)
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("mint token: %w", err))
	}
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

func (s *authService) SendResetEmail(ctx context.Context, email string) (string, error) {
	email = validation.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.NotFoundError(domain.MsgEmailNotFound)
		}
		return "", domain.InternalError(err)
	}

	blob, err := auth.EncodeResetPayload(auth.ResetPayload{Email: user.Email, Name: user.FullName})
	if err != nil {
		return "", domain.InternalError(err)
	}
	resetToken, err := s.tokens.MintReset(user.ID, user.PasswordHash)
	if err != nil {
		return "", domain.InternalError(fmt.Errorf("mint reset token: %w", err))
	}
	link, err := auth.ResetLink(s.cfg.ResetPageURL, blob, resetToken)
	if err != nil {
		return "", domain.InternalError(err)
	}

	body, err := s.templates.ResetPassword(mail.ResetPasswordData{
		Name:  user.FullName,
		Email: user.Email,
		Link:  link,
	})
	if err != nil {
		return "", domain.InternalError(err)
	}

	id, err := s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: s.cfg.ResetSubject,
		HTML:    body,
		Text:    "Establece tu nueva contraseña en: " + link,
	})
	if err != nil {
		return "", domain.InternalError(fmt.Errorf("send reset email to %s: %w", user.Email, err))
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "message_id": id}).Info("password reset email sent")
	return id, nil
}

func (s *authService) UpdatePassword(ctx context.Context, email, password, resetToken string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, domain.InternalError(err)
	}

	if err := validation.Password(password); err != nil {
		return false, err
	}

	if s.cfg.RequireResetToken || resetToken != "" {
		if err := s.tokens.VerifyReset(resetToken, user.ID, user.PasswordHash); err != nil {
			return false, domain.AuthError(domain.MsgInvalidResetToken)
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, domain.InternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between lookup and update
			return false, nil
		}
		return false, domain.InternalError(err)
	}

	s.log.WithField("user_id", user.ID).Info("password updated")
	return true, nil
}
