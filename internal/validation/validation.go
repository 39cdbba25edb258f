// Package validation holds the request schemas. Each schema reports only the
// first rule that fails, walking fields in declaration order.
package validation

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"muuapp-api/internal/domain"
)

// Messages shown to MuuApp users.
const (
	MsgEmailRequired    = "El correo es obligatorio"
	MsgEmailInvalid     = "El correo no es válido"
	MsgPasswordRequired = "La contraseña es obligatoria"
	MsgPasswordLength   = "La contraseña debe contener 8 caracteres"
	MsgPasswordLower    = "La contraseña debe contener una letra minúscula"
	MsgPasswordUpper    = "La contraseña debe contener una letra mayúscula"
	MsgPasswordSymbol   = "La contraseña debe contener un símbolo"
	MsgPasswordTooLong  = "La contraseña no puede superar 72 bytes"
	MsgFullNameTooLong  = "El nombre no puede superar 100 caracteres"
)

// bcrypt ignores nothing past this many bytes; it refuses longer input.
const maxPasswordBytes = 72

var (
	lowerRe  = regexp.MustCompile(`\p{Ll}`)
	upperRe  = regexp.MustCompile(`\p{Lu}`)
	symbolRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// Login is the payload of POST /auth.
type Login struct {
	Email    string
	Password string
}

// Validate applies the login schema. No complexity policy on login.
func (l Login) Validate() error {
	return first(
		field{l.Email, emailRules()},
		field{l.Password, []validation.Rule{validation.Required.Error(MsgPasswordRequired)}},
	)
}

// Registration is the payload of POST /users.
type Registration struct {
	FullName string
	Email    string
	Password string
}

func (r Registration) Validate() error {
	return first(
		field{r.FullName, []validation.Rule{validation.RuneLength(0, 100).Error(MsgFullNameTooLong)}},
		field{r.Email, emailRules()},
		field{r.Password, passwordPolicy()},
	)
}

// PasswordReset is the payload of POST /users/new-password.
type PasswordReset struct {
	Email    string
	Password string
}

func (p PasswordReset) Validate() error {
	return first(
		field{p.Email, emailRules()},
		field{p.Password, passwordPolicy()},
	)
}

// Password checks a bare password against the complexity policy.
func Password(password string) error {
	return first(field{password, passwordPolicy()})
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(MsgEmailRequired),
		is.Email.Error(MsgEmailInvalid),
	}
}

// passwordPolicy is ordered: length, lowercase, uppercase, symbol.
func passwordPolicy() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(MsgPasswordRequired),
		validation.RuneLength(8, 0).Error(MsgPasswordLength),
		validation.Match(lowerRe).Error(MsgPasswordLower),
		validation.Match(upperRe).Error(MsgPasswordUpper),
		validation.Match(symbolRe).Error(MsgPasswordSymbol),
		validation.By(maxBytes),
	}
}

func maxBytes(value interface{}) error {
	s, _ := value.(string)
	if len(s) > maxPasswordBytes {
		return errors.New(MsgPasswordTooLong)
	}
	return nil
}

type field struct {
	value string
	rules []validation.Rule
}

// first runs fields in order and converts the first failure into a
// domain validation error.
func first(fields ...field) error {
	for _, f := range fields {
		if err := validation.Validate(f.value, f.rules...); err != nil {
			return domain.ValidationError(err.Error())
		}
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address before lookups and writes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
