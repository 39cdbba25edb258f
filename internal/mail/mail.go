// Package mail delivers transactional email. The SMTP dispatcher talks to a
// smtps server through goemail; when no credentials are configured a log-only
// dispatcher is used instead.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/dajohi/goemail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

// ErrNoRecipient is returned when a message has no destination address.
var ErrNoRecipient = errors.New("mail: message has no recipient")

// Message is a single outbound email. HTML takes precedence over Text when
// both are set.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Dispatcher sends a message and returns the identifier assigned to it.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Config describes the outbound SMTP account.
type Config struct {
	Host       string // host:port of a smtps server
	Username   string
	Password   string
	From       string // RFC 5322 address, e.g. "MuuApp <no-reply@muuapp.mx>"
	SkipVerify bool
	Timeout    time.Duration
}

// New returns an SMTP dispatcher, or a log-only dispatcher when the host or
// credentials are missing.
func New(cfg Config, logger *logrus.Logger) (Dispatcher, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("mail: smtp credentials missing, messages will only be logged")
		return NewLogDispatcher(logger), nil
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("parse mail from address: %w", err)
	}

	u := url.URL{
		Scheme: "smtps",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   cfg.Host,
	}
	client, err := goemail.NewSMTP(u.String(), &tls.Config{
		InsecureSkipVerify: cfg.SkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("setup smtp client: %w", err)
	}

	logger.Infof("mail host: smtps://%s:[password]@%s, from %s", cfg.Username, cfg.Host, addr.String())
	return newSMTPDispatcher(client, addr, cfg.Timeout, logger), nil
}

type sender interface {
	Send(msg *goemail.Message) error
}

// SMTPDispatcher sends mail through a goemail SMTP client.
type SMTPDispatcher struct {
	smtp        sender
	mailName    string
	mailAddress string
	timeout     time.Duration
	log         *logrus.Entry
}

func newSMTPDispatcher(s sender, from *mail.Address, timeout time.Duration, logger *logrus.Logger) *SMTPDispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SMTPDispatcher{
		smtp:        s,
		mailName:    from.Name,
		mailAddress: from.Address,
		timeout:     timeout,
		log:         logger.WithField("component", "mail"),
	}
}

// Send delivers msg, giving up after the configured timeout. goemail has no
// context support, so a timed out send keeps running in the background until
// the server answers.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}

	var m *goemail.Message
	if msg.HTML != "" {
		m = goemail.NewHTMLMessage(d.mailAddress, msg.Subject, msg.HTML)
	} else {
		m = goemail.NewMessage(d.mailAddress, msg.Subject, msg.Text)
	}
	m.SetName(d.mailName)
	m.AddTo(msg.To)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id := newMessageID(d.mailAddress)
	done := make(chan error, 1)
	go func() {
		done <- d.smtp.Send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("send mail: %w", err)
		}
	case <-ctx.Done():
		return "", fmt.Errorf("send mail: %w", ctx.Err())
	}

	d.log.WithFields(logrus.Fields{"to": msg.To, "message_id": id}).Info("mail sent")
	return id, nil
}

// LogDispatcher writes messages to the log instead of sending them.
type LogDispatcher struct {
	log *logrus.Entry
}

func NewLogDispatcher(logger *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{log: logger.WithField("component", "mail")}
}

func (d *LogDispatcher) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := newMessageID("localhost")
	d.log.WithFields(logrus.Fields{
		"to":         msg.To,
		"subject":    msg.Subject,
		"message_id": id,
	}).Info(msg.Text)
	return id, nil
}

func newMessageID(address string) string {
	domain := "localhost"
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		domain = address[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
