package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"PaperRecommender/internal/config"
	"PaperRecommender/internal/ports"
)

// Sender delivers rendered digests over SMTP. The first delivery attempt
// negotiates an opportunistic STARTTLS upgrade; if the server rejects it,
// the send is retried over an implicit-TLS (SMTPS) connection.
type Sender struct {
	host       string
	port       int
	address    string
	password   string
	recipients []string
	logger     *slog.Logger
}

var _ ports.DigestSender = (*Sender)(nil)

// NewSender registers mail credentials and the static recipient set.
func NewSender(cfg config.MailConfig, log *slog.Logger) *Sender {
	return &Sender{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		address:    cfg.Address,
		password:   cfg.Password,
		recipients: cfg.Recipients,
		logger:     log,
	}
}

// Send delivers one HTML digest to all configured recipients at once.
func (s *Sender) Send(ctx context.Context, subject, htmlBody string) error {
	if s.address == "" || s.password == "" || len(s.recipients) == 0 {
		return fmt.Errorf("mail sender misconfigured")
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.address); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(s.recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	starttlsErr := s.deliver(ctx, msg, false)
	if starttlsErr == nil {
		return nil
	}

	s.warn("starttls delivery failed, retrying over implicit tls", "error", starttlsErr)

	if sslErr := s.deliver(ctx, msg, true); sslErr != nil {
		return fmt.Errorf("send digest: starttls: %v; implicit tls: %w", starttlsErr, sslErr)
	}

	return nil
}

func (s *Sender) deliver(ctx context.Context, msg *gomail.Msg, implicitTLS bool) error {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.address),
		gomail.WithPassword(s.password),
	}
	if implicitTLS {
		opts = append(opts, gomail.WithSSLPort(false))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}

	return nil
}

func (s *Sender) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
