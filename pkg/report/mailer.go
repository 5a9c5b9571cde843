package report

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/otherjamesbrown/guestpulse/pkg/logging"
)

// SMTPConfig holds mail delivery settings. The password lives in the
// credentials store, not here.
type SMTPConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// IsConfigured reports whether delivery is set up.
func (c *SMTPConfig) IsConfigured() bool {
	return c != nil && c.Host != "" && c.From != "" && len(c.To) > 0
}

// Mailer delivers rendered reports over SMTP with STARTTLS.
type Mailer struct {
	cfg      SMTPConfig
	password string
	logger   logging.Logger
}

// NewMailer creates a mailer.
func NewMailer(cfg SMTPConfig, password string, logger logging.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Mailer{cfg: cfg, password: password, logger: logger}
}

// Send delivers one HTML message to the configured recipients.
func (m *Mailer) Send(ctx context.Context, subject string, htmlBody []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range m.cfg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.cfg.From, m.cfg.To, subject, htmlBody)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	m.logger.Info("report delivered",
		logging.F("subject", subject),
		logging.F("recipients", len(m.cfg.To)))

	return client.Quit()
}

// buildMessage assembles an RFC 5322 message. The subject carries non-ASCII
// (em dash, possibly week labels), so it is Q-encoded; the body goes as
// base64 to stay transport-safe.
func buildMessage(from string, to []string, subject string, htmlBody []byte) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")

	enc := base64.StdEncoding.EncodeToString(htmlBody)
	for len(enc) > 76 {
		b.WriteString(enc[:76] + "\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc + "\r\n")

	return []byte(b.String())
}
