package report

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"

	"marketintel/internal/common"
)

// Mailer delivers rendered reports over SMTP with implicit TLS.
type Mailer struct {
	cfg    common.SMTPConfig
	logger *common.Logger
}

// NewMailer creates a mailer from SMTP configuration
func NewMailer(cfg common.SMTPConfig, logger *common.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// buildMessage assembles a multipart MIME message: inline HTML body plus
// the sector chart attached as a PNG. chartPNG may be nil.
func buildMessage(cfg common.SMTPConfig, subject, htmlBody string, chartPNG []byte) ([]byte, error) {
	var buf bytes.Buffer

	from := []*mail.Address{{Address: cfg.From}}
	to := make([]*mail.Address, len(cfg.Recipients))
	for i, r := range cfg.Recipients {
		to[i] = &mail.Address{Address: r}
	}

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", from)
	h.SetAddressList("To", to)
	h.SetSubject(subject)

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("failed to create inline part: %w", err)
	}
	var htmlHeader mail.InlineHeader
	htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
	pw, err := iw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := io.WriteString(pw, htmlBody); err != nil {
		return nil, fmt.Errorf("failed to write html body: %w", err)
	}
	pw.Close()
	iw.Close()

	if len(chartPNG) > 0 {
		var attHeader mail.AttachmentHeader
		attHeader.Set("Content-Type", "image/png")
		attHeader.SetFilename("sectors.png")
		aw, err := mw.CreateAttachment(attHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment: %w", err)
		}
		if _, err := aw.Write(chartPNG); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
		aw.Close()
	}

	mw.Close()
	return buf.Bytes(), nil
}

// Send submits the message to the configured SMTP host over TLS.
func (m *Mailer) Send(subject, htmlBody string, chartPNG []byte) error {
	msg, err := buildMessage(m.cfg, subject, htmlBody, chartPNG)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP host %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}
	for _, rcpt := range m.cfg.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT %s failed: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	m.logger.Info().Str("host", m.cfg.Host).Int("recipients", len(m.cfg.Recipients)).Msg("Report emailed")
	return nil
}
