package digest

import (
	"errors"
	"fmt"
	"net/textproto"

	"elles-app/config"

	"gopkg.in/gomail.v2"
)

// Report is one rendered digest ready for delivery.
type Report struct {
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(report Report) error
}

// SMTPSender delivers reports with gomail. Port 465 uses implicit TLS,
// other ports upgrade with STARTTLS when the server offers it.
type SMTPSender struct {
	cfg config.MailConfig
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(report Report) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.cfg.User, s.cfg.FromName)
	msg.SetHeader("To", s.cfg.ReportTo)
	msg.SetHeader("Subject", report.Subject)
	msg.SetBody("text/plain", report.Text)
	msg.AddAlternative("text/html", report.HTML)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.User, s.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return classifySMTP(err)
	}
	return nil
}

func classifySMTP(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && protoErr.Code == 535 {
		return fmt.Errorf("%w: smtp: %v", ErrAuth, err)
	}
	return fmt.Errorf("%w: smtp: %v", ErrConnection, err)
}
