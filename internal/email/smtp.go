// Package email contiene el transporte SMTP del servicio.
package email

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

// Message es un email saliente ya validado.
type Message struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
	Cc      []string
	Bcc     []string
}

// Sender despacha un mensaje. El transporte real es SMTP; los tests inyectan
// un fake.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	FromName           string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// NewSMTPSender crea un nuevo SMTPSender con los parámetros dados.
func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "auto",
	}
}

// Send envía el mensaje por SMTP.
func (s *SMTPSender) Send(msg Message) error {
	log := logger.L().With(
		logger.Component("SMTPSender"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
		logger.Recipient(msg.To),
	)

	m := mail.NewMessage()
	if s.FromName != "" {
		m.SetAddressHeader("From", s.From, s.FromName)
	} else {
		m.SetHeader("From", s.From)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}

	if msg.IsHTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}

	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}

	if err := d.DialAndSend(m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}

	log.Info("email sent successfully")
	return nil
}
