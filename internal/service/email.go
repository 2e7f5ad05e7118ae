package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/dropDatabas3/notibox/internal/email"
	"github.com/dropDatabas3/notibox/internal/metrics"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

// addrFallback acepta direcciones con forma local@dominio cuando el parser
// estricto rechaza formatos que en la práctica funcionan.
var addrFallback = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailService envía emails en nombre de una cuenta, descontando cuota.
type EmailService struct {
	users  *UserService
	sender email.Sender
}

func NewEmailService(users *UserService, sender email.Sender) *EmailService {
	return &EmailService{users: users, sender: sender}
}

// Send valida la API key y el mensaje, despacha por SMTP y descuenta cuota.
// La key se chequea antes que el mensaje: una key desconocida o agotada es
// un fallo blando aunque el mensaje también esté malformado.
//
// Resultados:
//   - key desconocida, cuenta inactiva o cuota agotada → (false, nil)
//   - input inválido → (false, *ValidationError), para que el controller
//     responda 400 en vez de un fallo blando
//   - fallo de transporte → (false, nil), logueado
func (s *EmailService) Send(ctx context.Context, apiKey string, msg email.Message) (bool, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("SendEmail"))

	if !s.users.Validate(ctx, apiKey) {
		log.Warn("send rejected: invalid API key or daily limit reached",
			logger.APIKey(apiKey))
		metrics.EmailsRejected.WithLabelValues("quota").Inc()
		return false, nil
	}

	if err := validateMessage(msg); err != nil {
		metrics.EmailsRejected.WithLabelValues("validation").Inc()
		return false, err
	}

	u, err := s.users.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return false, nil
	}

	if err := s.sender.Send(msg); err != nil {
		log.Error("email dispatch failed",
			logger.Recipient(msg.To), logger.Username(u.Username), logger.Err(err))
		metrics.EmailsRejected.WithLabelValues("transport").Inc()
		return false, nil
	}

	// El tope se chequeó arriba; la ventana entre Validate y RecordSend se
	// acepta (a lo sumo un email de más bajo concurrencia).
	if !s.users.RecordSend(ctx, u.ID) {
		log.Warn("sent email not counted", logger.UserID(u.ID))
	}

	log.Info("email sent",
		logger.Recipient(msg.To), logger.Username(u.Username))
	metrics.EmailsSent.Inc()
	return true, nil
}

// validateMessage chequea destinatarios y subject antes de tocar SMTP.
func validateMessage(msg email.Message) error {
	if strings.TrimSpace(msg.Subject) == "" {
		return &ValidationError{Message: "Subject is required"}
	}
	if msg.To == "" {
		return &ValidationError{Message: "Recipient is required"}
	}
	if !validAddress(msg.To) {
		return &ValidationError{Message: fmt.Sprintf("Invalid recipient address: %s", msg.To)}
	}
	for _, cc := range msg.Cc {
		if !validAddress(cc) {
			return &ValidationError{Message: fmt.Sprintf("Invalid CC address: %s", cc)}
		}
	}
	for _, bcc := range msg.Bcc {
		if !validAddress(bcc) {
			return &ValidationError{Message: fmt.Sprintf("Invalid BCC address: %s", bcc)}
		}
	}
	return nil
}

// validAddress usa el parser RFC de net/mail y cae a una regex práctica
// cuando el parser estricto rechaza la dirección.
func validAddress(addr string) bool {
	if a, err := mail.ParseAddress(addr); err == nil {
		// Rechazar formas con display name: acá esperamos solo local@dominio.
		return a.Address == addr
	}
	return addrFallback.MatchString(addr)
}
