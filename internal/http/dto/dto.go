// Package dto define los request/response del API.
package dto

// Response es el sobre uniforme de todas las respuestas.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK construye un sobre de éxito.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail construye un sobre de fallo.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// FailData construye un sobre de fallo con data explícita (p.ej. false).
func FailData(message string, data any) Response {
	return Response{Success: false, Message: message, Data: data}
}

// CreateUserRequest es el body de POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// EmailRequest es el body de POST /api/email/send.
type EmailRequest struct {
	To      string   `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"isHtml"`
	Cc      []string `json:"cc"`
	Bcc     []string `json:"bcc"`
}
