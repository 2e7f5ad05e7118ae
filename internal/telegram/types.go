package telegram

import "fmt"

// apiResponse es el sobre de respuesta del Bot API.
type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Update es el subconjunto del update de Telegram que procesamos:
// el texto del mensaje y el chat de origen.
type Update struct {
	Message *Message `json:"message"`
}

type Message struct {
	Text string `json:"text"`
	Chat *Chat  `json:"chat"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// APIError reporta un fallo del Bot API con una pista de status HTTP para
// que el controller la refleje.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s (status %d)", e.Message, e.Status)
}
