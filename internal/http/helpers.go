package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/notibox/internal/http/dto"
)

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteFail escribe el sobre de fallo con el status dado.
func WriteFail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, dto.Fail(message))
}

// ReadJSON decodifica JSON de forma tolerante (NO falla por campos
// desconocidos). Valida Content-Type y limita el body a 1MB.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteFail(w, http.StatusBadRequest, "Content-Type must be application/json")
		return false
	}
	// máx 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteFail(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
