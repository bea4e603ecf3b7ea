package httputil

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

// WriteJSON escribe body como JSON con el status indicado.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
	}
}

// DecodeJSON decodifica el body; rechaza campos desconocidos.
func DecodeJSON(r io.Reader, v any) error {
	dec := sonic.ConfigDefault.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
