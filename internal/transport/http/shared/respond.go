// Package shared centralizes JSON response envelopes so every handler maps
// domain errors to HTTP the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "oreledger/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteError translates a domain error into the JSON error envelope. The
// numeric code in the body is the registry error code, not the HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		de = dErrors.New(dErrors.CodeInternal, "internal error")
	}
	WriteJSON(w, dErrors.HTTPStatus(de.Code), errorEnvelope{
		Code:    int(de.Code),
		Message: de.Message,
	})
}
