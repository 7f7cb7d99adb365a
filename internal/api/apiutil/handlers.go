// Package apiutil holds the JSON request and response helpers shared by the
// HTTP handlers.
package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/apperror"
)

const maxBodyBytes = 1 << 20

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InvalidField reports a malformed request field as a validation error.
func InvalidField(field, reason string) error {
	fe := FieldError{Field: field, Reason: reason}
	return apperror.Wrap(apperror.KindValidation, fe.Error(), fe)
}

// DecodeJSON decodes exactly one JSON object into dst, rejecting unknown
// fields. Decoding failures are validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return apperror.Validation("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("missing request body")
		}
		return apperror.Wrap(apperror.KindValidation, "invalid JSON body", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperror.Validation("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSuccess writes {"success":true} merged with fields.
func WriteSuccess(w http.ResponseWriter, r *http.Request, status int, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if err := WriteJSON(w, status, body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError maps err onto its HTTP status and writes {"success":false}.
// Errors outside the taxonomy are logged and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	logger := log.Ctx(r.Context())
	if kind == apperror.KindInternal {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("kind", kind.String()).Msg("Request rejected")
	}

	msg := apperror.PublicMessage(err, "internal server error")
	if kind == apperror.KindInternal {
		msg = "internal server error"
	}
	if werr := WriteJSON(w, kind.HTTPStatus(), errorBody{Success: false, Error: msg}); werr != nil {
		logger.Error().Err(werr).Msg("Failed to write error response")
	}
}

// WriteRateLimited answers 429 with a Retry-After header in whole seconds.
func WriteRateLimited(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	body := errorBody{Success: false, Error: "too many requests, please try again later"}
	if err := WriteJSON(w, http.StatusTooManyRequests, body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write rate limit response")
	}
}
