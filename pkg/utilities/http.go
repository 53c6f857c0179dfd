package utilities

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "the field '%s' is required",
	"email":    "the field '%s' must be a valid email address",
	"min":      "the field '%s' must be at least %s characters long",
	"max":      "the field '%s' must be no longer than %s characters",
	"oneof":    "the field '%s' must be one of [%s]",
}

func fieldMessage(e validator.FieldError) string {
	msg, ok := fieldMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("the field '%s' is invalid: %s", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}

// ValidationError lists the offending fields of a request payload, keyed by
// their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		parts = append(parts, m)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return apperr.ErrInvalidInput }

// Validate checks the validate tags on v (a struct pointer).
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperr.InvalidInput("invalid payload", err)
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// DecodeJSON reads a JSON body into v and validates it.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.InvalidInput("invalid payload", err)
	}
	return Validate(v)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError classifies err and writes {"error": ...}. Internal errors are
// logged with their stack and answered with a generic message.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": ve.Fields})
		return
	}
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		logger.Errorw("request failed", "err", err, "stack", string(e.Stack))
		WriteJSON(w, e.Status(), map[string]string{"error": "internal error"})
		return
	}
	logger.Debugw("request rejected", "kind", e.Kind, "err", err)
	WriteJSON(w, e.Status(), map[string]string{"error": e.Message})
}
