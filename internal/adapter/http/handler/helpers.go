package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrTrailingData is returned when the body holds more than one JSON value
var ErrTrailingData = errors.New("unexpected data after JSON value")

// BindStrictJSON binds the request body like ShouldBindJSON, but rejects
// bodies with anything other than whitespace after the first JSON value.
func BindStrictJSON(c *gin.Context, obj any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if err := binding.JSON.BindBody(raw, obj); err != nil {
		return err
	}
	if !json.Valid(raw) {
		return ErrTrailingData
	}
	return nil
}

// ValidationMessage renders a request binding error as a short client-facing message
func ValidationMessage(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		fieldErrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, ErrTrailingData):
		return "malformed JSON: unexpected data after the top-level value"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON: unexpected end of input"
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return fmt.Sprintf("body must be a JSON object, got %s", typeErr.Value)
		}
		return fmt.Sprintf("%s: expected %s, got %s", field, typeErr.Type.String(), typeErr.Value)
	case errors.As(err, &fieldErrs):
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	default:
		return "invalid request body"
	}
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return name + ": field required"
	default:
		return fmt.Sprintf("%s: failed %s validation", name, fe.Tag())
	}
}

// jsonFieldName lowercases the struct field name; request fields are single words
func jsonFieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
