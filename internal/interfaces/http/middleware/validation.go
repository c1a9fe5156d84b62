package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/outsiders/backend/internal/interfaces/http/dto"
)

// SetupValidator makes gin's validator report field names by their json
// (or form) tag, so error details match the payload the client actually
// sent instead of Go struct field names.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// FormatValidationErrors turns a binding error into the standard error
// envelope. Validator errors become one detail per failing field; anything
// else (malformed JSON, wrong content type) becomes a single body-level
// detail so the client always gets at least one reason.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   fieldErr.Field(),
				Message: getValidationMessage(fieldErr),
			})
		}
	} else {
		details = append(details, dto.ValidationDetail{
			Field:   "body",
			Message: "Malformed request body",
		})
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError writes a 400 with the formatted validation details.
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// Messages for tags that carry no parameter.
var plainMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
}

// getValidationMessage maps a failed tag to a client-facing message. The
// tags covered are the ones the request DTOs actually use; anything new
// falls through to a generic message rather than leaking tag internals.
func getValidationMessage(e validator.FieldError) string {
	if msg, ok := plainMessages[e.Tag()]; ok {
		return msg
	}

	switch e.Tag() {
	case "min":
		return boundMessage("Must be at least ", e)
	case "max":
		return boundMessage("Must be at most ", e)
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}

// boundMessage phrases min/max in characters for strings and as a plain
// bound for numbers, matching how the limit reads in the DTO tag.
func boundMessage(prefix string, e validator.FieldError) string {
	if e.Type().Kind() == reflect.String {
		return prefix + e.Param() + " characters"
	}
	return prefix + e.Param()
}
