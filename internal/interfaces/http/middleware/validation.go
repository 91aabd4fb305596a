package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// SetupValidator makes gin's validator report JSON field names and lets
// numeric tags (gt, gte, lte) apply to decimal amounts
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// FormatValidationErrors converts validator errors into field details.
// Fields are reported by their JSON path, e.g. items[0].qty.
func FormatValidationErrors(errs validator.ValidationErrors) []dto.ValidationDetail {
	details := make([]dto.ValidationDetail, 0, len(errs))
	for _, e := range errs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		details = append(details, dto.ValidationDetail{
			Field:   field,
			Message: getValidationMessage(e),
		})
	}
	return details
}

// HandleBindError writes the response for a failed ShouldBind call.
// Validation failures are 422, unreadable bodies are 400 and oversized
// bodies are 413.
func HandleBindError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
			dto.NewValidationErrorResponse("Request validation failed", requestID, FormatValidationErrors(verrs)))
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			dto.NewErrorResponse(dto.CodeRequestTooLarge, "Request body exceeds maximum allowed size", requestID))
		return
	}

	message := "Malformed request body"
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		message = "Field '" + typeErr.Field + "' has the wrong type"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		message = "Request body is not valid JSON"
	case errors.Is(err, io.EOF):
		message = "Request body is required"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CodeBadRequest, message, requestID))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		switch e.Kind() {
		case reflect.String:
			return "Must be at least " + e.Param() + " characters"
		case reflect.Slice:
			return "Must contain at least " + e.Param() + " entries"
		}
		return "Must be at least " + e.Param()
	case "max":
		switch e.Kind() {
		case reflect.String:
			return "Must be at most " + e.Param() + " characters"
		case reflect.Slice:
			return "Must contain at most " + e.Param() + " entries"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "datetime":
		return "Must match the format " + e.Param()
	default:
		return "Invalid value"
	}
}
