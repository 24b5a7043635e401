package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch shared.KindOf(err) {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindAuthentication:
		return http.StatusUnauthorized
	case shared.KindAuthorization:
		return http.StatusForbidden
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message}. Internal errors are logged and
// never echoed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error("request failed", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"error": shared.Message(err)})
}

// respondBindError reports malformed bodies and failed binding tags.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(msgs, "; ")})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_", field)
	case "slug":
		return fmt.Sprintf("%s may contain only latin letters, digits, hyphens and underscores", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
