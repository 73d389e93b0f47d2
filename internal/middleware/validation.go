package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	validate     = validator.New()
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// ValidatedKey is the context key holding the bound request body.
const ValidatedKey = "validated_data"

// SanitizeString removes control characters except newlines and tabs, and
// trims whitespace.
func SanitizeString(input string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(input, ""))
}

// BindAndValidate decodes the JSON body into v and runs struct validation.
// An empty body leaves v at its zero value, so required fields still fail.
// On failure it writes a 400 response and returns false.
func BindAndValidate(c *gin.Context, v interface{}) bool {
	if hasBody(c.Request) {
		if err := c.ShouldBindJSON(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid JSON format",
				"details": err.Error(),
			})
			return false
		}
	}
	if err := validate.Struct(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// ValidateJSON binds the body into a fresh value from newV and stores it
// under ValidatedKey.
func ValidateJSON(newV func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := newV()
		if !BindAndValidate(c, v) {
			c.Abort()
			return
		}
		c.Set(ValidatedKey, v)
		c.Next()
	}
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// Validated returns the body stored by ValidateJSON, or binds and validates
// it in place when the route has no ValidateJSON middleware.
func Validated[T any](c *gin.Context) (*T, bool) {
	if v, ok := c.Get(ValidatedKey); ok {
		if t, ok := v.(*T); ok {
			return t, true
		}
	}
	t := new(T)
	if !BindAndValidate(c, t) {
		return nil, false
	}
	return t, true
}
