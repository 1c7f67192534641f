package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

func init() {
	// Use JSON tag names for errors instead of Go struct names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the body into dst and reports problems as validation errors.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return translateBindError(err)
	}
	return nil
}

func translateBindError(err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &apperrors.ValidationError{Message: "Invalid input", Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Invalid(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}
	return apperrors.Invalidf("Invalid input: %s", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Invalid(name, "Invalid "+name)
	}
	return uint(id), nil
}

// parseOptionalID reads an optional positive integer query parameter.
func parseOptionalID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperrors.Invalid(name, name+" must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}
