package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report JSON field names so issue paths match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct returns one issue per failing field. Paths are relative to
// s and prefixed with prefix when it is not empty.
func validateStruct(prefix string, s any) []FieldIssue {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldIssue{{Path: prefix, Message: err.Error()}}
	}

	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		// drop the root struct name
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		issues = append(issues, FieldIssue{Path: path, Message: issueMessage(fe)})
	}
	return issues
}

// ValidateRequest checks the validate tags on a decoded request body and
// returns a *ValidationError listing every failing field.
func ValidateRequest(req any) error {
	if issues := validateStruct("", req); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "objectid":
		return "must be a valid id"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
