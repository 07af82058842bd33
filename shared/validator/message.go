package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"date":        "{field} must be a date formatted as YYYY-MM-DD",
		"clock":       "{field} must be a time formatted as HH:MM",
		"decimal_gte": "{field} must be greater than or equal to {param}",
		"dive":        "{field} contains an invalid value",
	}
)

func render(valErr val.FieldError) string {
	errStr := messages[valErr.Tag()]
	if errStr == "" {
		return valErr.Error()
	}

	errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
	errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

	return errStr
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			if messages[valErr.Tag()] != "" {
				return render(valErr)
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}

// fieldMessages groups every validation failure under its json field name.
func fieldMessages(err error) map[string][]string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return nil
	}

	fields := make(map[string][]string, len(valErrors))
	for _, valErr := range valErrors {
		fields[valErr.Field()] = append(fields[valErr.Field()], render(valErr))
	}

	return fields
}
