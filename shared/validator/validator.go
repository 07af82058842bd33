package validator

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"hostel/shared/constant"
	"hostel/shared/failure"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *val.Validate

const bytesPerMB = 1024 * 1024

// upload describes a file field: a multipart header or a data URI string.
func upload(field val.FieldLevel) (contentType string, size int64, ok bool) {
	switch v := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return v.Header.Get(constant.RequestHeaderContentType), v.Size, true
	case *multipart.FileHeader:
		if v == nil {
			return constant.Empty, 0, false
		}

		return v.Header.Get(constant.RequestHeaderContentType), v.Size, true
	case string:
		return dataURI(v)
	default:
		return constant.Empty, 0, false
	}
}

// dataURI reads "data:<type>;base64,<payload>" and reports the decoded payload size.
func dataURI(value string) (contentType string, size int64, ok bool) {
	rest, found := strings.CutPrefix(value, "data:")
	if !found {
		return constant.Empty, 0, false
	}

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return constant.Empty, 0, false
	}

	contentType, _, _ = strings.Cut(meta, ";")

	return contentType, int64(base64.StdEncoding.DecodedLen(len(payload))), contentType != constant.Empty
}

func registerMimetypeValidation(field val.FieldLevel) bool {
	contentType, _, ok := upload(field)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxfilesize takes its limit in megabytes.
func registerFileSizeValidation(field val.FieldLevel) bool {
	_, size, ok := upload(field)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(size) <= maxSizeMB*bytesPerMB
}

func registerDateValidation(field val.FieldLevel) bool {
	_, err := time.Parse(constant.DateOnlyFormat, field.Field().String())

	return err == nil
}

func registerClockValidation(field val.FieldLevel) bool {
	_, err := time.Parse(constant.ClockFormat, field.Field().String())

	return err == nil
}

// decimal_gte compares a decimal.Decimal field against the tag parameter.
func registerDecimalGteValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	limit, err := decimal.NewFromString(field.Param())
	if err != nil {
		return false
	}

	return value.GreaterThanOrEqual(limit)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
	if name == "-" {
		return constant.Empty
	}

	if name == constant.Empty {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)

	validations := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"date":        registerDateValidation,
		"clock":       registerClockValidation,
		"decimal_gte": registerDecimalGteValidation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct reports every failing field under its json name.
func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	if fields := fieldMessages(err); len(fields) > 0 {
		return failure.Validation(message(err), fields) //nolint:wrapcheck
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
