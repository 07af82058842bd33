package shared

import (
	"net/http"

	"hostel/shared/constant"
	"hostel/shared/failure"

	"github.com/shopspring/decimal"
)

// FormInt reads an optional integer form value. A missing key yields nil.
func FormInt(request *http.Request, key string) (*int, error) {
	value := request.FormValue(key)
	if value == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	number, err := ConvertStringToInt(value)
	if err != nil {
		return nil, failure.BadRequestFromString(key + " must be a number") // nolint:wrapcheck
	}

	return &number, nil
}

// FormDecimal reads an optional decimal form value. A missing key yields nil.
func FormDecimal(request *http.Request, key string) (*decimal.Decimal, error) {
	value := request.FormValue(key)
	if value == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	number, err := decimal.NewFromString(value)
	if err != nil {
		return nil, failure.BadRequestFromString(key + " must be a decimal number") // nolint:wrapcheck
	}

	return &number, nil
}
