package shared_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hostel/shared"
	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(t *testing.T, body string) *http.Request {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, request.ParseForm())

	return request
}

func TestFormInt(t *testing.T) {
	request := formRequest(t, "capacity=6&floor=abc")

	capacity, err := shared.FormInt(request, "capacity")
	require.NoError(t, err)
	require.NotNil(t, capacity)
	assert.Equal(t, 6, *capacity)

	missing, err := shared.FormInt(request, "beds")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = shared.FormInt(request, "floor")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestFormDecimal(t *testing.T) {
	request := formRequest(t, "price=25.50&discount=ten")

	price, err := shared.FormDecimal(request, "price")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, "25.5", price.String())

	missing, err := shared.FormDecimal(request, "deposit")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = shared.FormDecimal(request, "discount")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
