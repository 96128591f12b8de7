package requests

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, body string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/payments/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestValidatePaymentCreate(t *testing.T) {
	c := newTestContext(t, `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 30.00}`)

	req, errs := ValidatePaymentCreate(c)
	require.Nil(t, errs)
	assert.Equal(t, "John Smith", req.CustomerName)
	assert.Equal(t, "john@example.com", req.CustomerEmail)
	assert.Equal(t, 30.00, req.Amount)
}

func TestValidatePaymentCreateMissingFields(t *testing.T) {
	c := newTestContext(t, `{"customer_name": "John Smith"}`)

	req, errs := ValidatePaymentCreate(c)
	assert.Nil(t, req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "customer_email")
	assert.Contains(t, errs, "amount")
}

func TestValidatePaymentCreateInvalidEmail(t *testing.T) {
	c := newTestContext(t, `{"customer_name": "John Smith", "customer_email": "not-an-email", "amount": 30.00}`)

	req, errs := ValidatePaymentCreate(c)
	assert.Nil(t, req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "customer_email")
	assert.NotContains(t, errs, "customer_name")
}

func TestValidatePaymentCreateAmount(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 0}`},
		{"negative", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": -1}`},
		{"too many decimals", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 10.999}`},
		{"too large", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 100000000}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, errs := ValidatePaymentCreate(newTestContext(t, tc.body))
			assert.Nil(t, req)
			require.NotNil(t, errs)
			assert.Contains(t, errs, "amount")
		})
	}
}

func TestValidatePaymentCreateMalformedBody(t *testing.T) {
	c := newTestContext(t, `{"customer_name": `)

	req, errs := ValidatePaymentCreate(c)
	assert.Nil(t, req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "message")
}

func TestValidatePaymentCreateNameTooLong(t *testing.T) {
	longName := strings.Repeat("a", 101)
	c := newTestContext(t, `{"customer_name": "`+longName+`", "customer_email": "john@example.com", "amount": 30.00}`)

	req, errs := ValidatePaymentCreate(c)
	assert.Nil(t, req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "customer_name")
}
