package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
)

type sampleRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email_basic"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gt=0"`
	Status    string  `json:"status" validate:"omitempty,oneof=draft sent accepted rejected converted"`
	Currency  string  `json:"currency" validate:"omitempty,iso4217"`
}

func valid() sampleRequest {
	return sampleRequest{Name: "Acme", Quantity: 1, UnitPrice: 10}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *httpx.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, 400, apiErr.Status)
}

func TestValidatePasses(t *testing.T) {
	req := valid()
	req.Status = "draft"
	req.Currency = "PKR"
	require.NoError(t, Validate(req))
}

func TestValidateMissingRequired(t *testing.T) {
	req := valid()
	req.Name = ""
	assertCode(t, Validate(req), "MISSING_NAME")
}

func TestValidateBadEmail(t *testing.T) {
	req := valid()
	bad := "not-an-email"
	req.Email = &bad
	assertCode(t, Validate(req), "INVALID_EMAIL")
}

func TestValidateNegativeQuantity(t *testing.T) {
	req := valid()
	req.Quantity = -1
	assertCode(t, Validate(req), "INVALID_QUANTITY")
}

func TestValidateFieldCodeCamelCase(t *testing.T) {
	req := valid()
	req.UnitPrice = 0
	assertCode(t, Validate(req), "INVALID_UNIT_PRICE")
}

func TestValidateBogusStatus(t *testing.T) {
	req := valid()
	req.Status = "bogus"
	assertCode(t, Validate(req), "INVALID_STATUS")
}

func TestValidateBogusCurrency(t *testing.T) {
	req := valid()
	req.Currency = "ZZZZ"
	assertCode(t, Validate(req), "INVALID_CURRENCY")
}

func TestTrimOptional(t *testing.T) {
	blank := "   "
	assert.Nil(t, TrimOptional(&blank))
	assert.Nil(t, TrimOptional(nil))

	padded := "  hello  "
	got := TrimOptional(&padded)
	require.NotNil(t, got)
	assert.Equal(t, "hello", *got)
}
