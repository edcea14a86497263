package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/cakeshop/internal/model"
)

func TestValidateFulfillment(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateFulfillment(model.DeliveryMethodDelivery, "123 Mabini St", nil))
	assert.ErrorIs(t, ValidateFulfillment(model.DeliveryMethodDelivery, "", nil), ErrDeliveryAddressRequired)
	assert.ErrorIs(t, ValidateFulfillment(model.DeliveryMethodDelivery, "   ", nil), ErrDeliveryAddressRequired)

	assert.NoError(t, ValidateFulfillment(model.DeliveryMethodPickup, "", &date))
	assert.ErrorIs(t, ValidateFulfillment(model.DeliveryMethodPickup, "", nil), ErrPickupDateRequired)

	assert.ErrorIs(t, ValidateFulfillment("courier", "addr", &date), ErrInvalidDeliveryMethod)
}

func TestValidatePaymentMethod(t *testing.T) {
	assert.NoError(t, ValidatePaymentMethod(model.PaymentMethodCash))
	assert.NoError(t, ValidatePaymentMethod(model.PaymentMethodGCash))
	assert.ErrorIs(t, ValidatePaymentMethod("paypal"), ErrInvalidPaymentMethod)
	assert.ErrorIs(t, ValidatePaymentMethod(""), ErrInvalidPaymentMethod)
}
