package service

import (
	"strings"
	"time"

	"github.com/d60-Lab/cakeshop/internal/model"
)

// ValidateFulfillment 履约字段校验：配送单必须有地址，自提单必须有自提日期。
// 对侧方式的字段允许缺省但不主动清除，由调用方负责不传无关字段
func ValidateFulfillment(method, address string, pickupDate *time.Time) error {
	switch method {
	case model.DeliveryMethodDelivery:
		if strings.TrimSpace(address) == "" {
			return ErrDeliveryAddressRequired
		}
	case model.DeliveryMethodPickup:
		if pickupDate == nil {
			return ErrPickupDateRequired
		}
	default:
		return ErrInvalidDeliveryMethod
	}
	return nil
}

// ValidatePaymentMethod 支付方式必须是已识别的取值之一
func ValidatePaymentMethod(method string) error {
	switch method {
	case model.PaymentMethodCash, model.PaymentMethodGCash:
		return nil
	default:
		return ErrInvalidPaymentMethod
	}
}
