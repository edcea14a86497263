package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/cakeshop/internal/middleware"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/internal/service"
	"github.com/d60-Lab/cakeshop/pkg/response"
)

// Handler HTTP 处理器集合
type Handler struct {
	auth      *service.AuthService
	carts     *service.CartService
	orders    *service.OrderService
	lifecycle *service.LifecycleService
	products  repository.ProductRepository
	rdb       *redis.Client
}

func New(
	auth *service.AuthService,
	carts *service.CartService,
	orders *service.OrderService,
	lifecycle *service.LifecycleService,
	products repository.ProductRepository,
	rdb *redis.Client,
) *Handler {
	return &Handler{auth: auth, carts: carts, orders: orders, lifecycle: lifecycle, products: products, rdb: rdb}
}

func callerID(c *gin.Context) string   { return c.GetString(middleware.CtxUserID) }
func callerRole(c *gin.Context) string { return c.GetString(middleware.CtxRole) }

// writeServiceError 把领域错误映射到 HTTP 状态码。
// 校验类错误可由调用方修正后重试；库存类冲突带上当前余量
func writeServiceError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	var changedErr *service.StockChangedError

	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.As(err, &stockErr):
		response.Conflict(c, stockErr.Error(), gin.H{"available": stockErr.Available})
	case errors.As(err, &changedErr):
		response.Conflict(c, changedErr.Error(), gin.H{"failures": changedErr.Failures})
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.Conflict(c, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrVariantRequired),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrInvalidDeliveryMethod),
		errors.Is(err, service.ErrDeliveryAddressRequired),
		errors.Is(err, service.ErrPickupDateRequired),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidCakeSpec),
		errors.Is(err, service.ErrEmptyCart):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
