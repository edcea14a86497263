package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/cakeshop/internal/service"
	"github.com/d60-Lab/cakeshop/pkg/response"
)

type placeOrderRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,phone"`

	DeliveryMethod  string `json:"delivery_method" binding:"required"`
	DeliveryAddress string `json:"delivery_address"`
	PickupDate      string `json:"pickup_date"` // 仅日期，2006-01-02

	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`

	CustomCake *service.CustomCakeSpec `json:"custom_cake,omitempty"`
}

// PlaceOrder 把购物车（或定制蛋糕规格）装配为订单
// @Summary 下单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body placeOrderRequest true "下单信息"
// @Success 201 {object} response.Response{data=model.Order}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var pickupDate *time.Time
	if req.PickupDate != "" {
		d, err := time.Parse("2006-01-02", req.PickupDate)
		if err != nil {
			response.BadRequest(c, "pickup_date must be YYYY-MM-DD")
			return
		}
		pickupDate = &d
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		CustomerID:      callerID(c),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		PickupDate:      pickupDate,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		CustomCake:      req.CustomCake,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// GetOrder 查询订单详情（本人或员工）
// @Summary 订单详情
// @Tags 订单
// @Produce json
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"), callerID(c), callerRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表：客户看自己的，员工看全部
// @Summary 订单列表
// @Tags 订单
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	orders, err := h.orders.ListOrders(c.Request.Context(), callerID(c), callerRole(c), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 员工推进订单状态机
// @Summary 更新订单状态
// @Tags 订单
// @Accept json
// @Produce json
// @Param id path string true "订单ID"
// @Param request body updateStatusRequest true "目标状态"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.lifecycle.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单（本人或员工；仅 pending/processing 可取消）
// @Summary 取消订单
// @Tags 订单
// @Produce json
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"), callerID(c), callerRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type confirmPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

// ConfirmPayment 员工登记支付核验（与状态机正交）
// @Summary 核验支付
// @Tags 订单
// @Accept json
// @Produce json
// @Param id path string true "订单ID"
// @Param request body confirmPaymentRequest true "外部支付引用"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/orders/{id}/payment [patch]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.lifecycle.ConfirmPayment(c.Request.Context(), c.Param("id"), req.PaymentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}
