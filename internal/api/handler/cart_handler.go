package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/cakeshop/pkg/response"
)

type addToCartRequest struct {
	MenuID   string `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Size     string `json:"size"`
}

// AddToCart 校验并加入会话购物车
// @Summary 加入购物车
// @Tags 购物车
// @Accept json
// @Produce json
// @Param request body addToCartRequest true "购物车行"
// @Success 200 {object} response.Response{data=model.Cart}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/cart/add [post]
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cart, err := h.carts.Add(c.Request.Context(), callerID(c), req.MenuID, req.Quantity, req.Size)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

// GetCart 查看会话购物车
// @Summary 查看购物车
// @Tags 购物车
// @Produce json
// @Success 200 {object} response.Response{data=model.Cart}
// @Security BearerAuth
// @Router /api/v1/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), callerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空会话购物车
// @Summary 清空购物车
// @Tags 购物车
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), callerID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
