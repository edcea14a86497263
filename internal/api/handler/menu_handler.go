package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/pkg/logger"
	"github.com/d60-Lab/cakeshop/pkg/response"
)

const menuCacheTTL = 5 * time.Minute

func menuCacheKey(id string) string { return "menu:" + id }

// GetMenuItem 查询菜单项详情（含库存、分类、价格、规格）
// @Summary 菜单项详情
// @Tags 菜单
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 404 {object} response.Response
// @Router /api/v1/menu/{id} [get]
func (h *Handler) GetMenuItem(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// 缓存命中直接返回；Redis 故障时透明退化为直查
	if h.rdb != nil {
		if raw, err := h.rdb.Get(ctx, menuCacheKey(id)).Bytes(); err == nil {
			var p model.Product
			if json.Unmarshal(raw, &p) == nil {
				response.Success(c, p)
				return
			}
		}
	}

	product, err := h.products.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "product not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(product); err == nil {
			if err := h.rdb.Set(ctx, menuCacheKey(id), raw, menuCacheTTL).Err(); err != nil {
				logger.L().Warn("menu cache set failed", zap.String("product_id", id), zap.Error(err))
			}
		}
	}
	response.Success(c, product)
}
